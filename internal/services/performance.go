package services

import (
	"context"
	"time"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/query"
	"github.com/itm-platform/itm-data-api/internal/repos"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type PerformanceService interface {
	SystemHistory(ctx context.Context, eqpIDs []string, startDate, endDate string) ([]*types.EqpPerf, error)
	ProcessHistory(ctx context.Context, eqpID, startDate, endDate string) ([]*types.EqpProcPerf, error)
	AgentTrend(ctx context.Context, eqpID, startDate, endDate string) ([]*types.EqpProcPerf, error)
}

type performanceService struct {
	log      *logger.Logger
	perfRepo repos.PerfRepo
	loc      *time.Location
	now      func() time.Time
}

func NewPerformanceService(perfRepo repos.PerfRepo, loc *time.Location, baseLog *logger.Logger) PerformanceService {
	return &performanceService{
		log:      baseLog.With("service", "PerformanceService"),
		perfRepo: perfRepo,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *performanceService) SystemHistory(ctx context.Context, eqpIDs []string, startDate, endDate string) ([]*types.EqpPerf, error) {
	if len(eqpIDs) == 0 {
		return []*types.EqpPerf{}, nil
	}
	start, end := query.SafeRange(startDate, endDate, s.loc, s.now())
	return s.perfRepo.SystemHistory(ctx, nil, eqpIDs, start, end)
}

func (s *performanceService) ProcessHistory(ctx context.Context, eqpID, startDate, endDate string) ([]*types.EqpProcPerf, error) {
	if eqpID == "" {
		return []*types.EqpProcPerf{}, nil
	}
	start, end := query.SafeRange(startDate, endDate, s.loc, s.now())
	return s.perfRepo.ProcessHistory(ctx, nil, eqpID, start, end)
}

func (s *performanceService) AgentTrend(ctx context.Context, eqpID, startDate, endDate string) ([]*types.EqpProcPerf, error) {
	start, end := query.SafeRange(startDate, endDate, s.loc, s.now())
	return s.perfRepo.AgentTrend(ctx, nil, eqpID, start, end)
}

package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/query"
	"github.com/itm-platform/itm-data-api/internal/repos"
	"github.com/itm-platform/itm-data-api/internal/types"
)

// ErrorSummary condenses the plg_error window for the dashboard header
// cards: total count, the most frequent error id, and how many distinct
// tools reported anything.
type ErrorSummary struct {
	Total       int64                   `json:"total"`
	TopError    *repos.ErrorCount       `json:"topError"`
	AffectedEqp int64                   `json:"affectedEqp"`
	DailyTrend  []repos.DailyErrorCount `json:"dailyTrend"`
}

type ErrorPage struct {
	Items []*types.PlgError `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type ErrorLogService interface {
	Summary(ctx context.Context, site, sdwt, startDate, endDate string) (*ErrorSummary, error)
	List(ctx context.Context, site, sdwt, startDate, endDate string, page, limit int) (*ErrorPage, error)
}

type errorLogService struct {
	log  *logger.Logger
	repo repos.ErrorLogRepo
	loc  *time.Location
	now  func() time.Time
}

func NewErrorLogService(repo repos.ErrorLogRepo, loc *time.Location, baseLog *logger.Logger) ErrorLogService {
	return &errorLogService{
		log:  baseLog.With("service", "ErrorLogService"),
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

func (s *errorLogService) filter(site, sdwt, startDate, endDate string) repos.ErrorLogFilter {
	start, end := query.SafeRange(startDate, endDate, s.loc, s.now())
	return repos.ErrorLogFilter{Site: site, Sdwt: sdwt, Start: start, End: end}
}

func (s *errorLogService) Summary(ctx context.Context, site, sdwt, startDate, endDate string) (*ErrorSummary, error) {
	f := s.filter(site, sdwt, startDate, endDate)
	summary := &ErrorSummary{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.repo.Count(gctx, nil, f)
		summary.Total = total
		return err
	})
	g.Go(func() error {
		top, err := s.repo.TopError(gctx, nil, f)
		summary.TopError = top
		return err
	})
	g.Go(func() error {
		n, err := s.repo.DistinctEqpCount(gctx, nil, f)
		summary.AffectedEqp = n
		return err
	})
	g.Go(func() error {
		trend, err := s.repo.DailyTrend(gctx, nil, f)
		summary.DailyTrend = trend
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if summary.DailyTrend == nil {
		summary.DailyTrend = []repos.DailyErrorCount{}
	}
	return summary, nil
}

func (s *errorLogService) List(ctx context.Context, site, sdwt, startDate, endDate string, page, limit int) (*ErrorPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 500 {
		limit = 500
	}
	f := s.filter(site, sdwt, startDate, endDate)
	items, total, err := s.repo.List(ctx, nil, f, page, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*types.PlgError{}
	}
	return &ErrorPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

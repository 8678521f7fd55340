package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/query"
	"github.com/itm-platform/itm-data-api/internal/repos"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type AlertService interface {
	List(ctx context.Context, since, eqpID string) ([]*types.Alert, error)
	Ack(ctx context.Context, id string) error
}

type alertService struct {
	log  *logger.Logger
	repo repos.AlertRepo
	loc  *time.Location
	now  func() time.Time
}

func NewAlertService(repo repos.AlertRepo, loc *time.Location, baseLog *logger.Logger) AlertService {
	return &alertService{
		log:  baseLog.With("service", "AlertService"),
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

func (s *alertService) List(ctx context.Context, since, eqpID string) ([]*types.Alert, error) {
	ts, ok := query.ParseTime(since, s.loc)
	if !ok {
		ts = s.now().AddDate(0, 0, -1)
	}
	alerts, err := s.repo.ListSince(ctx, nil, ts, eqpID)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []*types.Alert{}
	}
	return alerts, nil
}

func (s *alertService) Ack(ctx context.Context, id string) error {
	alertID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid alert id")
	}
	return s.repo.Ack(ctx, nil, alertID)
}

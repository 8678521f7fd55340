package services

import (
	"context"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/repos"
	"github.com/itm-platform/itm-data-api/internal/types"
)

// LampLifeStatus is one tool's lamp wear row plus the derived remaining
// percentage the maintenance page sorts on.
type LampLifeStatus struct {
	types.EqpLampLife
	RemainPercent float64 `json:"remainPercent"`
}

type LampLifeService interface {
	List(ctx context.Context, site, sdwt string) ([]LampLifeStatus, error)
}

type lampLifeService struct {
	log  *logger.Logger
	repo repos.LampLifeRepo
}

func NewLampLifeService(repo repos.LampLifeRepo, baseLog *logger.Logger) LampLifeService {
	return &lampLifeService{
		log:  baseLog.With("service", "LampLifeService"),
		repo: repo,
	}
}

func (s *lampLifeService) List(ctx context.Context, site, sdwt string) ([]LampLifeStatus, error) {
	rows, err := s.repo.ListByFilter(ctx, nil, site, sdwt)
	if err != nil {
		return nil, err
	}
	out := make([]LampLifeStatus, 0, len(rows))
	for _, row := range rows {
		status := LampLifeStatus{EqpLampLife: *row}
		if row.MaxHours > 0 {
			remain := (row.MaxHours - row.UsedHours) / row.MaxHours * 100
			if remain < 0 {
				remain = 0
			}
			status.RemainPercent = remain
		}
		out = append(out, status)
	}
	return out, nil
}

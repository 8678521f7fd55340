package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/repos"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type EquipmentService interface {
	List(ctx context.Context) ([]*types.RefEquipment, error)
	Details(ctx context.Context, site, sdwt, eqpID string) ([]*types.RefEquipment, error)
	Get(ctx context.Context, eqpID string) (*types.RefEquipment, error)
	Create(ctx context.Context, eqp *types.RefEquipment) error
	Update(ctx context.Context, eqp *types.RefEquipment) error
	Delete(ctx context.Context, eqpID string) error
}

type equipmentService struct {
	log  *logger.Logger
	repo repos.EquipmentRepo
}

func NewEquipmentService(repo repos.EquipmentRepo, baseLog *logger.Logger) EquipmentService {
	return &equipmentService{
		log:  baseLog.With("service", "EquipmentService"),
		repo: repo,
	}
}

func (s *equipmentService) List(ctx context.Context) ([]*types.RefEquipment, error) {
	return s.repo.List(ctx, nil)
}

func (s *equipmentService) Details(ctx context.Context, site, sdwt, eqpID string) ([]*types.RefEquipment, error) {
	return s.repo.Details(ctx, nil, repos.EquipmentFilter{Site: site, Sdwt: sdwt, EqpID: eqpID})
}

func (s *equipmentService) Get(ctx context.Context, eqpID string) (*types.RefEquipment, error) {
	eqp, err := s.repo.Get(ctx, nil, eqpID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return eqp, err
}

func (s *equipmentService) Create(ctx context.Context, eqp *types.RefEquipment) error {
	if eqp.EqpID == "" {
		return fmt.Errorf("eqpid is required")
	}
	return s.repo.Create(ctx, nil, eqp)
}

func (s *equipmentService) Update(ctx context.Context, eqp *types.RefEquipment) error {
	if eqp.EqpID == "" {
		return fmt.Errorf("eqpid is required")
	}
	return s.repo.Update(ctx, nil, eqp)
}

func (s *equipmentService) Delete(ctx context.Context, eqpID string) error {
	if eqpID == "" {
		return fmt.Errorf("eqpid is required")
	}
	return s.repo.Delete(ctx, nil, eqpID)
}

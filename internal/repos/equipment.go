package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type EquipmentFilter struct {
	Site  string
	Sdwt  string
	EqpID string
}

type EquipmentRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.RefEquipment, error)
	Details(ctx context.Context, tx *gorm.DB, f EquipmentFilter) ([]*types.RefEquipment, error)
	IDs(ctx context.Context, tx *gorm.DB, f EquipmentFilter) ([]string, error)
	Get(ctx context.Context, tx *gorm.DB, eqpID string) (*types.RefEquipment, error)
	Create(ctx context.Context, tx *gorm.DB, eqp *types.RefEquipment) error
	Update(ctx context.Context, tx *gorm.DB, eqp *types.RefEquipment) error
	Delete(ctx context.Context, tx *gorm.DB, eqpID string) error
}

type equipmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEquipmentRepo(db *gorm.DB, baseLog *logger.Logger) EquipmentRepo {
	return &equipmentRepo{db: db, log: baseLog.With("repo", "EquipmentRepo")}
}

func (r *equipmentRepo) scoped(tx *gorm.DB, ctx context.Context, f EquipmentFilter) *gorm.DB {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.RefEquipment{})
	if f.Sdwt != "" {
		q = q.Where("sdwt = ?", f.Sdwt)
	}
	if f.Site != "" {
		q = q.Where("sdwt IN (?)",
			transaction.Model(&types.RefSdwt{}).Select("sdwt").Where("site = ? AND is_use = ?", f.Site, "Y"))
	}
	if f.EqpID != "" {
		q = q.Where("eqpid = ?", f.EqpID)
	}
	return q
}

func (r *equipmentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.RefEquipment, error) {
	var results []*types.RefEquipment
	if err := r.scoped(tx, ctx, EquipmentFilter{}).
		Order("eqpid ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *equipmentRepo) Details(ctx context.Context, tx *gorm.DB, f EquipmentFilter) ([]*types.RefEquipment, error) {
	var results []*types.RefEquipment
	if err := r.scoped(tx, ctx, f).
		Preload("AgentInfo").
		Preload("AgentStatus").
		Order("eqpid ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *equipmentRepo) IDs(ctx context.Context, tx *gorm.DB, f EquipmentFilter) ([]string, error) {
	var ids []string
	if err := r.scoped(tx, ctx, f).
		Order("eqpid ASC").
		Pluck("eqpid", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *equipmentRepo) Get(ctx context.Context, tx *gorm.DB, eqpID string) (*types.RefEquipment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var eqp types.RefEquipment
	err := transaction.WithContext(ctx).
		Preload("SdwtRel").
		Where("eqpid = ?", eqpID).
		First(&eqp).Error
	if err != nil {
		return nil, err
	}
	return &eqp, nil
}

func (r *equipmentRepo) Create(ctx context.Context, tx *gorm.DB, eqp *types.RefEquipment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	eqp.LastUpdate = time.Now()
	return transaction.WithContext(ctx).Create(eqp).Error
}

func (r *equipmentRepo) Update(ctx context.Context, tx *gorm.DB, eqp *types.RefEquipment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	eqp.LastUpdate = time.Now()
	return transaction.WithContext(ctx).
		Model(&types.RefEquipment{}).
		Where("eqpid = ?", eqp.EqpID).
		Updates(eqp).Error
}

func (r *equipmentRepo) Delete(ctx context.Context, tx *gorm.DB, eqpID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("eqpid = ?", eqpID).
		Delete(&types.RefEquipment{}).Error
}

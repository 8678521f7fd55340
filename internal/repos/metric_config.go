package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type MetricConfigRepo interface {
	ListIncludedNames(ctx context.Context, tx *gorm.DB) ([]string, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MetricConfig, error)
	Upsert(ctx context.Context, tx *gorm.DB, cfg *types.MetricConfig) error
	Delete(ctx context.Context, tx *gorm.DB, metricName string) error
}

type metricConfigRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMetricConfigRepo(db *gorm.DB, baseLog *logger.Logger) MetricConfigRepo {
	return &metricConfigRepo{db: db, log: baseLog.With("repo", "MetricConfigRepo")}
}

func (r *metricConfigRepo) ListIncludedNames(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var names []string
	if err := transaction.WithContext(ctx).
		Model(&types.MetricConfig{}).
		Where("is_excluded = ?", "N").
		Order("metric_name").
		Pluck("metric_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *metricConfigRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MetricConfig, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MetricConfig
	if err := transaction.WithContext(ctx).
		Order("metric_name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *metricConfigRepo) Upsert(ctx context.Context, tx *gorm.DB, cfg *types.MetricConfig) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(cfg).Error
}

func (r *metricConfigRepo) Delete(ctx context.Context, tx *gorm.DB, metricName string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("metric_name = ?", metricName).
		Delete(&types.MetricConfig{}).Error
}

package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type ErrorLogFilter struct {
	Site  string
	Sdwt  string
	Start time.Time
	End   time.Time
}

type ErrorCount struct {
	ErrorID string `gorm:"column:error_id" json:"errorId"`
	Count   int64  `gorm:"column:count" json:"count"`
}

type DailyErrorCount struct {
	Date  time.Time `gorm:"column:date" json:"date"`
	Count int64     `gorm:"column:count" json:"count"`
}

type ErrorLogRepo interface {
	Count(ctx context.Context, tx *gorm.DB, f ErrorLogFilter) (int64, error)
	TopError(ctx context.Context, tx *gorm.DB, f ErrorLogFilter) (*ErrorCount, error)
	DistinctEqpCount(ctx context.Context, tx *gorm.DB, f ErrorLogFilter) (int64, error)
	DailyTrend(ctx context.Context, tx *gorm.DB, f ErrorLogFilter) ([]DailyErrorCount, error)
	List(ctx context.Context, tx *gorm.DB, f ErrorLogFilter, page, limit int) ([]*types.PlgError, int64, error)
}

type errorLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewErrorLogRepo(db *gorm.DB, baseLog *logger.Logger) ErrorLogRepo {
	return &errorLogRepo{db: db, log: baseLog.With("repo", "ErrorLogRepo")}
}

func (r *errorLogRepo) scoped(tx *gorm.DB, ctx context.Context, f ErrorLogFilter) *gorm.DB {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.PlgError{}).
		Where("plg_error.time_stamp >= ? AND plg_error.time_stamp <= ?", f.Start, f.End)
	if f.Site != "" || f.Sdwt != "" {
		q = q.Joins("JOIN ref_equipment ON ref_equipment.eqpid = plg_error.eqpid").
			Joins("JOIN ref_sdwt ON ref_sdwt.sdwt = ref_equipment.sdwt").
			Where("ref_sdwt.is_use = ?", "Y")
		if f.Sdwt != "" {
			q = q.Where("ref_equipment.sdwt = ?", f.Sdwt)
		}
		if f.Site != "" {
			q = q.Where("ref_sdwt.site = ?", f.Site)
		}
	}
	return q
}

func (r *errorLogRepo) Count(ctx context.Context, tx *gorm.DB, f ErrorLogFilter) (int64, error) {
	var count int64
	if err := r.scoped(tx, ctx, f).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *errorLogRepo) TopError(ctx context.Context, tx *gorm.DB, f ErrorLogFilter) (*ErrorCount, error) {
	var top ErrorCount
	err := r.scoped(tx, ctx, f).
		Select("plg_error.error_id, COUNT(*) AS count").
		Group("plg_error.error_id").
		Order("count DESC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		return nil, err
	}
	if top.ErrorID == "" && top.Count == 0 {
		return nil, nil
	}
	return &top, nil
}

func (r *errorLogRepo) DistinctEqpCount(ctx context.Context, tx *gorm.DB, f ErrorLogFilter) (int64, error) {
	var count int64
	if err := r.scoped(tx, ctx, f).
		Distinct("plg_error.eqpid").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *errorLogRepo) DailyTrend(ctx context.Context, tx *gorm.DB, f ErrorLogFilter) ([]DailyErrorCount, error) {
	var trend []DailyErrorCount
	err := r.scoped(tx, ctx, f).
		Select("DATE(plg_error.time_stamp) AS date, COUNT(*) AS count").
		Group("DATE(plg_error.time_stamp)").
		Order("date ASC").
		Scan(&trend).Error
	if err != nil {
		return nil, err
	}
	return trend, nil
}

func (r *errorLogRepo) List(ctx context.Context, tx *gorm.DB, f ErrorLogFilter, page, limit int) ([]*types.PlgError, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	total, err := r.Count(ctx, tx, f)
	if err != nil {
		return nil, 0, err
	}
	var items []*types.PlgError
	err = r.scoped(tx, ctx, f).
		Preload("Equipment.SdwtRel").
		Order("plg_error.time_stamp DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type SdwtRepo interface {
	Sites(ctx context.Context, tx *gorm.DB) ([]string, error)
	Sdwts(ctx context.Context, tx *gorm.DB, site string) ([]string, error)
}

type sdwtRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSdwtRepo(db *gorm.DB, baseLog *logger.Logger) SdwtRepo {
	return &sdwtRepo{db: db, log: baseLog.With("repo", "SdwtRepo")}
}

func (r *sdwtRepo) Sites(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sites []string
	if err := transaction.WithContext(ctx).
		Model(&types.RefSdwt{}).
		Distinct("site").
		Where("site IS NOT NULL AND site <> '' AND is_use = ?", "Y").
		Order("site ASC").
		Pluck("site", &sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *sdwtRepo) Sdwts(ctx context.Context, tx *gorm.DB, site string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.RefSdwt{}).
		Distinct("sdwt").
		Where("sdwt IS NOT NULL AND sdwt <> '' AND is_use = ?", "Y")
	if site != "" {
		q = q.Where("site = ?", site)
	}
	var sdwts []string
	if err := q.Order("sdwt ASC").Pluck("sdwt", &sdwts).Error; err != nil {
		return nil, err
	}
	return sdwts, nil
}

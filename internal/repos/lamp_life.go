package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type LampLifeRepo interface {
	ListByFilter(ctx context.Context, tx *gorm.DB, site, sdwt string) ([]*types.EqpLampLife, error)
}

type lampLifeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLampLifeRepo(db *gorm.DB, baseLog *logger.Logger) LampLifeRepo {
	return &lampLifeRepo{db: db, log: baseLog.With("repo", "LampLifeRepo")}
}

func (r *lampLifeRepo) ListByFilter(ctx context.Context, tx *gorm.DB, site, sdwt string) ([]*types.EqpLampLife, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.EqpLampLife{})
	if site != "" || sdwt != "" {
		q = q.Joins("JOIN ref_equipment ON ref_equipment.eqpid = eqp_lamp_life.eqpid")
		if sdwt != "" {
			q = q.Where("ref_equipment.sdwt = ?", sdwt)
		}
		if site != "" {
			q = q.Joins("JOIN ref_sdwt ON ref_sdwt.sdwt = ref_equipment.sdwt").
				Where("ref_sdwt.site = ?", site)
		}
	}
	var results []*types.EqpLampLife
	if err := q.Order("eqp_lamp_life.eqpid ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type WaferMapRepo interface {
	// GetByEqpAndTime returns every artifact row recorded for the exact
	// capture timestamp, newest first. Multiple rows can legitimately
	// share a timestamp; the service layer disambiguates by filename.
	GetByEqpAndTime(ctx context.Context, tx *gorm.DB, eqpID string, ts time.Time) ([]*types.WaferMapArtifact, error)
}

type waferMapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWaferMapRepo(db *gorm.DB, baseLog *logger.Logger) WaferMapRepo {
	return &waferMapRepo{db: db, log: baseLog.With("repo", "WaferMapRepo")}
}

func (r *waferMapRepo) GetByEqpAndTime(ctx context.Context, tx *gorm.DB, eqpID string, ts time.Time) ([]*types.WaferMapArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.WaferMapArtifact
	if err := transaction.WithContext(ctx).
		Where("eqpid = ? AND datetime = ?", eqpID, ts).
		Order("datetime DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

type AlertRepo interface {
	ListSince(ctx context.Context, tx *gorm.DB, since time.Time, eqpID string) ([]*types.Alert, error)
	Ack(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	return &alertRepo{db: db, log: baseLog.With("repo", "AlertRepo")}
}

func (r *alertRepo) ListSince(ctx context.Context, tx *gorm.DB, since time.Time, eqpID string) ([]*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("created_at >= ?", since)
	if eqpID != "" {
		q = q.Where("eqpid = ?", eqpID)
	}
	var results []*types.Alert
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *alertRepo) Ack(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Alert{}).
		Where("id = ?", id).
		Update("acked", true).Error
}

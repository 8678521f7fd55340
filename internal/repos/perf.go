package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/types"
)

// Agent-side process name recorded in eqp_proc_perf for the ITM agent
// itself, as opposed to the measurement processes it supervises.
const ITMAgentProcessName = "ITM_Agent"

type PerfRepo interface {
	SystemHistory(ctx context.Context, tx *gorm.DB, eqpIDs []string, start, end time.Time) ([]*types.EqpPerf, error)
	ProcessHistory(ctx context.Context, tx *gorm.DB, eqpID string, start, end time.Time) ([]*types.EqpProcPerf, error)
	AgentTrend(ctx context.Context, tx *gorm.DB, eqpID string, start, end time.Time) ([]*types.EqpProcPerf, error)
	LatestByEqp(ctx context.Context, tx *gorm.DB, eqpID string) (*types.EqpPerf, error)
}

type perfRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPerfRepo(db *gorm.DB, baseLog *logger.Logger) PerfRepo {
	return &perfRepo{db: db, log: baseLog.With("repo", "PerfRepo")}
}

func (r *perfRepo) SystemHistory(ctx context.Context, tx *gorm.DB, eqpIDs []string, start, end time.Time) ([]*types.EqpPerf, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.EqpPerf
	if len(eqpIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("eqpid IN ? AND serv_ts >= ? AND serv_ts <= ?", eqpIDs, start, end).
		Order("serv_ts ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *perfRepo) ProcessHistory(ctx context.Context, tx *gorm.DB, eqpID string, start, end time.Time) ([]*types.EqpProcPerf, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.EqpProcPerf
	if eqpID == "" {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("eqpid = ? AND serv_ts >= ? AND serv_ts <= ?", eqpID, start, end).
		Order("serv_ts ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *perfRepo) AgentTrend(ctx context.Context, tx *gorm.DB, eqpID string, start, end time.Time) ([]*types.EqpProcPerf, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Where("process_name = ? AND serv_ts >= ? AND serv_ts <= ?", ITMAgentProcessName, start, end)
	if eqpID != "" {
		q = q.Where("eqpid = ?", eqpID)
	}
	var results []*types.EqpProcPerf
	if err := q.Order("serv_ts ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *perfRepo) LatestByEqp(ctx context.Context, tx *gorm.DB, eqpID string) (*types.EqpPerf, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var perf types.EqpPerf
	err := transaction.WithContext(ctx).
		Where("eqpid = ?", eqpID).
		Order("serv_ts DESC").
		Limit(1).
		Find(&perf).Error
	if err != nil {
		return nil, err
	}
	if perf.EqpID == "" {
		return nil, nil
	}
	return &perf, nil
}

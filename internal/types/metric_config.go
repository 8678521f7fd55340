package types

import "time"

// MetricConfig is the admin-maintained allow-list of metric columns used
// by statistics and trend queries. Names must still be intersected with
// the live plg_wf_flat schema before use.
type MetricConfig struct {
	MetricName string    `gorm:"column:metric_name;primaryKey" json:"metricName"`
	IsExcluded string    `gorm:"column:is_excluded;not null;default:'N'" json:"isExcluded"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (MetricConfig) TableName() string { return "cfg_lot_uniformity_metrics" }

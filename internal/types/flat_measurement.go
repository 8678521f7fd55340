package types

import "time"

// FlatMeasurement is one row of plg_wf_flat: per-point scalar metrics for
// a single wafer scan. The metric column set is open-ended; only the
// identity columns and the baseline metrics are modeled here, everything
// else is reached through raw queries gated by the metric config.
// Written by the ingestion side; read-only here.
type FlatMeasurement struct {
	EqpID       string    `gorm:"column:eqpid" json:"eqpId"`
	LotID       string    `gorm:"column:lotid" json:"lotId"`
	WaferID     int       `gorm:"column:waferid" json:"waferId"`
	Point       int       `gorm:"column:point" json:"point"`
	CassetteRcp string    `gorm:"column:cassettercp" json:"cassetteRcp"`
	StageRcp    string    `gorm:"column:stagercp" json:"stageRcp"`
	StageGroup  string    `gorm:"column:stagegroup" json:"stageGroup"`
	Film        string    `gorm:"column:film" json:"film"`
	ServTs      time.Time `gorm:"column:serv_ts" json:"servTs"`
	DateTime    time.Time `gorm:"column:datetime" json:"dateTime"`
	X           *float64  `gorm:"column:x" json:"x,omitempty"`
	Y           *float64  `gorm:"column:y" json:"y,omitempty"`
	DieRow      *int      `gorm:"column:dierow" json:"dieRow,omitempty"`
	DieCol      *int      `gorm:"column:diecol" json:"dieCol,omitempty"`
	T1          *float64  `gorm:"column:t1" json:"t1,omitempty"`
	GOF         *float64  `gorm:"column:gof" json:"gof,omitempty"`
	MSE         *float64  `gorm:"column:mse" json:"mse,omitempty"`
}

func (FlatMeasurement) TableName() string { return "plg_wf_flat" }

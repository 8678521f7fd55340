package types

import "time"

// EqpPerf rows arrive from the agents; serv_ts is server receive time and
// ts is the device clock, so the pair also measures clock drift.
type EqpPerf struct {
	EqpID    string    `gorm:"column:eqpid" json:"eqpId"`
	ServTs   time.Time `gorm:"column:serv_ts" json:"servTs"`
	Ts       time.Time `gorm:"column:ts" json:"ts"`
	CPUUsage float64   `gorm:"column:cpu_usage" json:"cpuUsage"`
	MemUsage float64   `gorm:"column:mem_usage" json:"memUsage"`
}

func (EqpPerf) TableName() string { return "eqp_perf" }

type EqpProcPerf struct {
	EqpID       string    `gorm:"column:eqpid" json:"eqpId"`
	ProcessName string    `gorm:"column:process_name" json:"processName"`
	ServTs      time.Time `gorm:"column:serv_ts" json:"servTs"`
	Ts          time.Time `gorm:"column:ts" json:"ts"`
	CPUUsage    float64   `gorm:"column:cpu_usage" json:"cpuUsage"`
	MemUsage    float64   `gorm:"column:mem_usage" json:"memUsage"`
}

func (EqpProcPerf) TableName() string { return "eqp_proc_perf" }

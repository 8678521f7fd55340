package types

import "time"

type AgentInfo struct {
	EqpID      string `gorm:"column:eqpid;primaryKey" json:"eqpId"`
	PcName     string `gorm:"column:pc_name" json:"pcName"`
	AppVer     string `gorm:"column:app_ver" json:"appVer"`
	Type       string `gorm:"column:type" json:"type"`
	IPAddress  string `gorm:"column:ip_address" json:"ipAddress"`
	OS         string `gorm:"column:os" json:"os"`
	SystemType string `gorm:"column:system_type" json:"systemType"`
	Locale     string `gorm:"column:locale" json:"locale"`
	Timezone   string `gorm:"column:timezone" json:"timezone"`
}

func (AgentInfo) TableName() string { return "agent_info" }

type AgentStatus struct {
	EqpID          string     `gorm:"column:eqpid;primaryKey" json:"eqpId"`
	Status         string     `gorm:"column:status" json:"status"`
	LastPerfUpdate *time.Time `gorm:"column:last_perf_update" json:"lastPerfUpdate"`
}

func (AgentStatus) TableName() string { return "agent_status" }

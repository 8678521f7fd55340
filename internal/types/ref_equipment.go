package types

import "time"

type RefEquipment struct {
	EqpID       string       `gorm:"column:eqpid;primaryKey" json:"eqpId"`
	Sdwt        string       `gorm:"column:sdwt;index" json:"sdwt"`
	EqpType     string       `gorm:"column:eqp_type" json:"eqpType"`
	LastUpdate  time.Time    `gorm:"column:last_update" json:"lastUpdate"`
	SdwtRel     *RefSdwt     `gorm:"foreignKey:Sdwt;references:Sdwt" json:"sdwtRel,omitempty"`
	AgentInfo   *AgentInfo   `gorm:"foreignKey:EqpID;references:EqpID" json:"agentInfo,omitempty"`
	AgentStatus *AgentStatus `gorm:"foreignKey:EqpID;references:EqpID" json:"agentStatus,omitempty"`
}

func (RefEquipment) TableName() string { return "ref_equipment" }

package types

import "time"

type EqpLampLife struct {
	EqpID       string        `gorm:"column:eqpid;primaryKey" json:"eqpId"`
	UsedHours   float64       `gorm:"column:used_hours" json:"usedHours"`
	MaxHours    float64       `gorm:"column:max_hours" json:"maxHours"`
	LastReplace *time.Time    `gorm:"column:last_replace" json:"lastReplace"`
	ServTs      time.Time     `gorm:"column:serv_ts" json:"servTs"`
	Equipment   *RefEquipment `gorm:"foreignKey:EqpID;references:EqpID" json:"equipment,omitempty"`
}

func (EqpLampLife) TableName() string { return "eqp_lamp_life" }

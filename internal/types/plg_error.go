package types

import "time"

type PlgError struct {
	ID        int64         `gorm:"column:id;primaryKey" json:"id"`
	EqpID     string        `gorm:"column:eqpid;index" json:"eqpId"`
	ErrorID   string        `gorm:"column:error_id" json:"errorId"`
	TimeStamp time.Time     `gorm:"column:time_stamp;index" json:"timeStamp"`
	Message   string        `gorm:"column:message" json:"message"`
	Equipment *RefEquipment `gorm:"foreignKey:EqpID;references:EqpID" json:"equipment,omitempty"`
}

func (PlgError) TableName() string { return "plg_error" }

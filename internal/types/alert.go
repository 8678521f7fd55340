package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Alert struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EqpID     string         `gorm:"column:eqpid;index" json:"eqpId"`
	Level     string         `gorm:"column:level;not null;default:'info'" json:"level"`
	Title     string         `gorm:"column:title" json:"title"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	Acked     bool           `gorm:"column:acked;not null;default:false" json:"acked"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (Alert) TableName() string { return "alert" }

package types

type RefSdwt struct {
	Sdwt  string `gorm:"column:sdwt;primaryKey" json:"sdwt"`
	Site  string `gorm:"column:site;index" json:"site"`
	IsUse string `gorm:"column:is_use;not null;default:'Y'" json:"isUse"`
}

func (RefSdwt) TableName() string { return "ref_sdwt" }

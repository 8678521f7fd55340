package types

import "time"

// SpectralRecord is one row of plg_onto_spectrum (or one of its monthly
// partitions): a measured ("EXP") or model-fitted ("GEN") spectrum for a
// single point scan. waferid is stored as text here but as integer in
// plg_wf_flat; joins must coerce. Read-only.
type SpectralRecord struct {
	EqpID       string     `gorm:"column:eqpid" json:"eqpId"`
	LotID       string     `gorm:"column:lotid" json:"lotId"`
	WaferID     string     `gorm:"column:waferid" json:"waferId"`
	Point       int        `gorm:"column:point" json:"point"`
	Ts          time.Time  `gorm:"column:ts" json:"ts"`
	Class       string     `gorm:"column:class" json:"class"`
	Wavelengths FloatArray `gorm:"column:wavelengths" json:"wavelengths"`
	Values      FloatArray `gorm:"column:values" json:"values"`
}

func (SpectralRecord) TableName() string { return "plg_onto_spectrum" }

const (
	SpectrumClassExperimental = "EXP"
	SpectrumClassGenerated    = "GEN"
)

package types

import "time"

// WaferMapArtifact is one row of plg_wf_map: a URI to a generated PDF
// wafer map for an (equipment, capture time). Several rows can share a
// timestamp; callers disambiguate by filename. Read-only.
type WaferMapArtifact struct {
	EqpID    string    `gorm:"column:eqpid" json:"eqpId"`
	DateTime time.Time `gorm:"column:datetime" json:"dateTime"`
	FileURI  string    `gorm:"column:file_uri" json:"fileUri"`
}

func (WaferMapArtifact) TableName() string { return "plg_wf_map" }

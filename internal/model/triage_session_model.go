package model

import (
	"time"

	"github.com/google/uuid"
)

// TriageSession keeps one nullable column per answer field so partial
// sessions can be inspected with plain SQL.
type TriageSession struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubjectId   uuid.UUID `gorm:"type:uuid;not null;index:idx_triage_subject_created,priority:1"`
	Age         *float64  `gorm:"column:age"`
	V1Accident  *int      `gorm:"column:v1_accident"`
	V2Walking   *int      `gorm:"column:v2_walking"`
	V3Lateral   *int      `gorm:"column:v3_lateral"`
	V3Medial    *int      `gorm:"column:v3_medial"`
	V4Midfoot   *int      `gorm:"column:v4_midfoot"`
	V4Navicular *int      `gorm:"column:v4_navicular"`
	V5Swelling  *int      `gorm:"column:v5_swelling"`
	V6Stability *int      `gorm:"column:v6_stability"`
	Flag        *string   `gorm:"type:varchar(20);index"`
	SoapS       *string   `gorm:"column:soap_s;type:text"`
	SoapO       *string   `gorm:"column:soap_o;type:text"`
	SoapA       *string   `gorm:"column:soap_a;type:text"`
	SoapP       *string   `gorm:"column:soap_p;type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_triage_subject_created,priority:2"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (TriageSession) TableName() string {
	return "triage_sessions"
}

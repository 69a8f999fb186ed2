package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =======================================================
   StudentSubjectStandingModel — hasil akhir pipeline
   analitik per (siswa, mata pelajaran, semester).
   Map ke tabel student_subject_standings.

   Unique: (student_id, subject, semester) — pipeline
   meng-upsert, tidak pernah menumpuk baris.
   ======================================================= */

// Nilai tahap yang dikenal. Nilai di luar daftar tetap disimpan apa
// adanya (layanan model yang memilikinya), hanya dicatat di log.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
	TrendNoData    = "no_data"

	ConsistencyRegular  = "regular"
	ConsistencyModerate = "moderately_irregular"
	ConsistencyHigh     = "highly_irregular"
	ConsistencyNoData   = "no_data"

	AttentivenessActive   = "actively_attentive"
	AttentivenessModerate = "moderately_attentive"
	AttentivenessPassive  = "passively_attentive"

	RiskHigh     = "high"
	RiskModerate = "moderate"
	RiskLow      = "low"
)

func KnownTrend(v string) bool {
	switch v {
	case TrendImproving, TrendStable, TrendDeclining, TrendNoData:
		return true
	}
	return false
}

func KnownConsistency(v string) bool {
	switch v {
	case ConsistencyRegular, ConsistencyModerate, ConsistencyHigh, ConsistencyNoData:
		return true
	}
	return false
}

func KnownAttentiveness(v string) bool {
	switch v {
	case AttentivenessActive, AttentivenessModerate, AttentivenessPassive:
		return true
	}
	return false
}

func KnownRisk(v string) bool {
	switch v {
	case RiskHigh, RiskModerate, RiskLow:
		return true
	}
	return false
}

type StudentSubjectStandingModel struct {
	StandingID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_subject_standings_id" json:"student_subject_standings_id"`

	StandingStudentID uuid.UUID `gorm:"type:uuid;not null;index;column:student_subject_standings_student_id" json:"student_subject_standings_student_id"`
	StandingSemester  int       `gorm:"type:int;not null;column:student_subject_standings_semester" json:"student_subject_standings_semester"`
	StandingSubject   string    `gorm:"type:text;not null;column:student_subject_standings_subject" json:"student_subject_standings_subject"`

	StandingTrend         string `gorm:"type:text;not null;column:student_subject_standings_trend" json:"student_subject_standings_trend"`
	StandingConsistency   string `gorm:"type:text;not null;column:student_subject_standings_consistency" json:"student_subject_standings_consistency"`
	StandingAttentiveness string `gorm:"type:text;not null;column:student_subject_standings_attentiveness" json:"student_subject_standings_attentiveness"`
	StandingRisk          string `gorm:"type:text;not null;column:student_subject_standings_risk" json:"student_subject_standings_risk"`

	// Metrik mentah yang menyertai hasil (attendance rate, panjang seri, dll)
	StandingMetrics datatypes.JSON `gorm:"type:jsonb;column:student_subject_standings_metrics" json:"student_subject_standings_metrics,omitempty"`

	StandingComputedAt time.Time `gorm:"not null;column:student_subject_standings_computed_at" json:"student_subject_standings_computed_at"`
	StandingCreatedAt  time.Time `gorm:"column:student_subject_standings_created_at;autoCreateTime" json:"student_subject_standings_created_at"`
	StandingUpdatedAt  time.Time `gorm:"column:student_subject_standings_updated_at;autoUpdateTime" json:"student_subject_standings_updated_at"`
}

func (StudentSubjectStandingModel) TableName() string { return "student_subject_standings" }

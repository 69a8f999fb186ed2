package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =======================================================
   TimetablePeriodModel — jadwal berulang mingguan.
   Map ke tabel timetable_periods.
   ======================================================= */

type TimetablePeriodModel struct {
	TimetablePeriodID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:timetable_periods_id" json:"timetable_periods_id"`

	TimetablePeriodSemester   int    `gorm:"type:int;not null;column:timetable_periods_semester" json:"timetable_periods_semester"`
	TimetablePeriodDepartment string `gorm:"type:text;not null;column:timetable_periods_department" json:"timetable_periods_department"`
	TimetablePeriodSection    string `gorm:"type:text;not null;column:timetable_periods_section" json:"timetable_periods_section"`
	TimetablePeriodSubject    string `gorm:"type:text;not null;column:timetable_periods_subject" json:"timetable_periods_subject"`

	// 0=Minggu .. 6=Sabtu (mengikuti time.Weekday)
	TimetablePeriodDayOfWeek int    `gorm:"type:int;not null;column:timetable_periods_day_of_week" json:"timetable_periods_day_of_week"`
	TimetablePeriodStartTime string `gorm:"type:text;not null;column:timetable_periods_start_time" json:"timetable_periods_start_time"` // "HH:MM"
	TimetablePeriodEndTime   string `gorm:"type:text;not null;column:timetable_periods_end_time" json:"timetable_periods_end_time"`     // "HH:MM"

	TimetablePeriodCreatedAt time.Time      `gorm:"column:timetable_periods_created_at;autoCreateTime" json:"timetable_periods_created_at"`
	TimetablePeriodDeletedAt gorm.DeletedAt `gorm:"column:timetable_periods_deleted_at;index" json:"timetable_periods_deleted_at,omitempty"`
}

func (TimetablePeriodModel) TableName() string { return "timetable_periods" }

/* =======================================================
   TimetableOverrideModel — jadwal khusus per-tanggal.
   Insert-only: sekali dibuat tidak bisa diedit, hanya
   dihapus lalu dibuat ulang. Map ke tabel timetable_overrides.

   Unique index (dibuat via migration SQL, parsial agar baris
   soft-delete tidak memblokir pembuatan ulang):
   CREATE UNIQUE INDEX idx_timetable_overrides_slot
     ON timetable_overrides (timetable_overrides_date,
         timetable_overrides_semester, timetable_overrides_department,
         timetable_overrides_section, timetable_overrides_start_time)
     WHERE timetable_overrides_deleted_at IS NULL;
   ======================================================= */

type TimetableOverrideModel struct {
	TimetableOverrideID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:timetable_overrides_id" json:"timetable_overrides_id"`

	TimetableOverrideSemester   int    `gorm:"type:int;not null;column:timetable_overrides_semester" json:"timetable_overrides_semester"`
	TimetableOverrideDepartment string `gorm:"type:text;not null;column:timetable_overrides_department" json:"timetable_overrides_department"`
	TimetableOverrideSection    string `gorm:"type:text;not null;column:timetable_overrides_section" json:"timetable_overrides_section"`
	TimetableOverrideSubject    string `gorm:"type:text;not null;column:timetable_overrides_subject" json:"timetable_overrides_subject"`

	TimetableOverrideDate      time.Time `gorm:"type:date;not null;column:timetable_overrides_date;index" json:"timetable_overrides_date"`
	TimetableOverrideStartTime string    `gorm:"type:text;not null;column:timetable_overrides_start_time" json:"timetable_overrides_start_time"`
	TimetableOverrideEndTime   string    `gorm:"type:text;not null;column:timetable_overrides_end_time" json:"timetable_overrides_end_time"`

	TimetableOverrideCreatedAt time.Time      `gorm:"column:timetable_overrides_created_at;autoCreateTime" json:"timetable_overrides_created_at"`
	TimetableOverrideDeletedAt gorm.DeletedAt `gorm:"column:timetable_overrides_deleted_at;index" json:"timetable_overrides_deleted_at,omitempty"`
}

func (TimetableOverrideModel) TableName() string { return "timetable_overrides" }

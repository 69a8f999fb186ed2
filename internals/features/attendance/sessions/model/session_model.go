package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =======================================================
   AttendanceSessionModel — satu sesi presensi yang sudah
   disubmit. Map ke tabel attendance_sessions.

   Unique index (dibuat via migration SQL). Kolom slot adalah bucket
   menit-mulai (start menit / lebar slot) sehingga dua submit berdekatan
   bentrok di storage, bukan hanya di cek dini aplikasi:
   CREATE UNIQUE INDEX idx_attendance_sessions_slot
     ON attendance_sessions (attendance_sessions_teacher_id,
         attendance_sessions_semester, attendance_sessions_department,
         attendance_sessions_section, attendance_sessions_subject,
         attendance_sessions_date, attendance_sessions_slot)
     WHERE attendance_sessions_deleted_at IS NULL;
   ======================================================= */

type AttendanceSessionModel struct {
	AttendanceSessionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_sessions_id" json:"attendance_sessions_id"`

	AttendanceSessionTeacherID uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_sessions_teacher_id" json:"attendance_sessions_teacher_id"`

	AttendanceSessionSemester   int    `gorm:"type:int;not null;column:attendance_sessions_semester" json:"attendance_sessions_semester"`
	AttendanceSessionDepartment string `gorm:"type:text;not null;column:attendance_sessions_department" json:"attendance_sessions_department"`
	AttendanceSessionSection    string `gorm:"type:text;not null;column:attendance_sessions_section" json:"attendance_sessions_section"`
	AttendanceSessionSubject    string `gorm:"type:text;not null;column:attendance_sessions_subject" json:"attendance_sessions_subject"`

	AttendanceSessionDate          time.Time `gorm:"type:date;not null;index;column:attendance_sessions_date" json:"attendance_sessions_date"`
	AttendanceSessionStartTime     string    `gorm:"type:text;not null;column:attendance_sessions_start_time" json:"attendance_sessions_start_time"` // "HH:MM"
	AttendanceSessionSlot          int       `gorm:"type:int;not null;column:attendance_sessions_slot" json:"attendance_sessions_slot"`              // bucket menit-mulai
	AttendanceSessionPeriodOrdinal int       `gorm:"type:int;not null;column:attendance_sessions_period_ordinal" json:"attendance_sessions_period_ordinal"`

	AttendanceSessionTotalStudents int `gorm:"type:int;not null;column:attendance_sessions_total_students" json:"attendance_sessions_total_students"`
	AttendanceSessionPresentCount  int `gorm:"type:int;not null;column:attendance_sessions_present_count" json:"attendance_sessions_present_count"`
	AttendanceSessionAbsentCount   int `gorm:"type:int;not null;column:attendance_sessions_absent_count" json:"attendance_sessions_absent_count"`

	AttendanceSessionCreatedAt time.Time      `gorm:"column:attendance_sessions_created_at;autoCreateTime" json:"attendance_sessions_created_at"`
	AttendanceSessionDeletedAt gorm.DeletedAt `gorm:"column:attendance_sessions_deleted_at;index" json:"attendance_sessions_deleted_at,omitempty"`

	Records []AttendanceRecordModel `gorm:"foreignKey:AttendanceRecordSessionID;references:AttendanceSessionID" json:"records,omitempty"`
}

func (AttendanceSessionModel) TableName() string { return "attendance_sessions" }

/* =======================================================
   AttendanceRecordModel — satu baris kehadiran per siswa
   per sesi. Map ke tabel attendance_records.
   ======================================================= */

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusExcused = "excused"
	StatusLate    = "late"

	MarkedBySystem = "system"
	MarkedByManual = "manual"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusExcused, StatusLate:
		return true
	}
	return false
}

type AttendanceRecordModel struct {
	AttendanceRecordID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_records_id" json:"attendance_records_id"`

	AttendanceRecordSessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_records_session_student;column:attendance_records_session_id" json:"attendance_records_session_id"`
	AttendanceRecordStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_records_session_student;index;column:attendance_records_student_id" json:"attendance_records_student_id"`
	AttendanceRecordUSN       string    `gorm:"type:text;not null;column:attendance_records_usn" json:"attendance_records_usn"`

	AttendanceRecordStatus   string `gorm:"type:text;not null;column:attendance_records_status" json:"attendance_records_status"`       // present|absent|excused|late
	AttendanceRecordMarkedBy string `gorm:"type:text;not null;column:attendance_records_marked_by" json:"attendance_records_marked_by"` // system|manual

	// Alasan koreksi manual (mis. "sakit", "izin"); kosong untuk record sistem.
	AttendanceRecordReasonType string `gorm:"type:text;column:attendance_records_reason_type" json:"attendance_records_reason_type,omitempty"`

	// Hasil pengenalan wajah; nol/ kosong untuk siswa yang tidak terdeteksi.
	AttendanceRecordConfidence    float64 `gorm:"type:numeric;column:attendance_records_confidence" json:"attendance_records_confidence"`
	AttendanceRecordAttentiveness string  `gorm:"type:text;column:attendance_records_attentiveness" json:"attendance_records_attentiveness"`
	AttendanceRecordEmotion       string  `gorm:"type:text;column:attendance_records_emotion" json:"attendance_records_emotion"`

	AttendanceRecordCreatedAt time.Time `gorm:"column:attendance_records_created_at;autoCreateTime" json:"attendance_records_created_at"`
	AttendanceRecordUpdatedAt time.Time `gorm:"column:attendance_records_updated_at;autoUpdateTime" json:"attendance_records_updated_at"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =======================================================
   Role pemilik interval
   ======================================================= */

type OwnerRole string

const (
	OwnerTeacher OwnerRole = "teacher"
	OwnerStudent OwnerRole = "student"
)

/* =======================================================
   EnrollmentModel — map ke tabel enrollments.
   Satu baris = satu interval penugasan [enrollment_date, completion_date]
   untuk kombinasi (semester, department, section, subject).
   Baris tidak pernah diedit; selesai = isi completion_date.
   ======================================================= */

type EnrollmentModel struct {
	EnrollmentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:enrollments_id" json:"enrollments_id"`

	EnrollmentOwnerID   uuid.UUID `gorm:"type:uuid;not null;column:enrollments_owner_id;index" json:"enrollments_owner_id"`
	EnrollmentOwnerRole OwnerRole `gorm:"type:text;not null;column:enrollments_owner_role" json:"enrollments_owner_role"`

	EnrollmentSemester   int    `gorm:"type:int;not null;column:enrollments_semester" json:"enrollments_semester"`
	EnrollmentDepartment string `gorm:"type:text;not null;column:enrollments_department" json:"enrollments_department"`
	EnrollmentSection    string `gorm:"type:text;not null;column:enrollments_section" json:"enrollments_section"`
	EnrollmentSubject    string `gorm:"type:text;not null;column:enrollments_subject" json:"enrollments_subject"`

	EnrollmentDate           time.Time  `gorm:"type:date;not null;column:enrollments_enrollment_date" json:"enrollments_enrollment_date"`
	EnrollmentCompletionDate *time.Time `gorm:"type:date;column:enrollments_completion_date" json:"enrollments_completion_date,omitempty"`

	EnrollmentCreatedAt time.Time      `gorm:"column:enrollments_created_at;autoCreateTime" json:"enrollments_created_at"`
	EnrollmentUpdatedAt *time.Time     `gorm:"column:enrollments_updated_at;autoUpdateTime" json:"enrollments_updated_at,omitempty"`
	EnrollmentDeletedAt gorm.DeletedAt `gorm:"column:enrollments_deleted_at;index" json:"enrollments_deleted_at,omitempty"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }

// ActiveOn: true bila asOf jatuh di dalam interval (inklusif dua sisi).
func (m EnrollmentModel) ActiveOn(asOf time.Time) bool {
	if asOf.Before(m.EnrollmentDate) {
		return false
	}
	if m.EnrollmentCompletionDate != nil && asOf.After(*m.EnrollmentCompletionDate) {
		return false
	}
	return true
}

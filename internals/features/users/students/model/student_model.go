package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentModel: profil siswa + embedding wajah hasil registrasi.
// Map ke tabel students.
type StudentModel struct {
	StudentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:students_id" json:"students_id"`

	// Nullable: siswa bisa terdaftar sebelum punya akun login.
	StudentUserID *uuid.UUID `gorm:"type:uuid;column:students_user_id" json:"students_user_id,omitempty"`

	StudentUSN  string `gorm:"type:text;not null;unique;column:students_usn" json:"students_usn"`
	StudentName string `gorm:"type:text;not null;column:students_name" json:"students_name"`

	StudentSemester   int    `gorm:"type:int;not null;column:students_semester" json:"students_semester"`
	StudentDepartment string `gorm:"type:text;not null;column:students_department" json:"students_department"`
	StudentSection    string `gorm:"type:text;not null;column:students_section" json:"students_section"`

	// Vektor embedding dari layanan ML; null sebelum registrasi wajah.
	StudentEmbedding datatypes.JSON `gorm:"type:jsonb;column:students_embedding" json:"-"`

	StudentCreatedAt time.Time      `gorm:"column:students_created_at;autoCreateTime" json:"students_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:students_updated_at;autoUpdateTime" json:"students_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:students_deleted_at;index" json:"students_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

// HasEmbedding: true bila siswa sudah melewati registrasi wajah.
func (m *StudentModel) HasEmbedding() bool {
	return len(m.StudentEmbedding) > 0
}

package service

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

type enrolledRow struct {
	ID        uuid.UUID      `gorm:"column:id"`
	USN       string         `gorm:"column:usn"`
	Name      string         `gorm:"column:name"`
	Embedding datatypes.JSON `gorm:"column:embedding"`
}

// ListEnrolledCandidates: siswa aktif pada kombinasi kelas yang sudah
// punya embedding wajah. Tanpa embedding siswa tidak bisa dicocokkan.
func (r *GormRepository) ListEnrolledCandidates(semester int, department, section, subject string) ([]EnrolledStudent, error) {
	var rows []enrolledRow
	err := r.db.Table("students").
		Select(`students.students_id AS id, students.students_usn AS usn,
			students.students_name AS name, students.students_embedding AS embedding`).
		Joins("JOIN enrollments ON enrollments.enrollments_owner_id = students.students_id").
		Where("enrollments.enrollments_owner_role = ?", "student").
		Where("enrollments.enrollments_semester = ?", semester).
		Where("enrollments.enrollments_department = ?", department).
		Where("enrollments.enrollments_section = ?", section).
		Where("enrollments.enrollments_subject = ?", subject).
		Where("enrollments.enrollments_completion_date IS NULL").
		Where("enrollments.enrollments_deleted_at IS NULL").
		Where("students.students_deleted_at IS NULL").
		Where("students.students_embedding IS NOT NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]EnrolledStudent, 0, len(rows))
	for _, row := range rows {
		out = append(out, EnrolledStudent{ID: row.ID, USN: row.USN, Name: row.Name, Embedding: row.Embedding})
	}
	return out, nil
}

package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"presensiku_backend/internals/features/academics/enrollments/model"
)

/* =======================================================
   Implementasi GORM untuk IntervalReader / AssignmentRepository
   ======================================================= */

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) FindTeacherInterval(teacherID uuid.UUID, semester int, department, section, subject string) (*model.EnrollmentModel, error) {
	var m model.EnrollmentModel
	err := r.DB.
		Where("enrollments_owner_id = ? AND enrollments_owner_role = ?", teacherID, model.OwnerTeacher).
		Where("enrollments_semester = ? AND enrollments_department = ? AND enrollments_section = ? AND enrollments_subject = ?",
			semester, department, section, subject).
		Order("enrollments_enrollment_date DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormRepository) ListByCombination(semester int, department, section, subject string) ([]model.EnrollmentModel, error) {
	var out []model.EnrollmentModel
	err := r.DB.
		Where("enrollments_semester = ? AND enrollments_department = ? AND enrollments_section = ? AND enrollments_subject = ?",
			semester, department, section, subject).
		Find(&out).Error
	return out, err
}

func (r *GormRepository) ListByOwner(ownerID uuid.UUID) ([]model.EnrollmentModel, error) {
	var out []model.EnrollmentModel
	err := r.DB.
		Where("enrollments_owner_id = ?", ownerID).
		Order("enrollments_enrollment_date ASC").
		Find(&out).Error
	return out, err
}

func (r *GormRepository) Create(m *model.EnrollmentModel) error {
	return r.DB.Create(m).Error
}

func (r *GormRepository) Complete(id uuid.UUID, completionDate time.Time) error {
	tx := r.DB.Model(&model.EnrollmentModel{}).
		Where("enrollments_id = ? AND enrollments_completion_date IS NULL", id).
		Update("enrollments_completion_date", completionDate)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"presensiku_backend/internals/features/attendance/analytics/model"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

type pipelineStudentRow struct {
	ID  uuid.UUID `gorm:"column:id"`
	USN string    `gorm:"column:usn"`
}

func (r *GormRepository) ListStudents(semester int, department, section, subject string) ([]PipelineStudent, error) {
	var rows []pipelineStudentRow
	err := r.db.Table("students").
		Select("students.students_id AS id, students.students_usn AS usn").
		Joins("JOIN enrollments ON enrollments.enrollments_owner_id = students.students_id").
		Where("enrollments.enrollments_owner_role = ?", "student").
		Where("enrollments.enrollments_semester = ?", semester).
		Where("enrollments.enrollments_department = ?", department).
		Where("enrollments.enrollments_section = ?", section).
		Where("enrollments.enrollments_subject = ?", subject).
		Where("enrollments.enrollments_completion_date IS NULL").
		Where("enrollments.enrollments_deleted_at IS NULL").
		Where("students.students_deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]PipelineStudent, 0, len(rows))
	for _, row := range rows {
		out = append(out, PipelineStudent{ID: row.ID, USN: row.USN})
	}
	return out, nil
}

type seriesRow struct {
	Status        string `gorm:"column:status"`
	Attentiveness string `gorm:"column:attentiveness"`
}

func (r *GormRepository) StudentSeries(studentID uuid.UUID, semester int, subject string) ([]string, []string, error) {
	var rows []seriesRow
	err := r.db.Table("attendance_records").
		Select(`attendance_records.attendance_records_status AS status,
			attendance_records.attendance_records_attentiveness AS attentiveness`).
		Joins("JOIN attendance_sessions ON attendance_sessions.attendance_sessions_id = attendance_records.attendance_records_session_id").
		Where("attendance_records.attendance_records_student_id = ?", studentID).
		Where("attendance_sessions.attendance_sessions_semester = ?", semester).
		Where("attendance_sessions.attendance_sessions_subject = ?", subject).
		Where("attendance_sessions.attendance_sessions_deleted_at IS NULL").
		Order("attendance_sessions.attendance_sessions_date ASC, attendance_sessions.attendance_sessions_start_time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	attendance := make([]string, 0, len(rows))
	attentiveness := make([]string, 0, len(rows))
	for _, row := range rows {
		attendance = append(attendance, row.Status)
		if row.Attentiveness != "" {
			attentiveness = append(attentiveness, row.Attentiveness)
		}
	}
	return attendance, attentiveness, nil
}

// UpsertStanding: jalankan berulang kali untuk input yang sama, hasilnya
// tetap satu baris per (siswa, subject, semester).
func (r *GormRepository) UpsertStanding(m *model.StudentSubjectStandingModel) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_subject_standings_student_id"},
			{Name: "student_subject_standings_subject"},
			{Name: "student_subject_standings_semester"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"student_subject_standings_trend",
			"student_subject_standings_consistency",
			"student_subject_standings_attentiveness",
			"student_subject_standings_risk",
			"student_subject_standings_metrics",
			"student_subject_standings_computed_at",
			"student_subject_standings_updated_at",
		}),
	}).Create(m).Error
}

/* ===================== QUERY ===================== */

func (r *GormRepository) ListStandings(semester int, subject string, studentID uuid.UUID) ([]model.StudentSubjectStandingModel, error) {
	q := r.db.Model(&model.StudentSubjectStandingModel{})
	if semester > 0 {
		q = q.Where("student_subject_standings_semester = ?", semester)
	}
	if subject != "" {
		q = q.Where("student_subject_standings_subject = ?", subject)
	}
	if studentID != uuid.Nil {
		q = q.Where("student_subject_standings_student_id = ?", studentID)
	}

	var list []model.StudentSubjectStandingModel
	err := q.Order("student_subject_standings_computed_at DESC").Find(&list).Error
	return list, err
}

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"presensiku_backend/internals/features/attendance/sessions/model"
	helper "presensiku_backend/internals/helpers"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

/* ===================== ROSTER ===================== */

type rosterRow struct {
	StudentID uuid.UUID `gorm:"column:student_id"`
	USN       string    `gorm:"column:usn"`
	Name      string    `gorm:"column:name"`
}

// ListRoster: siswa dengan pendaftaran aktif pada kombinasi kelas.
func (r *GormRepository) ListRoster(semester int, department, section, subject string) ([]RosterStudent, error) {
	var rows []rosterRow
	err := r.db.Table("students").
		Select("students.students_id AS student_id, students.students_usn AS usn, students.students_name AS name").
		Joins("JOIN enrollments ON enrollments.enrollments_owner_id = students.students_id").
		Where("enrollments.enrollments_owner_role = ?", "student").
		Where("enrollments.enrollments_semester = ?", semester).
		Where("enrollments.enrollments_department = ?", department).
		Where("enrollments.enrollments_section = ?", section).
		Where("enrollments.enrollments_subject = ?", subject).
		Where("enrollments.enrollments_completion_date IS NULL").
		Where("enrollments.enrollments_deleted_at IS NULL").
		Where("students.students_deleted_at IS NULL").
		Order("students.students_usn ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]RosterStudent, 0, len(rows))
	for _, row := range rows {
		out = append(out, RosterStudent{StudentID: row.StudentID, USN: row.USN, Name: row.Name})
	}
	return out, nil
}

/* ===================== DUPLICATE SLOT ===================== */

func (r *GormRepository) FindNearbySession(teacherID uuid.UUID, semester int, department, section, subject string, date time.Time, startMinutes, windowMinutes int) (*model.AttendanceSessionModel, error) {
	var candidates []model.AttendanceSessionModel
	err := r.db.
		Where("attendance_sessions_teacher_id = ?", teacherID).
		Where("attendance_sessions_semester = ?", semester).
		Where("attendance_sessions_department = ?", department).
		Where("attendance_sessions_section = ?", section).
		Where("attendance_sessions_subject = ?", subject).
		Where("attendance_sessions_date = ?", helper.DateOnly(date)).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	// start_time tersimpan "HH:MM"; banding jaraknya di sini, bukan di SQL
	for i := range candidates {
		min, err := helper.ParseClock(candidates[i].AttendanceSessionStartTime)
		if err != nil {
			continue
		}
		dist := min - startMinutes
		if dist < 0 {
			dist = -dist
		}
		if dist <= windowMinutes {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

/* ===================== SUBMIT (TX) ===================== */

func (r *GormRepository) CreateSessionWithRecords(session *model.AttendanceSessionModel, records []model.AttendanceRecordModel) (int, []string, error) {
	inserted := 0
	var failed []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return mapUniqueViolation(err)
		}

		// Per record di-savepoint sendiri: satu baris gagal tidak
		// menggagalkan baris lain. Gagal total hanya bila nol yang masuk.
		presentInserted, absentInserted := 0, 0
		for i := range records {
			records[i].AttendanceRecordSessionID = session.AttendanceSessionID

			sp := fmt.Sprintf("rec_%d", i)
			if err := tx.SavePoint(sp).Error; err != nil {
				return err
			}
			if err := tx.Create(&records[i]).Error; err != nil {
				if rbErr := tx.RollbackTo(sp).Error; rbErr != nil {
					return rbErr
				}
				failed = append(failed, records[i].AttendanceRecordUSN)
				continue
			}
			inserted++
			if records[i].AttendanceRecordStatus == model.StatusPresent {
				presentInserted++
			} else {
				absentInserted++
			}
		}
		if inserted == 0 {
			return ErrNoRecordsInserted
		}

		// Counter sesi mengikuti record yang BENAR-BENAR masuk.
		if len(failed) > 0 {
			session.AttendanceSessionPresentCount = presentInserted
			session.AttendanceSessionAbsentCount = absentInserted
			return tx.Model(&model.AttendanceSessionModel{}).
				Where("attendance_sessions_id = ?", session.AttendanceSessionID).
				Updates(map[string]interface{}{
					"attendance_sessions_present_count": presentInserted,
					"attendance_sessions_absent_count":  absentInserted,
				}).Error
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return inserted, failed, nil
}

// Unique index slot di attendance_sessions adalah penjaga terakhir
// terhadap race dua submit bersamaan.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateSlot
	}
	return err
}

/* ===================== KOREKSI ===================== */

func (r *GormRepository) FindRecordWithSession(recordID uuid.UUID) (*model.AttendanceRecordModel, *model.AttendanceSessionModel, error) {
	var rec model.AttendanceRecordModel
	if err := r.db.Where("attendance_records_id = ?", recordID).First(&rec).Error; err != nil {
		return nil, nil, err
	}
	var session model.AttendanceSessionModel
	if err := r.db.Where("attendance_sessions_id = ?", rec.AttendanceRecordSessionID).First(&session).Error; err != nil {
		return nil, nil, err
	}
	return &rec, &session, nil
}

func (r *GormRepository) UpdateRecordStatus(recordID uuid.UUID, status, reason, markedBy string, presentDelta int, sessionID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.AttendanceRecordModel{}).
			Where("attendance_records_id = ?", recordID).
			Updates(map[string]interface{}{
				"attendance_records_status":      status,
				"attendance_records_reason_type": reason,
				"attendance_records_marked_by":   markedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if presentDelta != 0 {
			err := tx.Model(&model.AttendanceSessionModel{}).
				Where("attendance_sessions_id = ?", sessionID).
				Updates(map[string]interface{}{
					"attendance_sessions_present_count": gorm.Expr("attendance_sessions_present_count + ?", presentDelta),
					"attendance_sessions_absent_count":  gorm.Expr("attendance_sessions_absent_count - ?", presentDelta),
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

/* ===================== QUERY ===================== */

func (r *GormRepository) ListByTeacherAndDate(teacherID uuid.UUID, date time.Time) ([]model.AttendanceSessionModel, error) {
	var sessions []model.AttendanceSessionModel
	err := r.db.
		Where("attendance_sessions_teacher_id = ?", teacherID).
		Where("attendance_sessions_date = ?", helper.DateOnly(date)).
		Order("attendance_sessions_start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *GormRepository) GetSessionWithRecords(sessionID uuid.UUID) (*model.AttendanceSessionModel, error) {
	var session model.AttendanceSessionModel
	err := r.db.
		Preload("Records").
		Where("attendance_sessions_id = ?", sessionID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// HistoryEntry: satu titik riwayat kehadiran siswa, urut tanggal naik.
type HistoryEntry struct {
	Date          time.Time `gorm:"column:date" json:"date"`
	StartTime     string    `gorm:"column:start_time" json:"start_time"`
	Subject       string    `gorm:"column:subject" json:"subject"`
	Status        string    `gorm:"column:status" json:"status"`
	Attentiveness string    `gorm:"column:attentiveness" json:"attentiveness,omitempty"`
	Emotion       string    `gorm:"column:emotion" json:"emotion,omitempty"`
}

func (r *GormRepository) StudentHistory(studentID uuid.UUID, semester int, subject string) ([]HistoryEntry, error) {
	q := r.db.Table("attendance_records").
		Select(`attendance_sessions.attendance_sessions_date AS date,
			attendance_sessions.attendance_sessions_start_time AS start_time,
			attendance_sessions.attendance_sessions_subject AS subject,
			attendance_records.attendance_records_status AS status,
			attendance_records.attendance_records_attentiveness AS attentiveness,
			attendance_records.attendance_records_emotion AS emotion`).
		Joins("JOIN attendance_sessions ON attendance_sessions.attendance_sessions_id = attendance_records.attendance_records_session_id").
		Where("attendance_records.attendance_records_student_id = ?", studentID).
		Where("attendance_sessions.attendance_sessions_deleted_at IS NULL")
	if semester > 0 {
		q = q.Where("attendance_sessions.attendance_sessions_semester = ?", semester)
	}
	if subject != "" {
		q = q.Where("attendance_sessions.attendance_sessions_subject = ?", subject)
	}

	var entries []HistoryEntry
	err := q.Order("attendance_sessions.attendance_sessions_date ASC, attendance_sessions.attendance_sessions_start_time ASC").
		Scan(&entries).Error
	return entries, err
}

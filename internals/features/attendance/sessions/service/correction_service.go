package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"presensiku_backend/internals/features/attendance/sessions/model"
	helper "presensiku_backend/internals/helpers"
)

/* =======================================================
   Koreksi record — guru boleh membetulkan status kehadiran
   HANYA pada hari yang sama dengan tanggal sesi. Koreksi
   selalu tercatat sebagai marked_by=manual dan counter
   sesi ikut disesuaikan.
   ======================================================= */

var ErrCorrectionWindowClosed = errors.New("koreksi hanya boleh di hari yang sama dengan sesi")

type CorrectionRepository interface {
	FindRecordWithSession(recordID uuid.UUID) (*model.AttendanceRecordModel, *model.AttendanceSessionModel, error)
	UpdateRecordStatus(recordID uuid.UUID, status, reason, markedBy string, presentDelta int, sessionID uuid.UUID) error
}

type CorrectionService struct {
	repo CorrectionRepository
}

func NewCorrectionService(repo CorrectionRepository) *CorrectionService {
	return &CorrectionService{repo: repo}
}

func (s *CorrectionService) Correct(teacherID, recordID uuid.UUID, status, reason string, now time.Time) error {
	if !model.ValidStatus(status) {
		return fmt.Errorf("status %q tidak dikenal", status)
	}

	rec, session, err := s.repo.FindRecordWithSession(recordID)
	if err != nil {
		return err
	}
	if session.AttendanceSessionTeacherID != teacherID {
		return fmt.Errorf("record bukan milik sesi guru ini")
	}
	if !helper.SameCalendarDay(session.AttendanceSessionDate, now) {
		return ErrCorrectionWindowClosed
	}
	if rec.AttendanceRecordStatus == status && rec.AttendanceRecordReasonType == reason {
		return nil // idempotent
	}

	// present/late dihitung hadir; absent/excused dihitung tidak hadir
	delta := 0
	if countsPresent(status) && !countsPresent(rec.AttendanceRecordStatus) {
		delta = 1
	} else if !countsPresent(status) && countsPresent(rec.AttendanceRecordStatus) {
		delta = -1
	}

	return s.repo.UpdateRecordStatus(recordID, status, reason, model.MarkedByManual, delta, session.AttendanceSessionID)
}

func countsPresent(status string) bool {
	return status == model.StatusPresent || status == model.StatusLate
}

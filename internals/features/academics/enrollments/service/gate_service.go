package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"presensiku_backend/internals/features/academics/enrollments/model"
)

/* =======================================================
   Authorization Gate — memutuskan apakah seorang guru boleh
   membuka sesi absensi untuk kombinasi kelas tertentu.
   Murni baca: tidak ada side effect, aman dipanggil berulang.
   ======================================================= */

// Alasan penolakan (stabil, dipakai juga oleh klien untuk i18n).
const (
	ReasonNotAssigned  = "not assigned"
	ReasonNotYetActive = "assignment not yet active"
	ReasonEnded        = "assignment ended"
)

type Decision struct {
	Allowed     bool       `json:"allowed"`
	Reason      string     `json:"reason,omitempty"`
	ActivatesOn *time.Time `json:"activates_on,omitempty"`
	EndedOn     *time.Time `json:"ended_on,omitempty"`
}

// IntervalReader: akses baca interval penugasan guru.
// Implementasi produksi pakai GORM (repository.go); test pakai fake in-memory.
type IntervalReader interface {
	// FindTeacherInterval mengembalikan (nil, nil) bila tidak ada interval.
	FindTeacherInterval(teacherID uuid.UUID, semester int, department, section, subject string) (*model.EnrollmentModel, error)
}

type GateService struct {
	repo IntervalReader
}

func NewGateService(repo IntervalReader) *GateService {
	return &GateService{repo: repo}
}

// Authorize menjawab "boleh buka sesi sekarang?" untuk asOf tertentu.
// asOf zero value = pakai tanggal hari ini.
func (s *GateService) Authorize(teacherID uuid.UUID, semester int, department, section, subject string, asOf time.Time) (Decision, error) {
	if teacherID == uuid.Nil {
		return Decision{}, fmt.Errorf("teacher_id wajib diisi")
	}
	if semester <= 0 {
		return Decision{}, fmt.Errorf("semester wajib diisi")
	}
	if strings.TrimSpace(department) == "" || strings.TrimSpace(section) == "" || strings.TrimSpace(subject) == "" {
		return Decision{}, fmt.Errorf("department/section/subject wajib diisi")
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = dateOnly(asOf)

	iv, err := s.repo.FindTeacherInterval(teacherID, semester, department, section, subject)
	if err != nil {
		return Decision{}, err
	}
	if iv == nil {
		return Decision{Allowed: false, Reason: ReasonNotAssigned}, nil
	}
	if asOf.Before(dateOnly(iv.EnrollmentDate)) {
		activates := dateOnly(iv.EnrollmentDate)
		return Decision{Allowed: false, Reason: ReasonNotYetActive, ActivatesOn: &activates}, nil
	}
	if iv.EnrollmentCompletionDate != nil && asOf.After(dateOnly(*iv.EnrollmentCompletionDate)) {
		ended := dateOnly(*iv.EnrollmentCompletionDate)
		return Decision{Allowed: false, Reason: ReasonEnded, EndedOn: &ended}, nil
	}
	return Decision{Allowed: true}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

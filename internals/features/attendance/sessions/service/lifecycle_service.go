package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

/* =======================================================
   Session Lifecycle — draft sesi berjalan maju satu arah:
   filter → capture → review → submitted. Mundur tidak
   boleh; batal = buang draft, mulai dari filter lagi.

   Registry in-memory per instance. Kebenaran akhir tetap
   di unique index attendance_sessions; registry ini hanya
   mencegah langkah ganda dari UI yang sama.
   ======================================================= */

type Stage string

const (
	StageFilter    Stage = "filter"
	StageCapture   Stage = "capture"
	StageReview    Stage = "review"
	StageSubmitted Stage = "submitted"
)

var nextStage = map[Stage]Stage{
	StageFilter:  StageCapture,
	StageCapture: StageReview,
	StageReview:  StageSubmitted,
}

// Draft: sesi yang sedang dibuka guru, belum tersimpan ke DB.
type Draft struct {
	TeacherID  uuid.UUID `json:"teacher_id"`
	Semester   int       `json:"semester"`
	Department string    `json:"department"`
	Section    string    `json:"section"`
	Subject    string    `json:"subject"`
	Stage      Stage     `json:"stage"`
	Recognized bool      `json:"recognized"` // pengenalan wajah sudah sukses minimal sekali
	StartedAt  time.Time `json:"started_at"`
}

type LifecycleService struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]*Draft // satu draft aktif per guru
}

func NewLifecycleService() *LifecycleService {
	return &LifecycleService{drafts: make(map[uuid.UUID]*Draft)}
}

var sharedLifecycle = NewLifecycleService()

// SharedLifecycle: registry draft satu proses, dipakai lintas controller
// (sesi dan recognition menulis ke registry yang sama).
func SharedLifecycle() *LifecycleService { return sharedLifecycle }

// Begin membuka draft baru di tahap filter. Draft lama milik guru yang
// sama (belum submitted) dibuang.
func (s *LifecycleService) Begin(teacherID uuid.UUID, semester int, department, section, subject string) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &Draft{
		TeacherID:  teacherID,
		Semester:   semester,
		Department: department,
		Section:    section,
		Subject:    subject,
		Stage:      StageFilter,
		StartedAt:  time.Now(),
	}
	s.drafts[teacherID] = d
	return d
}

// Advance memajukan draft satu tahap. Lompat tahap atau mundur ditolak.
func (s *LifecycleService) Advance(teacherID uuid.UUID, to Stage) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[teacherID]
	if !ok {
		return nil, fmt.Errorf("tidak ada draft aktif")
	}
	want, ok := nextStage[d.Stage]
	if !ok {
		return nil, fmt.Errorf("draft sudah submitted")
	}
	if to != want {
		return nil, fmt.Errorf("transisi %s → %s tidak diizinkan (berikutnya: %s)", d.Stage, to, want)
	}
	if to == StageReview && !d.Recognized {
		return nil, fmt.Errorf("pengenalan wajah belum berhasil; ulangi capture")
	}
	d.Stage = to
	if to == StageSubmitted {
		delete(s.drafts, teacherID)
	}
	return d, nil
}

// MarkRecognized mencatat bahwa panggilan pengenalan wajah untuk draft
// ini sukses. Hanya berlaku pada tahap capture.
func (s *LifecycleService) MarkRecognized(teacherID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[teacherID]
	if !ok {
		return fmt.Errorf("tidak ada draft aktif")
	}
	if d.Stage != StageCapture {
		return fmt.Errorf("draft belum di tahap capture")
	}
	d.Recognized = true
	return nil
}

// Cancel membuang draft aktif (apapun tahapnya, selama belum submitted).
func (s *LifecycleService) Cancel(teacherID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[teacherID]; !ok {
		return fmt.Errorf("tidak ada draft aktif")
	}
	delete(s.drafts, teacherID)
	return nil
}

// Current mengembalikan draft aktif guru, nil bila tidak ada.
func (s *LifecycleService) Current(teacherID uuid.UUID) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[teacherID]
	if !ok {
		return nil
	}
	cp := *d
	return &cp
}

package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"presensiku_backend/internals/features/attendance/sessions/model"
	helper "presensiku_backend/internals/helpers"
)

/* =======================================================
   Submission Transaction — menyimpan sesi + seluruh record
   kehadiran secara atomik. Entri hasil pengenalan yang tidak
   cocok dengan siswa terdaftar dilewati (dihitung sebagai
   failure), tanpa menggagalkan entri lain.
   ======================================================= */

// ErrDuplicateSlot: slot yang sama (±window) sudah punya sesi tersimpan.
var ErrDuplicateSlot = errors.New("sesi untuk slot ini sudah tercatat")

// ErrNoRecordsInserted: transaksi dibatalkan karena tidak satu pun record masuk.
var ErrNoRecordsInserted = errors.New("tidak ada record kehadiran yang tersimpan")

// RosterStudent: siswa terdaftar pada kombinasi kelas.
type RosterStudent struct {
	StudentID uuid.UUID
	USN       string
	Name      string
}

// RecognizedStudent: satu entri hasil layanan pengenalan wajah.
type RecognizedStudent struct {
	USN           string  `json:"usn"`
	Confidence    float64 `json:"confidence"`
	Attentiveness string  `json:"attentiveness"`
	Emotion       string  `json:"emotion"`
}

type SubmissionRepository interface {
	// ListRoster mengembalikan siswa aktif pada kombinasi kelas.
	ListRoster(semester int, department, section, subject string) ([]RosterStudent, error)
	// FindNearbySession mencari sesi guru yang sama pada tanggal sama dengan
	// start time dalam ±windowMinutes. Nil bila tidak ada.
	FindNearbySession(teacherID uuid.UUID, semester int, department, section, subject string, date time.Time, startMinutes, windowMinutes int) (*model.AttendanceSessionModel, error)
	// CreateSessionWithRecords menyimpan sesi + records dalam satu transaksi.
	// Record yang gagal insert dilewati (savepoint per baris); transaksi hanya
	// gagal total bila sesi tidak bisa dibuat atau NOL record masuk.
	// Mengembalikan jumlah record tersimpan + USN yang gagal.
	CreateSessionWithRecords(session *model.AttendanceSessionModel, records []model.AttendanceRecordModel) (int, []string, error)
}

// PipelineEnqueuer: pemicu pipeline analitik pasca-submit. Tidak boleh blocking.
type PipelineEnqueuer interface {
	Enqueue(semester int, department, section, subject string)
}

type SubmissionInput struct {
	TeacherID     uuid.UUID
	Semester      int
	Department    string
	Section       string
	Subject       string
	Date          time.Time
	StartTime     string // "HH:MM"
	PeriodOrdinal int
	SubmittedAt   time.Time // wall-clock submit, dipakai cek jendela waktu

	Recognized    []RecognizedStudent
	ManualPresent []string // USN yang ditandai hadir manual saat review
}

type SubmissionResult struct {
	SessionID     uuid.UUID `json:"session_id"`
	SuccessCount  int       `json:"success_count"`
	FailureCount  int       `json:"failure_count"`
	PresentCount  int       `json:"present_count"`
	AbsentCount   int       `json:"absent_count"`
	TotalStudents int       `json:"total_students"`
	FailedUSNs    []string  `json:"failed_usns,omitempty"`
}

type SubmissionService struct {
	repo             SubmissionRepository
	pipeline         PipelineEnqueuer
	dupWindowMinutes int
	guard            *CaptureGuard // nil = tanpa cek jendela (dipakai di test)
}

func NewSubmissionService(repo SubmissionRepository, pipeline PipelineEnqueuer, dupWindowMinutes int, guard *CaptureGuard) *SubmissionService {
	return &SubmissionService{repo: repo, pipeline: pipeline, dupWindowMinutes: dupWindowMinutes, guard: guard}
}

func (s *SubmissionService) Submit(in SubmissionInput) (*SubmissionResult, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	startMinutes, err := helper.ParseClock(in.StartTime)
	if err != nil {
		return nil, err
	}

	// Jendela waktu dicek ulang di sini, bukan hanya saat draft maju ke
	// capture: submit di luar jendela ditolak apapun isi payload-nya.
	if s.guard != nil {
		if _, _, err := s.guard.Check(in.TeacherID, in.Semester, in.Department, in.Section, in.Subject, in.SubmittedAt); err != nil {
			return nil, err
		}
	}

	// Guard slot duplikat (cek dini; unique index tetap jadi penjaga akhir).
	existing, err := s.repo.FindNearbySession(in.TeacherID, in.Semester, in.Department, in.Section, in.Subject, in.Date, startMinutes, s.dupWindowMinutes)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateSlot
	}

	roster, err := s.repo.ListRoster(in.Semester, in.Department, in.Section, in.Subject)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("tidak ada siswa terdaftar pada kombinasi ini")
	}

	byUSN := make(map[string]RosterStudent, len(roster))
	for _, st := range roster {
		byUSN[strings.TrimSpace(st.USN)] = st
	}

	// Siswa yang terdeteksi / ditandai hadir
	recognized := make(map[string]RecognizedStudent)
	var failed []string
	for _, rec := range in.Recognized {
		usn := strings.TrimSpace(rec.USN)
		if _, ok := byUSN[usn]; !ok {
			// USN tidak ada di roster: lewati, jangan gagalkan yang lain
			failed = append(failed, usn)
			continue
		}
		recognized[usn] = rec
	}
	manual := make(map[string]bool)
	for _, usn := range in.ManualPresent {
		usn = strings.TrimSpace(usn)
		if _, ok := byUSN[usn]; !ok {
			failed = append(failed, usn)
			continue
		}
		if _, already := recognized[usn]; already {
			continue // sudah terdeteksi sistem, manual tidak dihitung ganda
		}
		manual[usn] = true
	}

	session := model.AttendanceSessionModel{
		AttendanceSessionTeacherID:     in.TeacherID,
		AttendanceSessionSemester:      in.Semester,
		AttendanceSessionDepartment:    in.Department,
		AttendanceSessionSection:       in.Section,
		AttendanceSessionSubject:       in.Subject,
		AttendanceSessionDate:          helper.DateOnly(in.Date),
		AttendanceSessionStartTime:     helper.FormatClock(startMinutes),
		AttendanceSessionPeriodOrdinal: in.PeriodOrdinal,
		AttendanceSessionSlot:          slotBucket(startMinutes, s.dupWindowMinutes),
		AttendanceSessionTotalStudents: len(roster),
	}

	records := make([]model.AttendanceRecordModel, 0, len(roster))
	for _, st := range roster {
		r := model.AttendanceRecordModel{
			AttendanceRecordStudentID: st.StudentID,
			AttendanceRecordUSN:       st.USN,
			AttendanceRecordStatus:    model.StatusAbsent,
			AttendanceRecordMarkedBy:  model.MarkedBySystem,
		}
		if rec, ok := recognized[st.USN]; ok {
			r.AttendanceRecordStatus = model.StatusPresent
			r.AttendanceRecordConfidence = rec.Confidence
			r.AttendanceRecordAttentiveness = rec.Attentiveness
			r.AttendanceRecordEmotion = rec.Emotion
		} else if manual[st.USN] {
			r.AttendanceRecordStatus = model.StatusPresent
			r.AttendanceRecordMarkedBy = model.MarkedByManual
		}
		if r.AttendanceRecordStatus == model.StatusPresent {
			session.AttendanceSessionPresentCount++
		} else {
			session.AttendanceSessionAbsentCount++
		}
		records = append(records, r)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("tidak ada record yang bisa disimpan")
	}

	inserted, insertFailed, err := s.repo.CreateSessionWithRecords(&session, records)
	if err != nil {
		return nil, err
	}
	failed = append(failed, insertFailed...)

	// Pipeline analitik dipicu SETELAH commit; kegagalannya tidak
	// mempengaruhi hasil submit.
	if s.pipeline != nil {
		s.pipeline.Enqueue(in.Semester, in.Department, in.Section, in.Subject)
	}
	if len(failed) > 0 {
		log.Printf("⚠️ submit sesi %s: %d entri gagal (roster/insert): %v", session.AttendanceSessionID, len(failed), failed)
	}

	success := len(recognized) + len(manual)
	if success > inserted {
		success = inserted
	}
	return &SubmissionResult{
		SessionID:     session.AttendanceSessionID,
		SuccessCount:  success,
		FailureCount:  len(failed),
		PresentCount:  session.AttendanceSessionPresentCount,
		AbsentCount:   session.AttendanceSessionAbsentCount,
		TotalStudents: session.AttendanceSessionTotalStudents,
		FailedUSNs:    failed,
	}, nil
}

// slotBucket menurunkan kolom slot untuk unique index di storage:
// dua submit yang jatuh di bucket menit yang sama pasti bentrok di DB,
// bukan hanya di cek dini FindNearbySession.
func slotBucket(startMinutes, slotWidthMinutes int) int {
	if slotWidthMinutes <= 0 {
		return startMinutes
	}
	return startMinutes / slotWidthMinutes
}

func (s *SubmissionService) validate(in SubmissionInput) error {
	if in.TeacherID == uuid.Nil {
		return fmt.Errorf("teacher ID wajib diisi")
	}
	if in.Semester <= 0 || strings.TrimSpace(in.Department) == "" ||
		strings.TrimSpace(in.Section) == "" || strings.TrimSpace(in.Subject) == "" {
		return fmt.Errorf("kombinasi kelas tidak lengkap")
	}
	if in.Date.IsZero() {
		return fmt.Errorf("tanggal sesi wajib diisi")
	}
	if in.PeriodOrdinal < 1 {
		return fmt.Errorf("period ordinal tidak valid")
	}
	return nil
}

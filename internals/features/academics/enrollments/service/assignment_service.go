package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"presensiku_backend/internals/features/academics/enrollments/model"
)

/* =======================================================
   Pembuatan interval + deteksi konflik penugasan.

   - duplicate : kombinasi identik milik guru YANG SAMA dengan
                 enrollment_date sama → selalu ditolak (re-submit idempoten).
   - conflict  : kombinasi sama milik guru LAIN yang intervalnya
                 masih aktif pada enrollment_date → dilaporkan,
                 boleh dipaksa (co-teaching menambah baris baru).
   ======================================================= */

type Combination struct {
	Semester   int    `json:"semester"`
	Department string `json:"department"`
	Section    string `json:"section"`
	Subject    string `json:"subject"`
}

type ConflictReport struct {
	Duplicates []Combination `json:"duplicates"`
	Conflicts  []Combination `json:"conflicts"`
}

func (r ConflictReport) Clean() bool {
	return len(r.Duplicates) == 0 && len(r.Conflicts) == 0
}

// AssignmentRepository: akses baca/tulis interval untuk alur penugasan.
type AssignmentRepository interface {
	IntervalReader
	// ListByCombination: semua interval (guru maupun siswa) untuk satu kombinasi.
	ListByCombination(semester int, department, section, subject string) ([]model.EnrollmentModel, error)
	// ListByOwner: semua interval milik satu owner.
	ListByOwner(ownerID uuid.UUID) ([]model.EnrollmentModel, error)
	Create(m *model.EnrollmentModel) error
	Complete(id uuid.UUID, completionDate time.Time) error
}

type AssignmentService struct {
	repo AssignmentRepository
}

func NewAssignmentService(repo AssignmentRepository) *AssignmentService {
	return &AssignmentService{repo: repo}
}

// CheckAssignmentConflicts memeriksa semua kombinasi yang diminta sebelum insert.
func (s *AssignmentService) CheckAssignmentConflicts(teacherID uuid.UUID, combos []Combination, enrollmentDate time.Time) (ConflictReport, error) {
	report := ConflictReport{}
	enrollmentDate = dateOnly(enrollmentDate)

	for _, combo := range combos {
		existing, err := s.repo.ListByCombination(combo.Semester, combo.Department, combo.Section, combo.Subject)
		if err != nil {
			return ConflictReport{}, err
		}
		for _, iv := range existing {
			if iv.EnrollmentOwnerRole != model.OwnerTeacher {
				continue
			}
			if iv.EnrollmentOwnerID == teacherID {
				if dateOnly(iv.EnrollmentDate).Equal(enrollmentDate) {
					report.Duplicates = append(report.Duplicates, combo)
				}
				continue
			}
			// guru lain: konflik hanya bila intervalnya mencakup tanggal yang diminta
			if iv.ActiveOn(enrollmentDate) {
				report.Conflicts = append(report.Conflicts, combo)
			}
		}
	}
	return report, nil
}

// AssignTeacher membuat interval baru untuk tiap kombinasi.
// Duplikat selalu ditolak; konflik hanya lolos dengan force=true
// (memaksa MENAMBAH baris, tidak menggantikan milik guru lain).
func (s *AssignmentService) AssignTeacher(teacherID uuid.UUID, combos []Combination, enrollmentDate time.Time, force bool) ([]model.EnrollmentModel, ConflictReport, error) {
	if len(combos) == 0 {
		return nil, ConflictReport{}, fmt.Errorf("combinations wajib diisi")
	}

	report, err := s.CheckAssignmentConflicts(teacherID, combos, enrollmentDate)
	if err != nil {
		return nil, ConflictReport{}, err
	}
	if len(report.Duplicates) > 0 {
		return nil, report, fmt.Errorf("penugasan duplikat untuk %d kombinasi", len(report.Duplicates))
	}
	if len(report.Conflicts) > 0 && !force {
		return nil, report, fmt.Errorf("kombinasi sudah dipegang guru lain; kirim force=true untuk co-teaching")
	}

	created := make([]model.EnrollmentModel, 0, len(combos))
	for _, combo := range combos {
		m := model.EnrollmentModel{
			EnrollmentOwnerID:    teacherID,
			EnrollmentOwnerRole:  model.OwnerTeacher,
			EnrollmentSemester:   combo.Semester,
			EnrollmentDepartment: combo.Department,
			EnrollmentSection:    combo.Section,
			EnrollmentSubject:    combo.Subject,
			EnrollmentDate:       dateOnly(enrollmentDate),
		}
		if err := s.repo.Create(&m); err != nil {
			return created, report, err
		}
		created = append(created, m)
	}
	return created, report, nil
}

// EnrollStudent mendaftarkan siswa untuk kredit.
// Invariant: per siswa maksimal satu interval per semester,
// dan maksimal satu interval per bulan kalender enrollment_date.
func (s *AssignmentService) EnrollStudent(studentID uuid.UUID, combo Combination, enrollmentDate time.Time) (*model.EnrollmentModel, error) {
	enrollmentDate = dateOnly(enrollmentDate)

	existing, err := s.repo.ListByOwner(studentID)
	if err != nil {
		return nil, err
	}
	for _, iv := range existing {
		if iv.EnrollmentOwnerRole != model.OwnerStudent {
			continue
		}
		if iv.EnrollmentSemester == combo.Semester {
			return nil, fmt.Errorf("siswa sudah terdaftar pada semester %d", combo.Semester)
		}
		if iv.EnrollmentDate.Year() == enrollmentDate.Year() && iv.EnrollmentDate.Month() == enrollmentDate.Month() {
			return nil, fmt.Errorf("siswa sudah punya pendaftaran di bulan %s", enrollmentDate.Format("2006-01"))
		}
	}

	m := model.EnrollmentModel{
		EnrollmentOwnerID:    studentID,
		EnrollmentOwnerRole:  model.OwnerStudent,
		EnrollmentSemester:   combo.Semester,
		EnrollmentDepartment: combo.Department,
		EnrollmentSection:    combo.Section,
		EnrollmentSubject:    combo.Subject,
		EnrollmentDate:       enrollmentDate,
	}
	if err := s.repo.Create(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CompleteEnrollment menutup interval (supersede, bukan edit).
func (s *AssignmentService) CompleteEnrollment(id uuid.UUID, completionDate time.Time) error {
	if id == uuid.Nil {
		return fmt.Errorf("id wajib diisi")
	}
	return s.repo.Complete(id, dateOnly(completionDate))
}

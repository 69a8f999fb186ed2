package dto

import (
	"time"

	"github.com/google/uuid"

	m "presensiku_backend/internals/features/academics/enrollments/model"
	svc "presensiku_backend/internals/features/academics/enrollments/service"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CombinationRequest struct {
	Semester   int    `json:"semester" validate:"required,min=1,max=10"`
	Department string `json:"department" validate:"required,max=60"`
	Section    string `json:"section" validate:"required,max=10"`
	Subject    string `json:"subject" validate:"required,max=120"`
}

// Penugasan guru (bisa banyak kombinasi sekaligus)
type AssignTeacherRequest struct {
	TeacherID      uuid.UUID            `json:"teacher_id" validate:"required"`
	Combinations   []CombinationRequest `json:"combinations" validate:"required,min=1,dive"`
	EnrollmentDate string               `json:"enrollment_date" validate:"required,datetime=2006-01-02"`
	Force          bool                 `json:"force"`
}

// Pendaftaran siswa (satu kombinasi)
type EnrollStudentRequest struct {
	StudentID      uuid.UUID          `json:"student_id" validate:"required"`
	Combination    CombinationRequest `json:"combination" validate:"required"`
	EnrollmentDate string             `json:"enrollment_date" validate:"required,datetime=2006-01-02"`
}

type CompleteEnrollmentRequest struct {
	CompletionDate string `json:"completion_date" validate:"required,datetime=2006-01-02"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type EnrollmentResponse struct {
	EnrollmentID             uuid.UUID  `json:"enrollments_id"`
	EnrollmentOwnerID        uuid.UUID  `json:"enrollments_owner_id"`
	EnrollmentOwnerRole      string     `json:"enrollments_owner_role"`
	EnrollmentSemester       int        `json:"enrollments_semester"`
	EnrollmentDepartment     string     `json:"enrollments_department"`
	EnrollmentSection        string     `json:"enrollments_section"`
	EnrollmentSubject        string     `json:"enrollments_subject"`
	EnrollmentDate           string     `json:"enrollments_enrollment_date"`
	EnrollmentCompletionDate *string    `json:"enrollments_completion_date,omitempty"`
	EnrollmentCreatedAt      time.Time  `json:"enrollments_created_at"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r CombinationRequest) ToCombination() svc.Combination {
	return svc.Combination{
		Semester:   r.Semester,
		Department: r.Department,
		Section:    r.Section,
		Subject:    r.Subject,
	}
}

func NewEnrollmentResponse(mdl m.EnrollmentModel) EnrollmentResponse {
	var completion *string
	if mdl.EnrollmentCompletionDate != nil {
		s := mdl.EnrollmentCompletionDate.Format("2006-01-02")
		completion = &s
	}
	return EnrollmentResponse{
		EnrollmentID:             mdl.EnrollmentID,
		EnrollmentOwnerID:        mdl.EnrollmentOwnerID,
		EnrollmentOwnerRole:      string(mdl.EnrollmentOwnerRole),
		EnrollmentSemester:       mdl.EnrollmentSemester,
		EnrollmentDepartment:     mdl.EnrollmentDepartment,
		EnrollmentSection:        mdl.EnrollmentSection,
		EnrollmentSubject:        mdl.EnrollmentSubject,
		EnrollmentDate:           mdl.EnrollmentDate.Format("2006-01-02"),
		EnrollmentCompletionDate: completion,
		EnrollmentCreatedAt:      mdl.EnrollmentCreatedAt,
	}
}

func NewEnrollmentResponses(models []m.EnrollmentModel) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(models))
	for _, mdl := range models {
		out = append(out, NewEnrollmentResponse(mdl))
	}
	return out
}

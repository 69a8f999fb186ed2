package dto

import (
	"presensiku_backend/internals/features/users/students/model"
)

/* ===================== REQUEST ===================== */

type RegisterStudentRequest struct {
	USN        string `json:"usn" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Semester   int    `json:"semester" validate:"required,min=1,max=14"`
	Department string `json:"department" validate:"required"`
	Section    string `json:"section" validate:"required"`

	// Foto wajah untuk registrasi embedding (base64, 3-5 foto disarankan)
	Images []string `json:"images" validate:"required,min=1,max=5"`
}

func (r RegisterStudentRequest) ToModel() model.StudentModel {
	return model.StudentModel{
		StudentUSN:        r.USN,
		StudentName:       r.Name,
		StudentSemester:   r.Semester,
		StudentDepartment: r.Department,
		StudentSection:    r.Section,
	}
}

type ReRegisterFaceRequest struct {
	Images []string `json:"images" validate:"required,min=1,max=5"`
}

/* ===================== RESPONSE ===================== */

type StudentResponse struct {
	ID           string `json:"students_id"`
	USN          string `json:"usn"`
	Name         string `json:"name"`
	Semester     int    `json:"semester"`
	Department   string `json:"department"`
	Section      string `json:"section"`
	HasEmbedding bool   `json:"has_embedding"`
}

func NewStudentResponse(m model.StudentModel) StudentResponse {
	return StudentResponse{
		ID:           m.StudentID.String(),
		USN:          m.StudentUSN,
		Name:         m.StudentName,
		Semester:     m.StudentSemester,
		Department:   m.StudentDepartment,
		Section:      m.StudentSection,
		HasEmbedding: m.HasEmbedding(),
	}
}

func NewStudentResponses(list []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(list))
	for _, m := range list {
		out = append(out, NewStudentResponse(m))
	}
	return out
}

package dto

import (
	"presensiku_backend/internals/features/attendance/sessions/model"
	"presensiku_backend/internals/features/attendance/sessions/service"
)

/* ===================== REQUEST ===================== */

type BeginDraftRequest struct {
	Semester   int    `json:"semester" validate:"required,min=1,max=14"`
	Department string `json:"department" validate:"required"`
	Section    string `json:"section" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
}

type AdvanceDraftRequest struct {
	Stage string `json:"stage" validate:"required,oneof=capture review submitted"`
}

type SubmitSessionRequest struct {
	Semester      int    `json:"semester" validate:"required,min=1,max=14"`
	Department    string `json:"department" validate:"required"`
	Section       string `json:"section" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	Date          string `json:"date" validate:"required"`       // "YYYY-MM-DD"
	StartTime     string `json:"start_time" validate:"required"` // "HH:MM"
	PeriodOrdinal int    `json:"period_ordinal" validate:"required,min=1"`

	Recognized    []service.RecognizedStudent `json:"recognized"`
	ManualPresent []string                    `json:"manual_present"`
}

type CorrectRecordRequest struct {
	Status string `json:"status" validate:"required,oneof=present absent excused late"`
	Reason string `json:"reason" validate:"omitempty,max=100"`
}

/* ===================== RESPONSE ===================== */

type SessionResponse struct {
	ID            string `json:"attendance_sessions_id"`
	Subject       string `json:"subject"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	PeriodOrdinal int    `json:"period_ordinal"`
	TotalStudents int    `json:"total_students"`
	PresentCount  int    `json:"present_count"`
	AbsentCount   int    `json:"absent_count"`
}

func NewSessionResponse(m model.AttendanceSessionModel) SessionResponse {
	return SessionResponse{
		ID:            m.AttendanceSessionID.String(),
		Subject:       m.AttendanceSessionSubject,
		Date:          m.AttendanceSessionDate.Format("2006-01-02"),
		StartTime:     m.AttendanceSessionStartTime,
		PeriodOrdinal: m.AttendanceSessionPeriodOrdinal,
		TotalStudents: m.AttendanceSessionTotalStudents,
		PresentCount:  m.AttendanceSessionPresentCount,
		AbsentCount:   m.AttendanceSessionAbsentCount,
	}
}

func NewSessionResponses(list []model.AttendanceSessionModel) []SessionResponse {
	out := make([]SessionResponse, 0, len(list))
	for _, m := range list {
		out = append(out, NewSessionResponse(m))
	}
	return out
}

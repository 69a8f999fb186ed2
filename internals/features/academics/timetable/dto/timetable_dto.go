package dto

import (
	"time"

	"presensiku_backend/internals/features/academics/timetable/model"
)

/* ===================== REQUEST ===================== */

type CreatePeriodRequest struct {
	Semester   int    `json:"semester" validate:"required,min=1,max=14"`
	Department string `json:"department" validate:"required"`
	Section    string `json:"section" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
	DayOfWeek  int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime  string `json:"start_time" validate:"required"` // "HH:MM"
	EndTime    string `json:"end_time" validate:"required"`
}

func (r CreatePeriodRequest) ToModel() model.TimetablePeriodModel {
	return model.TimetablePeriodModel{
		TimetablePeriodSemester:   r.Semester,
		TimetablePeriodDepartment: r.Department,
		TimetablePeriodSection:    r.Section,
		TimetablePeriodSubject:    r.Subject,
		TimetablePeriodDayOfWeek:  r.DayOfWeek,
		TimetablePeriodStartTime:  r.StartTime,
		TimetablePeriodEndTime:    r.EndTime,
	}
}

type CreateOverrideRequest struct {
	Semester   int    `json:"semester" validate:"required,min=1,max=14"`
	Department string `json:"department" validate:"required"`
	Section    string `json:"section" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
	Date       string `json:"date" validate:"required"` // "YYYY-MM-DD"
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
}

func (r CreateOverrideRequest) ToModel(date time.Time) model.TimetableOverrideModel {
	return model.TimetableOverrideModel{
		TimetableOverrideSemester:   r.Semester,
		TimetableOverrideDepartment: r.Department,
		TimetableOverrideSection:    r.Section,
		TimetableOverrideSubject:    r.Subject,
		TimetableOverrideDate:       date,
		TimetableOverrideStartTime:  r.StartTime,
		TimetableOverrideEndTime:    r.EndTime,
	}
}

/* ===================== RESPONSE ===================== */

type PeriodResponse struct {
	ID        string `json:"timetable_periods_id"`
	Semester  int    `json:"semester"`
	Subject   string `json:"subject"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func NewPeriodResponse(m model.TimetablePeriodModel) PeriodResponse {
	return PeriodResponse{
		ID:        m.TimetablePeriodID.String(),
		Semester:  m.TimetablePeriodSemester,
		Subject:   m.TimetablePeriodSubject,
		DayOfWeek: m.TimetablePeriodDayOfWeek,
		StartTime: m.TimetablePeriodStartTime,
		EndTime:   m.TimetablePeriodEndTime,
	}
}

func NewPeriodResponses(list []model.TimetablePeriodModel) []PeriodResponse {
	out := make([]PeriodResponse, 0, len(list))
	for _, m := range list {
		out = append(out, NewPeriodResponse(m))
	}
	return out
}

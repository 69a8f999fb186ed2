package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	timetable "presensiku_backend/internals/features/academics/timetable/service"
	"presensiku_backend/internals/features/attendance/sessions/model"
)

type fakeScheduleResolver struct {
	periods []timetable.Period
}

func (f *fakeScheduleResolver) Resolve(date time.Time, semester int, department, section string) ([]timetable.Period, bool, error) {
	return f.periods, false, nil
}

func guardWith(repo *fakeSubmissionRepo, periods ...timetable.Period) *CaptureGuard {
	return NewCaptureGuard(&fakeScheduleResolver{periods: periods},
		timetable.NewWindowService(15), repo, 30)
}

func dbmsPeriod() timetable.Period {
	return timetable.Period{Subject: "DBMS", StartTime: "09:00", EndTime: "09:55", StartMinutes: 540, EndMinutes: 595, Ordinal: 1}
}

func clockAt(hh, mm int) time.Time {
	return time.Date(2024, 8, 5, hh, mm, 0, 0, time.UTC)
}

func TestCaptureGuardAllowsInsideWindow(t *testing.T) {
	g := guardWith(&fakeSubmissionRepo{}, dbmsPeriod())

	decision, period, err := g.Check(uuid.New(), 5, "CS", "A", "DBMS", clockAt(9, 0))
	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, "DBMS", period.Subject)
}

func TestCaptureGuardRejectsOutsideWindow(t *testing.T) {
	g := guardWith(&fakeSubmissionRepo{}, dbmsPeriod())

	// terlalu pagi: tunggu sampai jendela buka 08:45
	decision, _, err := g.Check(uuid.New(), 5, "CS", "A", "DBMS", clockAt(7, 0))
	assert.ErrorIs(t, err, ErrWindowClosed)
	assert.False(t, decision.Allowed)
	assert.Equal(t, "1 jam 45 menit", decision.Wait)

	// sudah lewat
	_, _, err = g.Check(uuid.New(), 5, "CS", "A", "DBMS", clockAt(23, 59))
	assert.ErrorIs(t, err, ErrWindowClosed)
}

func TestCaptureGuardNoSchedule(t *testing.T) {
	g := guardWith(&fakeSubmissionRepo{}, dbmsPeriod())

	_, _, err := g.Check(uuid.New(), 5, "CS", "A", "Math", clockAt(9, 0))
	assert.ErrorIs(t, err, ErrNoScheduledPeriod)
}

func TestCaptureGuardRejectsNearbySession(t *testing.T) {
	teacher := uuid.New()
	repo := &fakeSubmissionRepo{sessions: []model.AttendanceSessionModel{{
		AttendanceSessionTeacherID: teacher,
		AttendanceSessionDate:      clockAt(0, 0),
		AttendanceSessionStartTime: "09:10",
	}}}
	g := guardWith(repo, dbmsPeriod())

	_, _, err := g.Check(teacher, 5, "CS", "A", "DBMS", clockAt(9, 0))
	assert.ErrorIs(t, err, ErrDuplicateSlot)
}

// Submit mengecek ulang jendela waktu: payload valid sekalipun, submit di
// luar jendela ditolak sebelum menyentuh roster atau storage.
func TestSubmitOutsideWindowRejected(t *testing.T) {
	repo := &fakeSubmissionRepo{roster: studentRoster("1A01")}
	svc := NewSubmissionService(repo, &fakePipeline{}, 30, guardWith(repo, dbmsPeriod()))

	in := baseInput(uuid.New())
	in.SubmittedAt = clockAt(23, 59)
	_, err := svc.Submit(in)
	assert.ErrorIs(t, err, ErrWindowClosed)
	assert.Empty(t, repo.sessions)

	in.SubmittedAt = clockAt(9, 5)
	_, err = svc.Submit(in)
	assert.NoError(t, err)
	assert.Len(t, repo.sessions, 1)
}

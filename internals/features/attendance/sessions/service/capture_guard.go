package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	timetable "presensiku_backend/internals/features/academics/timetable/service"
)

/* =======================================================
   Capture Guard — gerbang wajib sebelum sesi boleh masuk
   tahap capture (dan dicek ulang saat submit):
   1. ada periode terjadwal untuk mata pelajaran ini hari ini,
   2. jendela waktu periode terdekat sedang terbuka,
   3. belum ada sesi tersimpan di slot berdekatan (±window).
   ======================================================= */

var (
	ErrNoScheduledPeriod = errors.New("tidak ada jadwal mata pelajaran ini hari ini")
	ErrWindowClosed      = errors.New("di luar jendela waktu sesi")
)

// ScheduleResolver: jadwal efektif satu hari (override menimpa mingguan).
type ScheduleResolver interface {
	Resolve(date time.Time, semester int, department, section string) ([]timetable.Period, bool, error)
}

// WindowChecker: cek jendela waktu + pemilihan periode terdekat.
type WindowChecker interface {
	Check(now time.Time, p timetable.Period) timetable.WindowDecision
	Closest(now time.Time, periods []timetable.Period, subject string) *timetable.Period
}

type CaptureGuard struct {
	resolver         ScheduleResolver
	window           WindowChecker
	repo             SubmissionRepository
	dupWindowMinutes int
}

func NewCaptureGuard(resolver ScheduleResolver, window WindowChecker, repo SubmissionRepository, dupWindowMinutes int) *CaptureGuard {
	return &CaptureGuard{resolver: resolver, window: window, repo: repo, dupWindowMinutes: dupWindowMinutes}
}

// Check memutuskan apakah guru boleh membuka sesi untuk kombinasi ini
// SEKARANG. Decision dikembalikan juga saat ditolak supaya controller
// bisa menampilkan sisa tunggu / jam buka-tutup.
func (g *CaptureGuard) Check(teacherID uuid.UUID, semester int, department, section, subject string, now time.Time) (timetable.WindowDecision, *timetable.Period, error) {
	periods, _, err := g.resolver.Resolve(now, semester, department, section)
	if err != nil {
		return timetable.WindowDecision{}, nil, err
	}

	period := g.window.Closest(now, periods, subject)
	if period == nil {
		return timetable.WindowDecision{}, nil, ErrNoScheduledPeriod
	}

	decision := g.window.Check(now, *period)
	if !decision.Allowed {
		return decision, period, ErrWindowClosed
	}

	existing, err := g.repo.FindNearbySession(teacherID, semester, department, section, subject, now, period.StartMinutes, g.dupWindowMinutes)
	if err != nil {
		return decision, period, err
	}
	if existing != nil {
		return decision, period, ErrDuplicateSlot
	}
	return decision, period, nil
}

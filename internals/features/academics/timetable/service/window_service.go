package service

import (
	"time"

	helper "presensiku_backend/internals/helpers"
)

/* =======================================================
   Time-Window Check — sesi hanya boleh dibuka pada
   [start - buffer, end + buffer]. Di luar itu ditolak
   dengan pesan sisa tunggu / sudah lewat.
   ======================================================= */

const (
	WindowReasonTooEarly = "window not open"
	WindowReasonClosed   = "window closed"
)

// WindowDecision: hasil cek jendela waktu untuk satu periode.
type WindowDecision struct {
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason,omitempty"`
	Wait        string `json:"wait,omitempty"`         // mis. "1 jam 5 menit", hanya saat terlalu awal
	WaitMinutes int    `json:"wait_minutes,omitempty"` // sisa menit sampai jendela terbuka
	OpensAt     string `json:"opens_at"`               // "HH:MM"
	ClosesAt    string `json:"closes_at"`              // "HH:MM"
}

type WindowService struct {
	bufferMinutes int
}

func NewWindowService(bufferMinutes int) *WindowService {
	if bufferMinutes < 0 {
		bufferMinutes = 0
	}
	return &WindowService{bufferMinutes: bufferMinutes}
}

// Check menilai apakah `now` jatuh di dalam jendela periode.
// Batas jendela inklusif di kedua sisi.
func (s *WindowService) Check(now time.Time, p Period) WindowDecision {
	nowMin := helper.ClockMinutesOf(now)
	opens := p.StartMinutes - s.bufferMinutes
	closes := p.EndMinutes + s.bufferMinutes

	d := WindowDecision{
		OpensAt:  helper.FormatClock(opens),
		ClosesAt: helper.FormatClock(closes),
	}

	switch {
	case nowMin < opens:
		wait := opens - nowMin
		d.Reason = WindowReasonTooEarly
		d.WaitMinutes = wait
		d.Wait = helper.FormatWait(wait)
	case nowMin > closes:
		d.Reason = WindowReasonClosed
	default:
		d.Allowed = true
	}
	return d
}

// Closest memilih periode yang start-nya paling dekat dengan `now`.
// Kalau `subject` tidak kosong, hanya periode mata pelajaran itu yang
// dipertimbangkan. Nil bila tidak ada kandidat.
func (s *WindowService) Closest(now time.Time, periods []Period, subject string) *Period {
	nowMin := helper.ClockMinutesOf(now)
	var best *Period
	bestDist := 0
	for i := range periods {
		p := &periods[i]
		if subject != "" && p.Subject != subject {
			continue
		}
		dist := p.StartMinutes - nowMin
		if dist < 0 {
			dist = -dist
		}
		if best == nil || dist < bestDist {
			best = p
			bestDist = dist
		}
	}
	return best
}

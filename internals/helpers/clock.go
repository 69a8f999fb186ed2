package helper

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

/* ===============================
   Jam "HH:MM" ↔ menit sejak 00:00
=================================*/

// ParseClock menerima "HH:MM" atau "HH:MM:SS" dan mengembalikan menit sejak tengah malam.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("format jam tidak valid: %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("jam tidak valid: %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("menit tidak valid: %q", s)
	}
	return h*60 + m, nil
}

// FormatClock mengubah menit sejak tengah malam menjadi "HH:MM".
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

// ClockMinutesOf mengambil menit sejak tengah malam dari time.Time (lokal).
func ClockMinutesOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatWait memformat sisa tunggu: jam+menit bila ≥60 menit, selain itu menit saja.
func FormatWait(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes >= 60 {
		h := minutes / 60
		m := minutes % 60
		if m == 0 {
			return fmt.Sprintf("%d jam", h)
		}
		return fmt.Sprintf("%d jam %d menit", h, m)
	}
	return fmt.Sprintf("%d menit", minutes)
}

// DateOnly memotong time.Time ke tanggal (UTC-naive, jam 00:00).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameCalendarDay: true bila dua waktu jatuh di tanggal yang sama.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	helper "presensiku_backend/internals/helpers"
)

/* =======================================================
   Timetable Resolver — memetakan (tanggal, semester,
   department, section) ke daftar periode terjadwal.
   Override per-tanggal MENUTUP penuh jadwal mingguan
   (tidak pernah digabung).
   ======================================================= */

// Period: satu slot terjadwal, sudah dinormalisasi ke menit.
type Period struct {
	Subject      string `json:"subject"`
	StartTime    string `json:"start_time"` // "HH:MM"
	EndTime      string `json:"end_time"`   // "HH:MM"
	StartMinutes int    `json:"-"`
	EndMinutes   int    `json:"-"`
	Ordinal      int    `json:"ordinal"` // posisi 1-based pada grid periode
}

// PeriodReader: akses baca jadwal. Override dicek dulu; kalau ada,
// jadwal mingguan tidak dibaca sama sekali.
type PeriodReader interface {
	ListOverrides(date time.Time, semester int, department, section string) ([]RawPeriod, error)
	ListRecurring(dayOfWeek time.Weekday, semester int, department, section string) ([]RawPeriod, error)
}

// RawPeriod: bentuk mentah dari storage (jam masih string).
type RawPeriod struct {
	Subject   string
	StartTime string
	EndTime   string
}

// Grid periode: dipakai untuk menurunkan ordinal (tidak disimpan di DB).
type Grid struct {
	FirstPeriodStartMinutes int
	PeriodDurationMinutes   int
}

type ResolverService struct {
	repo PeriodReader
	grid Grid
}

func NewResolverService(repo PeriodReader, grid Grid) *ResolverService {
	if grid.PeriodDurationMinutes <= 0 {
		grid.PeriodDurationMinutes = 55
	}
	if grid.FirstPeriodStartMinutes <= 0 {
		grid.FirstPeriodStartMinutes = 9 * 60
	}
	return &ResolverService{repo: repo, grid: grid}
}

// Resolve mengembalikan periode terurut naik berdasarkan start time,
// plus flag apakah hasilnya berasal dari override per-tanggal.
func (s *ResolverService) Resolve(date time.Time, semester int, department, section string) ([]Period, bool, error) {
	if semester <= 0 || strings.TrimSpace(department) == "" || strings.TrimSpace(section) == "" {
		return nil, false, fmt.Errorf("semester/department/section wajib diisi")
	}

	raws, err := s.repo.ListOverrides(date, semester, department, section)
	if err != nil {
		return nil, false, err
	}
	isOverride := len(raws) > 0
	if !isOverride {
		raws, err = s.repo.ListRecurring(date.Weekday(), semester, department, section)
		if err != nil {
			return nil, false, err
		}
	}

	periods := make([]Period, 0, len(raws))
	for _, raw := range raws {
		p, err := s.toPeriod(raw)
		if err != nil {
			// baris jadwal korup: lewati saja, jangan gagalkan seluruh resolve
			continue
		}
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartMinutes < periods[j].StartMinutes })

	return periods, isOverride, nil
}

func (s *ResolverService) toPeriod(raw RawPeriod) (Period, error) {
	start, err := helper.ParseClock(raw.StartTime)
	if err != nil {
		return Period{}, err
	}
	end, err := helper.ParseClock(raw.EndTime)
	if err != nil {
		return Period{}, err
	}
	return Period{
		Subject:      raw.Subject,
		StartTime:    helper.FormatClock(start),
		EndTime:      helper.FormatClock(end),
		StartMinutes: start,
		EndMinutes:   end,
		Ordinal:      s.Ordinal(start),
	}, nil
}

// Ordinal menurunkan posisi 1-based dari grid periode.
// Periode yang tidak pas di grid tetap dapat ordinal best-effort.
func (s *ResolverService) Ordinal(startMinutes int) int {
	ord := (startMinutes-s.grid.FirstPeriodStartMinutes)/s.grid.PeriodDurationMinutes + 1
	if ord < 1 {
		ord = 1
	}
	return ord
}

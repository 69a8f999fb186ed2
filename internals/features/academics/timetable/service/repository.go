package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"presensiku_backend/internals/features/academics/timetable/model"
	helper "presensiku_backend/internals/helpers"
)

/* =======================================================
   GormRepository — implementasi PeriodReader + CRUD admin.
   ======================================================= */

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) ListOverrides(date time.Time, semester int, department, section string) ([]RawPeriod, error) {
	var rows []model.TimetableOverrideModel
	err := r.db.
		Where("timetable_overrides_date = ?", helper.DateOnly(date)).
		Where("timetable_overrides_semester = ?", semester).
		Where("timetable_overrides_department = ?", department).
		Where("timetable_overrides_section = ?", section).
		Order("timetable_overrides_start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]RawPeriod, 0, len(rows))
	for _, row := range rows {
		out = append(out, RawPeriod{
			Subject:   row.TimetableOverrideSubject,
			StartTime: row.TimetableOverrideStartTime,
			EndTime:   row.TimetableOverrideEndTime,
		})
	}
	return out, nil
}

func (r *GormRepository) ListRecurring(dayOfWeek time.Weekday, semester int, department, section string) ([]RawPeriod, error) {
	var rows []model.TimetablePeriodModel
	err := r.db.
		Where("timetable_periods_day_of_week = ?", int(dayOfWeek)).
		Where("timetable_periods_semester = ?", semester).
		Where("timetable_periods_department = ?", department).
		Where("timetable_periods_section = ?", section).
		Order("timetable_periods_start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]RawPeriod, 0, len(rows))
	for _, row := range rows {
		out = append(out, RawPeriod{
			Subject:   row.TimetablePeriodSubject,
			StartTime: row.TimetablePeriodStartTime,
			EndTime:   row.TimetablePeriodEndTime,
		})
	}
	return out, nil
}

/* ===================== CRUD (ADMIN) ===================== */

func (r *GormRepository) CreatePeriod(m *model.TimetablePeriodModel) error {
	return r.db.Create(m).Error
}

func (r *GormRepository) DeletePeriod(id uuid.UUID) error {
	res := r.db.Where("timetable_periods_id = ?", id).Delete(&model.TimetablePeriodModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepository) ListPeriods(semester int, department, section string) ([]model.TimetablePeriodModel, error) {
	var rows []model.TimetablePeriodModel
	err := r.db.
		Where("timetable_periods_semester = ?", semester).
		Where("timetable_periods_department = ?", department).
		Where("timetable_periods_section = ?", section).
		Order("timetable_periods_day_of_week ASC, timetable_periods_start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormRepository) CreateOverride(m *model.TimetableOverrideModel) error {
	m.TimetableOverrideDate = helper.DateOnly(m.TimetableOverrideDate)
	return r.db.Create(m).Error
}

// Override bersifat insert-only: perubahan = hapus lalu buat ulang.
func (r *GormRepository) DeleteOverride(id uuid.UUID) error {
	res := r.db.Where("timetable_overrides_id = ?", id).Delete(&model.TimetableOverrideModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

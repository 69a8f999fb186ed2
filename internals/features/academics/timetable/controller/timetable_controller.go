package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	"presensiku_backend/internals/features/academics/timetable/dto"
	"presensiku_backend/internals/features/academics/timetable/service"
	helper "presensiku_backend/internals/helpers"
)

var validate = validator.New()

type TimetableController struct {
	DB       *gorm.DB
	Repo     *service.GormRepository
	Resolver *service.ResolverService
	Window   *service.WindowService
}

func NewTimetableController(db *gorm.DB) *TimetableController {
	repo := service.NewGormRepository(db)
	return &TimetableController{
		DB:   db,
		Repo: repo,
		Resolver: service.NewResolverService(repo, service.Grid{
			FirstPeriodStartMinutes: configs.FirstPeriodStartMinutes,
			PeriodDurationMinutes:   configs.PeriodDurationMinutes,
		}),
		Window: service.NewWindowService(configs.SessionWindowBufferMinutes),
	}
}

/* ===================== RESOLVE ===================== */
// GET /timetable/resolve?date=&semester=&department=&section=
// Dipakai UI guru untuk menampilkan periode hari itu.
func (ctrl *TimetableController) Resolve(c *fiber.Ctx) error {
	date := time.Now()
	if q := c.Query("date"); q != "" {
		var err error
		date, err = time.Parse("2006-01-02", q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date tidak valid (YYYY-MM-DD)")
		}
	}

	periods, isOverride, err := ctrl.Resolver.Resolve(date, c.QueryInt("semester"), c.Query("department"), c.Query("section"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"date":             date.Format("2006-01-02"),
		"is_date_override": isOverride,
		"periods":          periods,
	})
}

/* ===================== WINDOW CHECK ===================== */
// GET /timetable/window?date=&semester=&department=&section=&subject=[&at=HH:MM]
// Memilih periode subject yang paling dekat dengan jam sekarang, lalu menilai
// apakah sesi boleh dibuka. `at` hanya untuk debugging/QA.
func (ctrl *TimetableController) WindowCheck(c *fiber.Ctx) error {
	now := time.Now()
	if q := c.Query("date"); q != "" {
		d, err := time.Parse("2006-01-02", q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date tidak valid (YYYY-MM-DD)")
		}
		now = time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
	}
	if q := c.Query("at"); q != "" {
		min, err := helper.ParseClock(q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "at tidak valid (HH:MM)")
		}
		now = time.Date(now.Year(), now.Month(), now.Day(), min/60, min%60, 0, 0, now.Location())
	}

	subject := c.Query("subject")
	if subject == "" {
		return fiber.NewError(fiber.StatusBadRequest, "subject wajib diisi")
	}

	periods, isOverride, err := ctrl.Resolver.Resolve(now, c.QueryInt("semester"), c.Query("department"), c.Query("section"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	period := ctrl.Window.Closest(now, periods, subject)
	if period == nil {
		return fiber.NewError(fiber.StatusNotFound, "Tidak ada periode "+subject+" pada tanggal ini")
	}

	decision := ctrl.Window.Check(now, *period)
	return helper.JsonOK(c, "ok", fiber.Map{
		"is_date_override": isOverride,
		"period":           period,
		"window":           decision,
	})
}

/* ===================== CRUD PERIODE (ADMIN) ===================== */

// POST /admin/timetable/periods
func (ctrl *TimetableController) CreatePeriod(c *fiber.Ctx) error {
	var req dto.CreatePeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := validateClockPair(req.StartTime, req.EndTime); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	m := req.ToModel()
	if err := ctrl.Repo.CreatePeriod(&m); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan periode")
	}
	return helper.JsonCreated(c, "Periode berhasil dibuat", dto.NewPeriodResponse(m))
}

// GET /admin/timetable/periods?semester=&department=&section=
func (ctrl *TimetableController) ListPeriods(c *fiber.Ctx) error {
	list, err := ctrl.Repo.ListPeriods(c.QueryInt("semester"), c.Query("department"), c.Query("section"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil jadwal")
	}
	return helper.JsonOK(c, "ok", dto.NewPeriodResponses(list))
}

// DELETE /admin/timetable/periods/:id
func (ctrl *TimetableController) DeletePeriod(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := ctrl.Repo.DeletePeriod(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Periode tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus periode")
	}
	return helper.JsonDeleted(c, "Periode dihapus", fiber.Map{"timetable_periods_id": id})
}

/* ===================== OVERRIDE (ADMIN, insert-only) ===================== */

// POST /admin/timetable/overrides
func (ctrl *TimetableController) CreateOverride(c *fiber.Ctx) error {
	var req dto.CreateOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date tidak valid (YYYY-MM-DD)")
	}
	if err := validateClockPair(req.StartTime, req.EndTime); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	m := req.ToModel(date)
	if err := ctrl.Repo.CreateOverride(&m); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan override")
	}
	return helper.JsonCreated(c, "Override berhasil dibuat", m)
}

// DELETE /admin/timetable/overrides/:id
func (ctrl *TimetableController) DeleteOverride(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	if err := ctrl.Repo.DeleteOverride(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Override tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghapus override")
	}
	return helper.JsonDeleted(c, "Override dihapus", fiber.Map{"timetable_overrides_id": id})
}

func validateClockPair(start, end string) error {
	s, err := helper.ParseClock(start)
	if err != nil {
		return err
	}
	e, err := helper.ParseClock(end)
	if err != nil {
		return err
	}
	if e <= s {
		return fiber.NewError(fiber.StatusBadRequest, "end_time harus setelah start_time")
	}
	return nil
}

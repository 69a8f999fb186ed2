package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	enrollService "presensiku_backend/internals/features/academics/enrollments/service"
	timetableService "presensiku_backend/internals/features/academics/timetable/service"
	"presensiku_backend/internals/features/attendance/sessions/dto"
	"presensiku_backend/internals/features/attendance/sessions/service"
	helper "presensiku_backend/internals/helpers"
)

var validate = validator.New()

// Registry draft dibagi antar instance controller dalam satu proses.
var lifecycle = service.SharedLifecycle()

type SessionController struct {
	DB         *gorm.DB
	Repo       *service.GormRepository
	Submission *service.SubmissionService
	Correction *service.CorrectionService
	Gate       *enrollService.GateService
	Guard      *service.CaptureGuard
}

func NewSessionController(db *gorm.DB, pipeline service.PipelineEnqueuer) *SessionController {
	repo := service.NewGormRepository(db)
	resolver := timetableService.NewResolverService(timetableService.NewGormRepository(db), timetableService.Grid{
		FirstPeriodStartMinutes: configs.FirstPeriodStartMinutes,
		PeriodDurationMinutes:   configs.PeriodDurationMinutes,
	})
	guard := service.NewCaptureGuard(resolver,
		timetableService.NewWindowService(configs.SessionWindowBufferMinutes),
		repo, configs.SessionDuplicateSlotMinutes)
	return &SessionController{
		DB:         db,
		Repo:       repo,
		Submission: service.NewSubmissionService(repo, pipeline, configs.SessionDuplicateSlotMinutes, guard),
		Correction: service.NewCorrectionService(repo),
		Gate:       enrollService.NewGateService(enrollService.NewGormRepository(db)),
		Guard:      guard,
	}
}

/* ===================== LIFECYCLE ===================== */

// POST /sessions/draft — buka draft baru (tahap filter).
// Gate otorisasi dicek di sini: guru yang tidak ditugaskan tidak bisa mulai.
func (ctrl *SessionController) BeginDraft(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.BeginDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	decision, err := ctrl.Gate.Authorize(teacherID, req.Semester, req.Department, req.Section, req.Subject, time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !decision.Allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success":  false,
			"message":  "Tidak berwenang untuk kombinasi ini",
			"decision": decision,
		})
	}

	d := lifecycle.Begin(teacherID, req.Semester, req.Department, req.Section, req.Subject)
	return helper.JsonCreated(c, "Draft sesi dibuka", d)
}

// PATCH /sessions/draft/advance — maju satu tahap.
// filter→capture hanya lolos kalau jendela waktu periode terbuka dan slot
// belum terpakai; capture→review menuntut pengenalan wajah yang sukses.
func (ctrl *SessionController) AdvanceDraft(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.AdvanceDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if service.Stage(req.Stage) == service.StageCapture {
		d := lifecycle.Current(teacherID)
		if d == nil {
			return fiber.NewError(fiber.StatusNotFound, "Tidak ada draft aktif")
		}
		decision, _, err := ctrl.Guard.Check(teacherID, d.Semester, d.Department, d.Section, d.Subject, time.Now())
		switch err {
		case nil:
			// lolos
		case service.ErrNoScheduledPeriod:
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		case service.ErrWindowClosed:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":  false,
				"message":  "Di luar jendela waktu sesi",
				"decision": decision,
			})
		case service.ErrDuplicateSlot:
			return fiber.NewError(fiber.StatusConflict, err.Error())
		default:
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	d, err := lifecycle.Advance(teacherID, service.Stage(req.Stage))
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return helper.JsonUpdated(c, "Draft maju ke "+req.Stage, d)
}

// DELETE /sessions/draft — batalkan draft aktif.
func (ctrl *SessionController) CancelDraft(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if err := lifecycle.Cancel(teacherID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return helper.JsonDeleted(c, "Draft dibatalkan", nil)
}

// GET /sessions/draft — draft aktif guru (nil kalau tidak ada).
func (ctrl *SessionController) CurrentDraft(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", lifecycle.Current(teacherID))
}

/* ===================== SUBMIT ===================== */

// POST /sessions — simpan sesi + seluruh record secara atomik.
func (ctrl *SessionController) Submit(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.SubmitSessionRequest
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

	decision, err := ctrl.Gate.Authorize(teacherID, req.Semester, req.Department, req.Section, req.Subject, date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !decision.Allowed {
		return fiber.NewError(fiber.StatusForbidden, "Tidak berwenang untuk kombinasi ini")
	}

	result, err := ctrl.Submission.Submit(service.SubmissionInput{
		TeacherID:     teacherID,
		Semester:      req.Semester,
		Department:    req.Department,
		Section:       req.Section,
		Subject:       req.Subject,
		Date:          date,
		StartTime:     req.StartTime,
		PeriodOrdinal: req.PeriodOrdinal,
		SubmittedAt:   time.Now(),
		Recognized:    req.Recognized,
		ManualPresent: req.ManualPresent,
	})
	if err != nil {
		switch err {
		case service.ErrDuplicateSlot:
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case service.ErrWindowClosed, service.ErrNoScheduledPeriod:
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		default:
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	// tutup draft kalau masih terbuka; gagal di sini bukan masalah
	_, _ = lifecycle.Advance(teacherID, service.StageSubmitted)

	return helper.JsonCreated(c, "Sesi presensi tersimpan", result)
}

/* ===================== KOREKSI ===================== */

// PATCH /sessions/records/:id — koreksi status (hanya di hari yang sama).
func (ctrl *SessionController) CorrectRecord(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req dto.CorrectRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := ctrl.Correction.Correct(teacherID, recordID, req.Status, req.Reason, time.Now()); err != nil {
		switch err {
		case service.ErrCorrectionWindowClosed:
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		case gorm.ErrRecordNotFound:
			return fiber.NewError(fiber.StatusNotFound, "Record tidak ditemukan")
		default:
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	return helper.JsonUpdated(c, "Record dikoreksi", fiber.Map{"attendance_records_id": recordID})
}

/* ===================== QUERY ===================== */

// GET /sessions?date=YYYY-MM-DD
func (ctrl *SessionController) ListMine(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	date := time.Now()
	if q := c.Query("date"); q != "" {
		date, err = time.Parse("2006-01-02", q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date tidak valid (YYYY-MM-DD)")
		}
	}

	sessions, err := ctrl.Repo.ListByTeacherAndDate(teacherID, date)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}
	return helper.JsonOK(c, "ok", dto.NewSessionResponses(sessions))
}

// GET /sessions/:id — detail sesi + seluruh record.
func (ctrl *SessionController) GetSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	session, err := ctrl.Repo.GetSessionWithRecords(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}
	return helper.JsonOK(c, "ok", session)
}

// GET /sessions/students/:student_id/history?semester=&subject=
func (ctrl *SessionController) StudentHistory(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Student ID tidak valid")
	}
	entries, err := ctrl.Repo.StudentHistory(studentID, c.QueryInt("semester"), c.Query("subject"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil riwayat")
	}
	return helper.JsonOK(c, "ok", entries)
}

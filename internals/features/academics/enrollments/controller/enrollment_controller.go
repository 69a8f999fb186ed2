package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"presensiku_backend/internals/features/academics/enrollments/dto"
	"presensiku_backend/internals/features/academics/enrollments/service"
	helper "presensiku_backend/internals/helpers"
)

var validate = validator.New()

type EnrollmentController struct {
	DB         *gorm.DB
	Assignment *service.AssignmentService
	Gate       *service.GateService
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	repo := service.NewGormRepository(db)
	return &EnrollmentController{
		DB:         db,
		Assignment: service.NewAssignmentService(repo),
		Gate:       service.NewGateService(repo),
	}
}

/* ===================== ASSIGN (ADMIN) ===================== */
// POST /admin/enrollments/teacher
func (ctrl *EnrollmentController) AssignTeacher(c *fiber.Ctx) error {
	var req dto.AssignTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	enrollmentDate, err := time.Parse("2006-01-02", req.EnrollmentDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "enrollment_date tidak valid")
	}

	combos := make([]service.Combination, 0, len(req.Combinations))
	for _, cr := range req.Combinations {
		combos = append(combos, cr.ToCombination())
	}

	created, report, err := ctrl.Assignment.AssignTeacher(req.TeacherID, combos, enrollmentDate, req.Force)
	if err != nil {
		if !report.Clean() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":    false,
				"message":    err.Error(),
				"duplicates": report.Duplicates,
				"conflicts":  report.Conflicts,
			})
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Penugasan berhasil dibuat", fiber.Map{
		"enrollments": dto.NewEnrollmentResponses(created),
		"conflicts":   report.Conflicts, // bisa terisi saat force=true (co-teaching)
	})
}

/* ===================== CHECK CONFLICTS (ADMIN) ===================== */
// POST /admin/enrollments/teacher/check
func (ctrl *EnrollmentController) CheckConflicts(c *fiber.Ctx) error {
	var req dto.AssignTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	enrollmentDate, err := time.Parse("2006-01-02", req.EnrollmentDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "enrollment_date tidak valid")
	}

	combos := make([]service.Combination, 0, len(req.Combinations))
	for _, cr := range req.Combinations {
		combos = append(combos, cr.ToCombination())
	}

	report, err := ctrl.Assignment.CheckAssignmentConflicts(req.TeacherID, combos, enrollmentDate)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", report)
}

/* ===================== ENROLL STUDENT (ADMIN) ===================== */
// POST /admin/enrollments/student
func (ctrl *EnrollmentController) EnrollStudent(c *fiber.Ctx) error {
	var req dto.EnrollStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	enrollmentDate, err := time.Parse("2006-01-02", req.EnrollmentDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "enrollment_date tidak valid")
	}

	m, err := ctrl.Assignment.EnrollStudent(req.StudentID, req.Combination.ToCombination(), enrollmentDate)
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return helper.JsonCreated(c, "Pendaftaran siswa berhasil dibuat", dto.NewEnrollmentResponse(*m))
}

/* ===================== COMPLETE (ADMIN) ===================== */
// PATCH /admin/enrollments/:id/complete
func (ctrl *EnrollmentController) Complete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var req dto.CompleteEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	completion, err := time.Parse("2006-01-02", req.CompletionDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "completion_date tidak valid")
	}

	if err := ctrl.Assignment.CompleteEnrollment(id, completion); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Interval tidak ditemukan atau sudah selesai")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Interval ditandai selesai", fiber.Map{"enrollments_id": id})
}

/* ===================== LIST BY OWNER ===================== */
// GET /enrollments/owner/:owner_id
func (ctrl *EnrollmentController) ListByOwner(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("owner_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Owner ID tidak valid")
	}
	repo := service.NewGormRepository(ctrl.DB)
	list, err := repo.ListByOwner(ownerID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data penugasan")
	}
	return helper.JsonOK(c, "ok", dto.NewEnrollmentResponses(list))
}

/* ===================== AUTHORIZE (TEACHER) ===================== */
// GET /enrollments/authorize?semester=&department=&section=&subject=&as_of=
// Dipanggil UI setiap filter berubah (debounce di sisi klien).
func (ctrl *EnrollmentController) Authorize(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	semester := c.QueryInt("semester")
	department := c.Query("department")
	section := c.Query("section")
	subject := c.Query("subject")

	asOf := time.Time{}
	if q := c.Query("as_of"); q != "" {
		asOf, err = time.Parse("2006-01-02", q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "as_of tidak valid (YYYY-MM-DD)")
		}
	}

	decision, err := ctrl.Gate.Authorize(teacherID, semester, department, section, subject, asOf)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return helper.JsonOK(c, "ok", decision)
}

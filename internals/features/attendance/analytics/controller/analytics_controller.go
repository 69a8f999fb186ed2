package controller

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"presensiku_backend/internals/features/attendance/analytics/service"
	helper "presensiku_backend/internals/helpers"
)

var validate = validator.New()

type AnalyticsController struct {
	DB         *gorm.DB
	Repo       *service.GormRepository
	Dispatcher *service.Dispatcher
}

func NewAnalyticsController(db *gorm.DB, dispatcher *service.Dispatcher) *AnalyticsController {
	return &AnalyticsController{
		DB:         db,
		Repo:       service.NewGormRepository(db),
		Dispatcher: dispatcher,
	}
}

type runRequest struct {
	Semester   int    `json:"semester" validate:"required,min=1,max=14"`
	Department string `json:"department" validate:"required"`
	Section    string `json:"section" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
	Sync       bool   `json:"sync"` // true = tunggu hasil (untuk QA/ops)
}

// POST /admin/analytics/run — re-run manual pipeline.
// Default dilempar ke antrian; sync=true menjalankan inline dan menunggu.
func (ctrl *AnalyticsController) Run(c *fiber.Ctx) error {
	var req runRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.Sync {
		result, err := ctrl.Dispatcher.RunNow(context.Background(), req.Semester, req.Department, req.Section, req.Subject)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return helper.JsonOK(c, "Pipeline selesai", result)
	}

	ctrl.Dispatcher.Enqueue(req.Semester, req.Department, req.Section, req.Subject)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Pipeline dijadwalkan",
	})
}

// GET /analytics/standings?semester=&subject=&student_id=
func (ctrl *AnalyticsController) ListStandings(c *fiber.Ctx) error {
	studentID := uuid.Nil
	if q := c.Query("student_id"); q != "" {
		var err error
		studentID, err = uuid.Parse(q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "student_id tidak valid")
		}
	}

	list, err := ctrl.Repo.ListStandings(c.QueryInt("semester"), c.Query("subject"), studentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil standing")
	}
	return helper.JsonOK(c, "ok", list)
}

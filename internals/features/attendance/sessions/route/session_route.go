package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessionCtrl "presensiku_backend/internals/features/attendance/sessions/controller"
	sessionService "presensiku_backend/internals/features/attendance/sessions/service"
	"presensiku_backend/internals/middlewares"
)

// SessionTeacherRoutes: lifecycle draft, submit, koreksi, query sesi.
// Pipeline analitik disuntik dari route index supaya satu worker dipakai
// seluruh proses.
func SessionTeacherRoutes(r fiber.Router, db *gorm.DB, pipeline sessionService.PipelineEnqueuer) {
	ctrl := sessionCtrl.NewSessionController(db, pipeline)

	g := r.Group("/sessions")
	g.Post("/draft", ctrl.BeginDraft)
	g.Patch("/draft/advance", ctrl.AdvanceDraft)
	g.Delete("/draft", ctrl.CancelDraft)
	g.Get("/draft", ctrl.CurrentDraft)

	g.Post("/", middlewares.SubmitRateLimiter(), ctrl.Submit)
	g.Patch("/records/:id", ctrl.CorrectRecord)

	g.Get("/", ctrl.ListMine)
	g.Get("/students/:student_id/history", ctrl.StudentHistory)
	g.Get("/:id", ctrl.GetSession)
}

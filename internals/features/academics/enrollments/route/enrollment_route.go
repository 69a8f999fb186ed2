package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollCtrl "presensiku_backend/internals/features/academics/enrollments/controller"
)

// EnrollmentAdminRoutes: CRUD penugasan (khusus admin).
func EnrollmentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := enrollCtrl.NewEnrollmentController(db)

	g := r.Group("/enrollments")
	g.Post("/teacher", ctrl.AssignTeacher)
	g.Post("/teacher/check", ctrl.CheckConflicts)
	g.Post("/student", ctrl.EnrollStudent)
	g.Patch("/:id/complete", ctrl.Complete)
	g.Get("/owner/:owner_id", ctrl.ListByOwner)
}

// EnrollmentTeacherRoutes: gate otorisasi untuk guru.
func EnrollmentTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := enrollCtrl.NewEnrollmentController(db)

	g := r.Group("/enrollments")
	g.Get("/authorize", ctrl.Authorize)
}

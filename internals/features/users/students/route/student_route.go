package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentCtrl "presensiku_backend/internals/features/users/students/controller"
)

// StudentAdminRoutes: registrasi siswa + embedding wajah.
func StudentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := studentCtrl.NewStudentController(db)

	g := r.Group("/students")
	g.Post("/", ctrl.Register)
	g.Patch("/:id/face", ctrl.ReRegisterFace)
}

// StudentTeacherRoutes: baca data siswa.
func StudentTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := studentCtrl.NewStudentController(db)

	g := r.Group("/students")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Get)
}

package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	timetableCtrl "presensiku_backend/internals/features/academics/timetable/controller"
)

// TimetableAdminRoutes: kelola jadwal mingguan + override per-tanggal.
func TimetableAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := timetableCtrl.NewTimetableController(db)

	g := r.Group("/timetable")
	g.Post("/periods", ctrl.CreatePeriod)
	g.Get("/periods", ctrl.ListPeriods)
	g.Delete("/periods/:id", ctrl.DeletePeriod)
	g.Post("/overrides", ctrl.CreateOverride)
	g.Delete("/overrides/:id", ctrl.DeleteOverride)
}

// TimetableTeacherRoutes: resolve jadwal + cek jendela waktu.
func TimetableTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := timetableCtrl.NewTimetableController(db)

	g := r.Group("/timetable")
	g.Get("/resolve", ctrl.Resolve)
	g.Get("/window", ctrl.WindowCheck)
}

package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	analyticsCtrl "presensiku_backend/internals/features/attendance/analytics/controller"
	analyticsService "presensiku_backend/internals/features/attendance/analytics/service"
)

// AnalyticsAdminRoutes: re-run manual pipeline.
func AnalyticsAdminRoutes(r fiber.Router, db *gorm.DB, dispatcher *analyticsService.Dispatcher) {
	ctrl := analyticsCtrl.NewAnalyticsController(db, dispatcher)

	g := r.Group("/analytics")
	g.Post("/run", ctrl.Run)
}

// AnalyticsTeacherRoutes: baca standing hasil pipeline.
func AnalyticsTeacherRoutes(r fiber.Router, db *gorm.DB, dispatcher *analyticsService.Dispatcher) {
	ctrl := analyticsCtrl.NewAnalyticsController(db, dispatcher)

	g := r.Group("/analytics")
	g.Get("/standings", ctrl.ListStandings)
}

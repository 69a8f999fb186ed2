package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollRoute "presensiku_backend/internals/features/academics/enrollments/route"
	timetableRoute "presensiku_backend/internals/features/academics/timetable/route"
	analyticsRoute "presensiku_backend/internals/features/attendance/analytics/route"
	analyticsService "presensiku_backend/internals/features/attendance/analytics/service"
	studentRoute "presensiku_backend/internals/features/users/students/route"
)

// AdminRoutes: kelola penugasan, jadwal, siswa, dan re-run pipeline.
func AdminRoutes(r fiber.Router, db *gorm.DB, dispatcher *analyticsService.Dispatcher) {
	enrollRoute.EnrollmentAdminRoutes(r, db)
	timetableRoute.TimetableAdminRoutes(r, db)
	studentRoute.StudentAdminRoutes(r, db)
	analyticsRoute.AnalyticsAdminRoutes(r, db, dispatcher)
}

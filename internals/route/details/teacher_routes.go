package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	enrollRoute "presensiku_backend/internals/features/academics/enrollments/route"
	timetableRoute "presensiku_backend/internals/features/academics/timetable/route"
	analyticsRoute "presensiku_backend/internals/features/attendance/analytics/route"
	analyticsService "presensiku_backend/internals/features/attendance/analytics/service"
	recognitionRoute "presensiku_backend/internals/features/attendance/recognition/route"
	sessionRoute "presensiku_backend/internals/features/attendance/sessions/route"
	studentRoute "presensiku_backend/internals/features/users/students/route"
)

// TeacherRoutes: alur presensi lengkap — gate, jadwal, capture, submit,
// riwayat, dan standing analitik.
func TeacherRoutes(r fiber.Router, db *gorm.DB, dispatcher *analyticsService.Dispatcher) {
	enrollRoute.EnrollmentTeacherRoutes(r, db)
	timetableRoute.TimetableTeacherRoutes(r, db)
	sessionRoute.SessionTeacherRoutes(r, db, dispatcher)
	recognitionRoute.RecognitionTeacherRoutes(r, db)
	studentRoute.StudentTeacherRoutes(r, db)
	analyticsRoute.AnalyticsTeacherRoutes(r, db, dispatcher)
}

package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	analyticsService "presensiku_backend/internals/features/attendance/analytics/service"
	userModel "presensiku_backend/internals/features/users/user/model"
	authMw "presensiku_backend/internals/middlewares/auth"
	routeDetails "presensiku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, dispatcher *analyticsService.Dispatcher) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	// ===================== TEACHER (/api/u) =====================
	log.Println("[INFO] Setting up TEACHER group...")
	teacher := app.Group("/api/u",
		authMw.AuthMiddleware(),
		authMw.RequireRoles(userModel.RoleTeacher, userModel.RoleAdmin),
	)
	routeDetails.TeacherRoutes(teacher, db, dispatcher)

	// ===================== ADMIN (/api/a) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		authMw.AuthMiddleware(),
		authMw.RequireRoles(userModel.RoleAdmin),
	)
	routeDetails.AdminRoutes(admin, db, dispatcher)
}

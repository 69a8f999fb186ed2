package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authCtrl "presensiku_backend/internals/features/users/auth/controller"
	"presensiku_backend/internals/middlewares"
	authMw "presensiku_backend/internals/middlewares/auth"
)

// AuthRoutes: endpoint publik + endpoint ber-token.
func AuthRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := authCtrl.NewAuthController(db)

	g := r.Group("/auth")
	g.Post("/register", middlewares.LoginRateLimiter(), ctrl.Register)
	g.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	g.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	g.Post("/refresh-token", ctrl.RefreshToken)

	protected := g.Group("", authMw.AuthMiddleware())
	protected.Post("/logout", ctrl.Logout)
	protected.Get("/me", ctrl.Me)
}

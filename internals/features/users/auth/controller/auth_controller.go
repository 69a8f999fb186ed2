package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authService "presensiku_backend/internals/features/users/auth/service"
	helper "presensiku_backend/internals/helpers"
)

var validate = validator.New()

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// POST /auth/register
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var input authService.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(input); err != nil {
		return helper.ValidationError(c, err)
	}
	return authService.Register(ctrl.DB, c, input)
}

// POST /auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var input authService.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(input); err != nil {
		return helper.ValidationError(c, err)
	}
	return authService.Login(ctrl.DB, c, input)
}

// POST /auth/login-google
func (ctrl *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var input struct {
		IDToken string `json:"id_token" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(input); err != nil {
		return helper.ValidationError(c, err)
	}
	return authService.LoginGoogle(ctrl.DB, c, input.IDToken)
}

// POST /auth/refresh-token
func (ctrl *AuthController) RefreshToken(c *fiber.Ctx) error {
	return authService.RefreshToken(ctrl.DB, c)
}

// POST /auth/logout
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	return authService.Logout(ctrl.DB, c)
}

// GET /auth/me — identitas dari klaim token.
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"users_id":   userID,
		"users_name": c.Locals("user_name"),
		"users_role": c.Locals("role"),
	})
}

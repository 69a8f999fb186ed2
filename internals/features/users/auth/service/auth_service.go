package service

import (
	"crypto/sha256"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	authModel "presensiku_backend/internals/features/users/auth/model"
	userModel "presensiku_backend/internals/features/users/user/model"
	helpers "presensiku_backend/internals/helpers"
)

const (
	accessTTL  = 2 * time.Hour
	refreshTTL = 7 * 24 * time.Hour
	bcryptCost = 12
)

/* ==========================
   REGISTER
========================== */

type RegisterInput struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin teacher"`
}

func Register(db *gorm.DB, c *fiber.Ctx, input RegisterInput) error {
	role := input.Role
	if role == "" {
		role = userModel.RoleTeacher
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	user := userModel.UserModel{
		UserName:     input.UserName,
		UserEmail:    strings.ToLower(strings.TrimSpace(input.Email)),
		UserPassword: string(hashed),
		UserRole:     role,
		UserIsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
			return helpers.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
		}
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat akun")
	}

	return helpers.JsonCreated(c, "Akun berhasil dibuat", fiber.Map{
		"users_id":   user.UserID,
		"users_name": user.UserName,
		"users_role": user.UserRole,
	})
}

/* ==========================
   LOGIN
========================== */

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(db *gorm.DB, c *fiber.Ctx, input LoginInput) error {
	var user userModel.UserModel
	err := db.Where("users_email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error
	if err != nil {
		// pesan sama untuk email tak dikenal dan password salah
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(input.Password)) != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if !user.UserIsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun dinonaktifkan. Hubungi admin.")
	}

	return issueTokens(db, c, user)
}

/* ==========================
   LOGIN GOOGLE
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx, idToken string) error {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{configs.GoogleClientID}); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Google ID token tidak valid")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membaca ID token")
	}
	email, name, googleID := claimSet.Email, claimSet.Name, claimSet.Sub

	var user userModel.UserModel
	err = db.Where("users_google_id = ?", googleID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		// akun Google baru: role default teacher, tanpa password
		user = userModel.UserModel{
			UserName:     name,
			UserEmail:    strings.ToLower(email),
			UserGoogleID: &googleID,
			UserRole:     userModel.RoleTeacher,
			UserIsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			low := strings.ToLower(err.Error())
			if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
				return helpers.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar dengan metode lain")
			}
			return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat akun Google")
		}
	} else if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	if !user.UserIsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun dinonaktifkan. Hubungi admin.")
	}
	return issueTokens(db, c, user)
}

/* ==========================
   REFRESH TOKEN
========================== */

func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	refreshCookie := strings.TrimSpace(c.Cookies("refresh_token"))
	if refreshCookie == "" {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ada")
	}

	tok, err := jwt.Parse(refreshCookie, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	// hash harus dikenal & masih aktif
	hash := hashToken(refreshCookie)
	var rt authModel.RefreshTokenModel
	err = db.Where("token_hash = ? AND revoked_at IS NULL AND expires_at > NOW()", hash).First(&rt).Error
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak dikenal")
	}

	var user userModel.UserModel
	if err := db.Where("users_id = ?", userID).First(&user).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if !user.UserIsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	// ROTATE: revoke token lama sebelum terbit yang baru
	db.Model(&authModel.RefreshTokenModel{}).
		Where("id = ?", rt.ID).
		Update("revoked_at", time.Now().UTC())

	return issueTokens(db, c, user)
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	// blacklist access token yang masih berlaku
	authHeader := c.Get("Authorization")
	accessToken := ""
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 {
		accessToken = strings.TrimSpace(parts[1])
	}
	if accessToken == "" {
		accessToken = c.Cookies("access_token")
	}
	if accessToken != "" {
		bl := authModel.TokenBlacklist{Token: accessToken, ExpiredAt: time.Now().Add(accessTTL)}
		if err := db.Create(&bl).Error; err != nil {
			log.Printf("⚠️ gagal blacklist token: %v", err)
		}
	}

	// revoke refresh token aktif
	if refreshCookie := strings.TrimSpace(c.Cookies("refresh_token")); refreshCookie != "" {
		db.Model(&authModel.RefreshTokenModel{}).
			Where("token_hash = ? AND revoked_at IS NULL", hashToken(refreshCookie)).
			Update("revoked_at", time.Now().UTC())
	}

	clearAuthCookies(c)
	return helpers.JsonOK(c, "Logout berhasil", nil)
}

/* ==========================
   TOKEN ISSUANCE
========================== */

func issueTokens(db *gorm.DB, c *fiber.Ctx, user userModel.UserModel) error {
	now := time.Now().UTC()

	accessClaims := jwt.MapClaims{
		"user_id":   user.UserID.String(),
		"user_name": user.UserName,
		"role":      user.UserRole,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat access token")
	}

	refreshClaims := jwt.MapClaims{
		"sub": user.UserID.String(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTL).Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat refresh token")
	}

	rt := authModel.RefreshTokenModel{
		UserID:    user.UserID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: now.Add(refreshTTL),
		UserAgent: strptr(c.Get("User-Agent")),
		IP:        strptr(c.IP()),
	}
	if err := db.Create(&rt).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan refresh token")
	}

	setAuthCookies(c, accessToken, refreshToken, now)
	return helpers.JsonOK(c, "Login berhasil", fiber.Map{
		"access_token": accessToken,
		"user": fiber.Map{
			"users_id":   user.UserID,
			"users_name": user.UserName,
			"users_role": user.UserRole,
		},
	})
}

func hashToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(accessTTL),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(refreshTTL),
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   true,
			SameSite: "None",
			Path:     "/",
			Expires:  expired,
		})
	}
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// UserModel: akun login (admin / guru). Map ke tabel users.
type UserModel struct {
	UserID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:users_id" json:"users_id"`

	UserName  string `gorm:"type:text;not null;column:users_name" json:"users_name"`
	UserEmail string `gorm:"type:text;not null;unique;column:users_email" json:"users_email"`

	// Kosong untuk akun Google-only
	UserPassword string `gorm:"type:text;column:users_password" json:"-"`

	UserGoogleID *string `gorm:"type:text;column:users_google_id" json:"-"`

	UserRole     string `gorm:"type:text;not null;default:teacher;column:users_role" json:"users_role"`
	UserIsActive bool   `gorm:"not null;default:true;column:users_is_active" json:"users_is_active"`

	UserCreatedAt time.Time      `gorm:"column:users_created_at;autoCreateTime" json:"users_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:users_updated_at;autoUpdateTime" json:"users_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:users_deleted_at;index" json:"users_deleted_at,omitempty"`
}

func (UserModel) TableName() string { return "users" }

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleSuperAdmin = "super_admin"

	DefaultAdminFullName = "Admin User"
)

// AdminUser is a row of the allow-list table. Valid identity-service
// credentials are not enough to reach the back-office: the matching row must
// also be active.
type AdminUser struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	AuthUserID *string   `json:"auth_user_id,omitempty" gorm:"type:uuid;uniqueIndex"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role" gorm:"not null"`
	IsActive   bool      `json:"is_active" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

func (u *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *AdminUser) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"email":      u.Email,
		"full_name":  u.FullName,
		"role":       u.Role,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt,
	}
}

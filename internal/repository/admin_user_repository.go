package repository

import (
	"context"
	"strings"

	"mannadome_backend/internal/model"

	"gorm.io/gorm"
)

// AdminUserRepo reads and writes the admin allow-list.
type AdminUserRepo struct {
	DB *gorm.DB
}

func NewAdminUserRepo(db *gorm.DB) *AdminUserRepo {
	return &AdminUserRepo{DB: db}
}

// WithTx returns a copy bound to tx.
func (r *AdminUserRepo) WithTx(tx *gorm.DB) *AdminUserRepo {
	return &AdminUserRepo{DB: tx}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *AdminUserRepo) FindByAuthUserID(ctx context.Context, authUserID string) (*model.AdminUser, error) {
	var u model.AdminUser
	if err := r.DB.WithContext(ctx).First(&u, "auth_user_id = ?", authUserID).Error; err != nil {
		return nil, dbError("find admin user", err)
	}
	return &u, nil
}

func (r *AdminUserRepo) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var u model.AdminUser
	if err := r.DB.WithContext(ctx).First(&u, "email = ?", NormalizeEmail(email)).Error; err != nil {
		return nil, dbError("find admin user", err)
	}
	return &u, nil
}

func (r *AdminUserRepo) Create(ctx context.Context, u *model.AdminUser) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" {
		return invalid("email", "email is required")
	}
	if u.Role == "" {
		u.Role = model.RoleSuperAdmin
	}
	if strings.TrimSpace(u.FullName) == "" {
		u.FullName = model.DefaultAdminFullName
	}
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return dbError("create admin user", err)
	}
	return nil
}

// LinkAuthUser records the identity id on an allow-list row found by email.
func (r *AdminUserRepo) LinkAuthUser(ctx context.Context, adminID, authUserID string) error {
	res := r.DB.WithContext(ctx).Model(&model.AdminUser{}).Where("id = ?", adminID).Update("auth_user_id", authUserID)
	if res.Error != nil {
		return dbError("link admin user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive toggles the login gate for an admin by email.
func (r *AdminUserRepo) SetActive(ctx context.Context, email string, active bool) error {
	res := r.DB.WithContext(ctx).Model(&model.AdminUser{}).Where("email = ?", NormalizeEmail(email)).Update("is_active", active)
	if res.Error != nil {
		return dbError("set admin active", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

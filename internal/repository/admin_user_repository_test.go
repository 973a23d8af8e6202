package repository

import (
	"context"
	"testing"

	"mannadome_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUserLookup(t *testing.T) {
	r := NewAdminUserRepo(newTestDB(t))
	ctx := context.Background()

	u := &model.AdminUser{Email: "  Admin@Mannadome.com ", IsActive: true}
	require.NoError(t, r.Create(ctx, u))
	assert.Equal(t, "admin@mannadome.com", u.Email)
	assert.Equal(t, model.RoleSuperAdmin, u.Role)
	assert.Equal(t, model.DefaultAdminFullName, u.FullName)

	found, err := r.FindByEmail(ctx, "ADMIN@mannadome.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = r.FindByAuthUserID(ctx, "identity-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.LinkAuthUser(ctx, u.ID, "identity-1"))
	linked, err := r.FindByAuthUserID(ctx, "identity-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, linked.ID)

	require.NoError(t, r.SetActive(ctx, u.Email, false))
	found, err = r.FindByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	assert.ErrorIs(t, r.SetActive(ctx, "nobody@x.com", true), ErrNotFound)
}

func TestAdminUserDuplicateEmail(t *testing.T) {
	r := NewAdminUserRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &model.AdminUser{Email: "a@x.com", IsActive: true}))

	err := r.Create(ctx, &model.AdminUser{Email: "A@x.com", IsActive: true})
	var dberr *DatabaseError
	require.ErrorAs(t, err, &dberr)
	assert.Contains(t, dberr.Error(), "database error:")
}

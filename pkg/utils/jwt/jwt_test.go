package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateAndValidate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	token, err := GenerateToken(secret, "identity-1", "a@x.com", "session-1", now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "identity-1", claims.Subject)
	assert.Equal(t, "session-1", claims.ID)
	assert.Equal(t, "a@x.com", claims.Email)

	_, err = ValidateToken(secret, token, now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrTokenExpired)

	// signature still checks out after expiry
	_, err = ParseToken(secret, token)
	assert.NoError(t, err)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	now := time.Now()
	token, err := GenerateToken([]byte("another-secret-another-secret-xx"), "identity-1", "a@x.com", "session-1", now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = ValidateToken(secret, token, now)
	assert.Error(t, err)

	_, err = ValidateToken(secret, "not-a-token", now)
	assert.Error(t, err)
}

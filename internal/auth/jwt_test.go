package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/models"
)

func testJWTManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "warehouse-backend"
	return NewJWTManager(cfg)
}

func TestJWT_RoundTrip(t *testing.T) {
	m := testJWTManager("test-secret")

	staff := &models.Staff{ID: 7, Name: "Dana", Role: models.RolePacker, IsAdmin: true}
	token, err := m.GenerateToken(staff)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.StaffID)
	assert.Equal(t, "Dana", claims.Name)
	assert.Equal(t, models.RolePacker, claims.Role)
	assert.True(t, claims.IsAdmin)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	token, err := testJWTManager("secret-a").GenerateToken(&models.Staff{ID: 1})
	require.NoError(t, err)

	_, err = testJWTManager("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_GarbageRejected(t *testing.T) {
	_, err := testJWTManager("test-secret").ValidateToken("not.a.token")
	assert.Error(t, err)
}

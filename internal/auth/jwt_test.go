package auth

import (
	"championship/internal/config"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService(t *testing.T) {
	svc, err := NewJWTService(&config.Config{AdminJWTSecret: "steward-secret"})
	require.NoError(t, err)

	t.Run("secret is required", func(t *testing.T) {
		_, err := NewJWTService(&config.Config{})
		assert.Error(t, err)
	})

	t.Run("admin token round trip", func(t *testing.T) {
		token, err := svc.GenerateToken("marshal", RoleAdmin, time.Hour)
		require.NoError(t, err)

		claims, err := svc.Admin(token)
		require.NoError(t, err)
		assert.Equal(t, "marshal", claims.Steward)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("non admin role", func(t *testing.T) {
		token, err := svc.GenerateToken("viewer", "viewer", time.Hour)
		require.NoError(t, err)

		_, err = svc.Admin(token)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.GenerateToken("marshal", RoleAdmin, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := NewJWTService(&config.Config{AdminJWTSecret: "other"})
		require.NoError(t, err)
		token, err := other.GenerateToken("marshal", RoleAdmin, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

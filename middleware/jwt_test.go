package middleware

import (
	"testing"
	"time"

	"daily/apperr"
	"daily/config"
	"daily/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager(config.JWTConfig{
		Secret:     "test-jwt-secret-key",
		ExpireTime: time.Hour,
		CookieName: "token",
	})
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindUnauthenticated, appErr.Kind)
	return appErr.Reason
}

func TestTokenManager_GenerateAndParse(t *testing.T) {
	m := newTestTokenManager()
	user := &models.User{ID: "u-1", Username: "testuser", Role: models.RoleAdmin}

	token, expiresAt, err := m.Generate(user)
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenManager_ParseFailures(t *testing.T) {
	m := newTestTokenManager()

	_, err := m.Parse("")
	assert.Equal(t, apperr.ReasonMissing, reasonOf(t, err))

	_, err = m.Parse("not.a.valid.jwt")
	assert.Equal(t, apperr.ReasonInvalid, reasonOf(t, err))

	// 其他密钥签发
	other := NewTokenManager(config.JWTConfig{Secret: "another-secret", ExpireTime: time.Hour})
	token, _, err := other.Generate(&models.User{ID: "u-1"})
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.Equal(t, apperr.ReasonInvalid, reasonOf(t, err))

	// 过期
	expired := newTestTokenManager()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err = expired.Generate(&models.User{ID: "u-1"})
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.Equal(t, apperr.ReasonExpired, reasonOf(t, err))
}

func TestTokenManager_RejectsUnexpectedAlgorithms(t *testing.T) {
	m := newTestTokenManager()
	claims := Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(none)
	assert.Equal(t, apperr.ReasonInvalid, reasonOf(t, err))

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-jwt-secret-key"))
	require.NoError(t, err)
	_, err = m.Parse(hs512)
	assert.Equal(t, apperr.ReasonInvalid, reasonOf(t, err))
}

func TestTokenManager_RequiresExpiration(t *testing.T) {
	m := newTestTokenManager()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u-1"}).SignedString([]byte("test-jwt-secret-key"))
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.Equal(t, apperr.ReasonInvalid, reasonOf(t, err))
}

package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"schedule-service/internal/repository"
	"schedule-service/internal/store"
)

func newAuthService(t *testing.T, ttl time.Duration) *AuthService {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)
	users := repository.NewUserRepository(st)
	return NewAuthService(users, "test-secret", ttl, zap.NewNop())
}

func TestLogin(t *testing.T) {
	auth := newAuthService(t, time.Hour)

	token, user, err := auth.Login("admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin", user.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newAuthService(t, time.Hour)

	_, _, err := auth.Login("admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	auth := newAuthService(t, time.Hour)

	_, _, err := auth.Login("ghost", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newAuthService(t, time.Hour)

	token, user, err := auth.Login("admin", "admin123")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestExpiredTokenRejected(t *testing.T) {
	auth := newAuthService(t, -time.Minute)

	token, _, err := auth.Login("admin", "admin123")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	auth := newAuthService(t, time.Hour)
	other := newAuthService(t, time.Hour)
	other.secret = []byte("another-secret")

	token, _, err := other.Login("admin", "admin123")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	auth := newAuthService(t, time.Hour)

	_, err := auth.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

package services

import (
	"testing"
	"time"

	"github.com/izlanproject/izlan-backend/internal/config"
	"github.com/izlanproject/izlan-backend/internal/dto"
	"github.com/izlanproject/izlan-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "idir", Email: "idir@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "idir", resp.User.Username)

	// Duplicate username or email is rejected.
	_, err = svc.Register(&dto.RegisterRequest{
		Username: "idir", Email: "other@example.com", Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrUserTaken)

	// Weak password is rejected before touching the database.
	_, err = svc.Register(&dto.RegisterRequest{
		Username: "short", Email: "short@example.com", Password: "short",
	})
	assert.Error(t, err)

	login, err := svc.Login(&dto.LoginRequest{Email: "idir@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(&dto.LoginRequest{Email: "idir@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBannedUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "troll", Email: "troll@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", resp.User.ID).
		Update("is_banned", true).Error)

	_, err = svc.Login(&dto.LoginRequest{Email: "troll@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestRefreshRotatesToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "idir", Email: "idir@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The presented token is single-use.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The replacement still works.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	require.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "idir", Email: "idir@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rotaworks/rota-api/internal/models"
	"github.com/rotaworks/rota-api/pkg/config"
	appErrors "github.com/rotaworks/rota-api/pkg/errors"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AdminPassword: "letmein",
		JWTSecret:     "test-secret",
		JWTExpiration: time.Hour,
		Issuer:        "rota-api",
	}
}

func TestAuthServiceLogin(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), nil, nil)

	resp, err := svc.Login(models.LoginRequest{Password: "letmein"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "rota-api", claims.Issuer)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), nil, nil)

	_, err := svc.Login(models.LoginRequest{Password: "nope"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginEmptyPassword(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), nil, nil)

	_, err := svc.Login(models.LoginRequest{})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceBcryptHashPreferred(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := testAuthConfig()
	cfg.AdminPasswordHash = string(hash)
	svc := NewAuthService(cfg, nil, nil)

	// Hash wins over the plaintext fallback.
	_, err = svc.Login(models.LoginRequest{Password: "letmein"})
	require.Error(t, err)

	resp, err := svc.Login(models.LoginRequest{Password: "hashed-secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthServiceNoCredentialConfigured(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AdminPassword = ""
	svc := NewAuthService(cfg, nil, nil)

	_, err := svc.Login(models.LoginRequest{Password: "anything"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsTampering(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), nil, nil)

	resp, err := svc.Login(models.LoginRequest{Password: "letmein"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	require.Error(t, err)

	other := testAuthConfig()
	other.JWTSecret = "different-secret"
	otherSvc := NewAuthService(other, nil, nil)
	_, err = otherSvc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}

func TestAuthServiceValidateTokenExpired(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTExpiration = -time.Minute
	svc := NewAuthService(cfg, nil, nil)

	resp, err := svc.Login(models.LoginRequest{Password: "letmein"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}

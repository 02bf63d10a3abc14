package service

import (
	"testing"

	"yatube-go/internal/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	info, err := env.auth.Register(&dto.RegisterRequest{
		Username: "admin2",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin2", info.Username)
	assert.Equal(t, "user", info.UserRole)

	token, err := env.auth.Login(&dto.LoginRequest{
		Username: "admin2",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, "admin2", token.User.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(&dto.RegisterRequest{Username: "admin2", Password: "password123"})
	require.NoError(t, err)

	_, err = env.auth.Register(&dto.RegisterRequest{Username: "admin2", Password: "password456"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(&dto.RegisterRequest{Username: "admin2", Password: "password123"})
	require.NoError(t, err)

	_, err = env.auth.Login(&dto.LoginRequest{Username: "admin2", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = env.auth.Login(&dto.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

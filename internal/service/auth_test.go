package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/util"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, models.RegisterRequest{
		Email:                "alice@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Name:                 "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.NotEmpty(t, user.ID)

	stored, err := env.store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)

	first, err := env.auth.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", first.User.Email)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.RefreshToken)

	second, err := env.auth.Login(ctx, "Alice@Example.com", "secret123")
	require.NoError(t, err)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)

	// каждый логин начинает новую семью
	assert.NotEqual(t, env.record(t, first.RefreshToken).FamilyID, env.record(t, second.RefreshToken).FamilyID)
}

func TestAuthService_RegisterDuplicateEmailIgnoresCase(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "alice@example.com")

	_, err := env.auth.Register(context.Background(), models.RegisterRequest{
		Email:                "  ALICE@example.com ",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Name:                 "Other Alice",
	})
	require.ErrorIs(t, err, ErrEmailInUse)
	assert.Equal(t, util.CodeConflict, util.CodeOf(err))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), models.RegisterRequest{
		Email:                "not-an-email",
		Password:             "123",
		PasswordConfirmation: "1234",
		Name:                 " ",
	})
	require.Error(t, err)

	var appErr *util.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, util.CodeValidation, appErr.Code)
	for _, field := range []string{"email", "password", "passwordConfirmation", "name"} {
		assert.True(t, appErr.Fields.Has(field), "expected field error for %s", field)
	}
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "alice@example.com")
	ctx := context.Background()

	_, wrongPassword := env.auth.Login(ctx, "alice@example.com", "wrong-password")
	_, unknownEmail := env.auth.Login(ctx, "nobody@example.com", "wrong-password")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
}

func TestAuthService_LoginRequiresFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Login(context.Background(), "", "")
	assert.Equal(t, util.CodeValidation, util.CodeOf(err))
}

func TestAuthService_GetProfile(t *testing.T) {
	env := newTestEnv(t)
	login := env.registerAndLogin(t, "alice@example.com")
	ctx := context.Background()

	user, err := env.auth.GetProfile(ctx, login.User.ID)
	require.NoError(t, err)
	assert.Equal(t, login.User, *user)

	_, err = env.auth.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

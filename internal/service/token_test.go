package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_CreateAndValidate(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	token, exp, err := env.tokens.CreateAccessToken("user-1", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(15*time.Minute), exp, time.Second)

	userID, err := env.tokens.ValidateAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenService_Expired(t *testing.T) {
	env := newTestEnv(t)

	token, _, err := env.tokens.CreateAccessToken("user-1", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = env.tokens.ValidateAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_WrongSecretOrAlgorithm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := *env.tokens
	other.JwtSecretKey = []byte("another-secret")
	forged, _, err := other.CreateAccessToken("user-1", time.Now())
	require.NoError(t, err)

	_, err = env.tokens.ValidateAccessToken(ctx, forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	hs256 := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	signed, err := hs256.SignedString(env.tokens.JwtSecretKey)
	require.NoError(t, err)

	_, err = env.tokens.ValidateAccessToken(ctx, signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = env.tokens.ValidateAccessToken(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_InvalidateAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, _, err := env.tokens.CreateAccessToken("user-1", time.Now())
	require.NoError(t, err)
	other, _, err := env.tokens.CreateAccessToken("user-1", time.Now())
	require.NoError(t, err)

	require.NoError(t, env.tokens.InvalidateAccessToken(ctx, token))

	_, err = env.tokens.ValidateAccessToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = env.tokens.ValidateAccessToken(ctx, other)
	assert.NoError(t, err)

	assert.ErrorIs(t, env.tokens.InvalidateAccessToken(ctx, "garbage"), ErrTokenMalformed)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var refreshTokenColumns = []string{"id", "user_id", "session_id", "family_id", "token_hash", "expires_at", "is_revoked", "created_at"}

func TestRefreshTokenRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)
	now := time.Now().UTC()

	token := &models.RefreshToken{
		ID:        "id-1",
		UserID:    "user-1",
		SessionID: "session-1",
		FamilyID:  "family-1",
		TokenHash: "hash",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO refresh_tokens`)).
		WithArgs(token.ID, token.UserID, token.SessionID, token.FamilyID, token.TokenHash, token.ExpiresAt, false, token.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateRefreshToken(context.Background(), token))
}

func TestRefreshTokenRepository_GetByHash(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)
	now := time.Now().UTC()
	query := regexp.QuoteMeta(`FROM refresh_tokens WHERE token_hash = $1`)

	mock.ExpectQuery(query).
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows(refreshTokenColumns).
			AddRow("id-1", "user-1", "session-1", "family-1", "hash", now.Add(time.Hour), true, now))

	token, err := repo.GetRefreshTokenByHash(context.Background(), "hash")
	require.NoError(t, err)
	assert.Equal(t, "family-1", token.FamilyID)
	assert.True(t, token.IsRevoked)

	mock.ExpectQuery(query).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetRefreshTokenByHash(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrRefreshTokenNotFound)
}

func TestRefreshTokenRepository_RevokeIsConditional(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)
	query := regexp.QuoteMeta(`UPDATE refresh_tokens SET is_revoked = TRUE WHERE id = $1 AND is_revoked = FALSE`)

	mock.ExpectExec(query).WithArgs("id-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("id-1").WillReturnResult(sqlmock.NewResult(0, 0))

	won, err := repo.RevokeRefreshToken(context.Background(), "id-1")
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.RevokeRefreshToken(context.Background(), "id-1")
	require.NoError(t, err)
	assert.False(t, won)
}

func TestRefreshTokenRepository_RevokeFamily(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE refresh_tokens SET is_revoked = TRUE WHERE family_id = $1`)).
		WithArgs("family-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.RevokeRefreshTokenFamily(context.Background(), "family-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE refresh_tokens`)).
		WithArgs("family-2").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.RevokeRefreshTokenFamily(context.Background(), "family-2")
	assert.Error(t, err)
}

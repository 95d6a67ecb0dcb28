package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
)

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	user := &models.User{ID: "u1", Email: "a@example.com", Name: "A", PasswordHash: "h", CreatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt).
		WillReturnError(&pq.Error{Code: uniqueViolationCode})

	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.ErrorIs(t, repo.CreateUser(context.Background(), user), storage.ErrEmailTaken)
}

func TestUserRepository_Get(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now().UTC()
	columns := []string{"id", "email", "name", "password_hash", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("u1", "a@example.com", "A", "h", now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetUserByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "h", user.PasswordHash)

	_, err = repo.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

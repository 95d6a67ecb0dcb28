package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rryowa/billtracker/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already taken")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrBillNotFound         = errors.New("bill not found")
	ErrBillAlreadyPaid      = errors.New("bill already paid")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Storage interface {
	UserRepository
	RefreshTokenRepository
	BillRepository
}

type UserRepository interface {
	// CreateUser returns ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// RefreshTokenRepository is written to only by the refresh-token ledger.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	// RevokeRefreshToken flips is_revoked on one row only if it was still
	// active and reports whether this call did the flip.
	RevokeRefreshToken(ctx context.Context, id string) (bool, error)
	RevokeRefreshTokenFamily(ctx context.Context, familyID string) (int64, error)
}

type BillRepository interface {
	CreateBill(ctx context.Context, bill *models.Bill) error
	GetBill(ctx context.Context, userID, id string) (*models.Bill, error)
	ListBills(ctx context.Context, userID string, filter models.BillFilter) ([]models.Bill, int, error)
	UpdateBill(ctx context.Context, bill *models.Bill) error
	DeleteBill(ctx context.Context, userID, id string) error
	// PayBillTx marks the bill paid if it is still unpaid and inserts next,
	// when given, in the same transaction. Returns ErrBillAlreadyPaid if the
	// bill was paid concurrently and ErrBillNotFound if it is gone.
	PayBillTx(ctx context.Context, bill *models.Bill, paidAt time.Time, next *models.Bill) error
}

// TokenStorage keeps denylisted access-token ids until they would have
// expired anyway.
type TokenStorage interface {
	InvalidateToken(ctx context.Context, jti string, expiration time.Duration) error
	IsTokenInvalidated(ctx context.Context, jti string) (bool, error)
}

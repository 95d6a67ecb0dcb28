package service

import (
	"context"
	"time"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/queue"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type AccessTokenIssuer interface {
	CreateAccessToken(userID string, now time.Time) (string, time.Time, error)
}

// SessionIssuer mints an access token plus a refresh token in the given
// family; an empty familyID starts a new one.
type SessionIssuer interface {
	IssueTokens(ctx context.Context, user *models.User, familyID string) (*models.AuthResult, error)
}

type SecurityNotifier interface {
	NotifyTokenReuse(ctx context.Context, event models.TokenReuseEvent)
}

type EventPublisher interface {
	PublishBillPaid(ctx context.Context, event queue.BillPaidEvent) error
}

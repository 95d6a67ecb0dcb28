package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
)

// RefreshTokenLedger is the only writer of refresh-token records. Records are
// grouped into families: a login starts one, each rotation extends it.
type RefreshTokenLedger struct {
	repo storage.RefreshTokenRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewRefreshTokenLedger(repo storage.RefreshTokenRepository, ttl time.Duration) *RefreshTokenLedger {
	return &RefreshTokenLedger{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (l *RefreshTokenLedger) TTL() time.Duration { return l.ttl }

// Issue creates a new record and returns the raw secret that goes to the
// client. An empty familyID starts a new family.
func (l *RefreshTokenLedger) Issue(ctx context.Context, userID, familyID string) (string, *models.RefreshToken, error) {
	rawSecret, err := newRawSecret()
	if err != nil {
		return "", nil, err
	}

	if familyID == "" {
		familyID = uuid.NewString()
	}

	now := l.now().UTC()
	record := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: uuid.NewString(),
		FamilyID:  familyID,
		TokenHash: Fingerprint(rawSecret),
		ExpiresAt: now.Add(l.ttl),
		IsRevoked: false,
		CreatedAt: now,
	}

	if err := l.repo.CreateRefreshToken(ctx, record); err != nil {
		return "", nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return rawSecret, record, nil
}

// FindByRawSecret returns storage.ErrRefreshTokenNotFound for unknown secrets.
func (l *RefreshTokenLedger) FindByRawSecret(ctx context.Context, rawSecret string) (*models.RefreshToken, error) {
	return l.repo.GetRefreshTokenByHash(ctx, Fingerprint(rawSecret))
}

func (l *RefreshTokenLedger) RevokeFamily(ctx context.Context, familyID string) error {
	if _, err := l.repo.RevokeRefreshTokenFamily(ctx, familyID); err != nil {
		return fmt.Errorf("revoke family %s: %w", familyID, err)
	}
	return nil
}

// RevokeOne consumes a single record. It reports false when the record was
// already revoked, i.e. another caller got there first.
func (l *RefreshTokenLedger) RevokeOne(ctx context.Context, id string) (bool, error) {
	revoked, err := l.repo.RevokeRefreshToken(ctx, id)
	if err != nil {
		return false, fmt.Errorf("revoke refresh token %s: %w", id, err)
	}
	return revoked, nil
}

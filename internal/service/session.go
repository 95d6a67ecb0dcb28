package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
)

// SessionService rotates refresh tokens. Every refresh consumes the presented
// record and issues its successor in the same family; presenting a consumed
// record again kills the whole family.
type SessionService struct {
	ledger   *RefreshTokenLedger
	users    storage.UserRepository
	issuer   SessionIssuer
	notifier SecurityNotifier
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewSessionService(
	ledger *RefreshTokenLedger,
	users storage.UserRepository,
	issuer SessionIssuer,
	notifier SecurityNotifier,
	log *zap.SugaredLogger,
) *SessionService {
	return &SessionService{
		ledger:   ledger,
		users:    users,
		issuer:   issuer,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *SessionService) Refresh(ctx context.Context, rawRefreshToken string) (*models.AuthResult, error) {
	if rawRefreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	record, err := s.ledger.FindByRawSecret(ctx, rawRefreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	now := s.now().UTC()

	if record.IsRevoked {
		if err := s.ledger.RevokeFamily(ctx, record.FamilyID); err != nil {
			return nil, err
		}
		s.log.Warnw("Refresh token reuse detected, family revoked",
			"userID", record.UserID,
			"familyID", record.FamilyID,
		)
		if s.notifier != nil {
			s.notifier.NotifyTokenReuse(ctx, models.TokenReuseEvent{
				Event:      models.TokenReuseEventName,
				UserID:     record.UserID,
				FamilyID:   record.FamilyID,
				DetectedAt: now,
			})
		}
		return nil, ErrRefreshTokenReuse
	}

	if record.IsExpiredAt(now) {
		if err := s.ledger.RevokeFamily(ctx, record.FamilyID); err != nil {
			return nil, err
		}
		return nil, ErrRefreshTokenExpired
	}

	// Проигравший в гонке не отзывает семью: у победителя уже есть живой преемник.
	consumed, err := s.ledger.RevokeOne(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		s.log.Warnw("Concurrent refresh lost the race",
			"userID", record.UserID,
			"familyID", record.FamilyID,
		)
		return nil, ErrRefreshTokenReuse
	}

	user, err := s.users.GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.issuer.IssueTokens(ctx, user, record.FamilyID)
}

// Logout revokes the family of the presented token. Unknown tokens are
// ignored so logout always succeeds from the client's point of view.
func (s *SessionService) Logout(ctx context.Context, rawRefreshToken string) error {
	if rawRefreshToken == "" {
		return nil
	}

	record, err := s.ledger.FindByRawSecret(ctx, rawRefreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrRefreshTokenNotFound) {
			return nil
		}
		return fmt.Errorf("lookup refresh token: %w", err)
	}

	if err := s.ledger.RevokeFamily(ctx, record.FamilyID); err != nil {
		return err
	}

	s.log.Infow("User logged out", "userID", record.UserID, "familyID", record.FamilyID)
	return nil
}

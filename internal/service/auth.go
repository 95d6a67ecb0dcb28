package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
	"github.com/rryowa/billtracker/internal/util"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72
	maxNameLength     = 255
)

type AuthService struct {
	users     storage.UserRepository
	ledger    *RefreshTokenLedger
	tokens    AccessTokenIssuer
	passwords PasswordHasher
	log       *zap.SugaredLogger
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users storage.UserRepository,
	ledger *RefreshTokenLedger,
	tokens AccessTokenIssuer,
	passwords PasswordHasher,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		users:     users,
		ledger:    ledger,
		tokens:    tokens,
		passwords: passwords,
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.PublicUser, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	fields := util.FieldErrors{}
	if email == "" {
		fields.Add("email", "Email is required")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		fields.Add("email", "Invalid email")
	}
	if len(req.Password) < minPasswordLength {
		fields.Add("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	} else if len(req.Password) > maxPasswordBytes {
		fields.Add("password", fmt.Sprintf("Password must not exceed %d bytes", maxPasswordBytes))
	}
	if req.PasswordConfirmation != req.Password {
		fields.Add("passwordConfirmation", "Passwords do not match")
	}
	if name == "" {
		fields.Add("name", "Name is required")
	} else if len(name) > maxNameLength {
		fields.Add("name", fmt.Sprintf("Name must not exceed %d characters", maxNameLength))
	}
	if len(fields) > 0 {
		return nil, util.NewValidationError(fields)
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailInUse
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	passwordHash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Infow("User registered", "userID", user.ID)

	public := user.Public()
	return &public, nil
}

// Login answers an unknown email and a wrong password with the same error,
// and spends a hash comparison in both cases.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	email = normalizeEmail(email)

	fields := util.FieldErrors{}
	if email == "" {
		fields.Add("email", "Email is required")
	}
	if password == "" {
		fields.Add("password", "Password is required")
	}
	if len(fields) > 0 {
		return nil, util.NewValidationError(fields)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.passwords.Verify(password, s.dummyPasswordHash())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.IssueTokens(ctx, user, "")
	if err != nil {
		return nil, err
	}

	s.log.Infow("User logged in", "userID", user.ID)
	return result, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	public := user.Public()
	return &public, nil
}

// IssueTokens signs a fresh access token and records a refresh token in
// familyID, or in a new family when familyID is empty.
func (s *AuthService) IssueTokens(ctx context.Context, user *models.User, familyID string) (*models.AuthResult, error) {
	now := s.now().UTC()

	accessToken, accessExp, err := s.tokens.CreateAccessToken(user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	rawRefresh, record, err := s.ledger.Issue(ctx, user.ID, familyID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResult{
		User:             user.Public(),
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     rawRefresh,
		RefreshExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.passwords.Hash(uuid.NewString())
		if err != nil {
			s.log.Errorw("failed to prepare dummy password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

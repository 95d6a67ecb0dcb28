package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/queue"
	"github.com/rryowa/billtracker/internal/storage/memory"
	"github.com/rryowa/billtracker/internal/util"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.TokenReuseEvent
}

func (n *recordingNotifier) NotifyTokenReuse(_ context.Context, event models.TokenReuseEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []models.TokenReuseEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.TokenReuseEvent(nil), n.events...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BillPaidEvent
	err    error
}

func (p *recordingPublisher) PublishBillPaid(_ context.Context, event queue.BillPaidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type testEnv struct {
	store    *memory.Storage
	denylist *memory.TokenStorage
	tokens   *TokenService
	ledger   *RefreshTokenLedger
	auth     *AuthService
	sessions *SessionService
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zaptest.NewLogger(t).Sugar()
	store := memory.NewStorage(log)
	denylist := memory.NewTokenStorage()
	cfg := &util.TokenConfig{
		JwtSecretKey: []byte("test-secret"),
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   14 * 24 * time.Hour,
	}

	tokens := NewTokenService(cfg, denylist)
	ledger := NewRefreshTokenLedger(store, cfg.RefreshTTL)
	auth := NewAuthService(store, ledger, tokens, NewBcryptHasher(bcrypt.MinCost), log)
	notifier := &recordingNotifier{}
	sessions := NewSessionService(ledger, store, auth, notifier, log)

	return &testEnv{
		store:    store,
		denylist: denylist,
		tokens:   tokens,
		ledger:   ledger,
		auth:     auth,
		sessions: sessions,
		notifier: notifier,
	}
}

func (e *testEnv) registerAndLogin(t *testing.T, email string) *models.AuthResult {
	t.Helper()
	ctx := context.Background()

	_, err := e.auth.Register(ctx, models.RegisterRequest{
		Email:                email,
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Name:                 "Alice",
	})
	require.NoError(t, err)

	result, err := e.auth.Login(ctx, email, "secret123")
	require.NoError(t, err)
	return result
}

func (e *testEnv) record(t *testing.T, raw string) *models.RefreshToken {
	t.Helper()
	rec, err := e.ledger.FindByRawSecret(context.Background(), raw)
	require.NoError(t, err)
	return rec
}

func activeInFamily(tokens []models.RefreshToken, now time.Time) int {
	n := 0
	for _, tok := range tokens {
		if !tok.IsRevoked && !tok.IsExpiredAt(now) {
			n++
		}
	}
	return n
}

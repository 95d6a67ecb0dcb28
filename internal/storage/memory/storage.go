package memory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/rryowa/billtracker/internal/models"
)

// Storage keeps users, refresh tokens and bills in process memory. A single
// mutex guards all maps so compound operations stay atomic.
type Storage struct {
	mu            sync.RWMutex
	users         map[string]models.User
	emails        map[string]string
	refreshTokens map[string]models.RefreshToken
	tokenHashes   map[string]string
	bills         map[string]models.Bill
	log           *zap.SugaredLogger
}

func NewStorage(log *zap.SugaredLogger) *Storage {
	return &Storage{
		users:         make(map[string]models.User),
		emails:        make(map[string]string),
		refreshTokens: make(map[string]models.RefreshToken),
		tokenHashes:   make(map[string]string),
		bills:         make(map[string]models.Bill),
		log:           log,
	}
}

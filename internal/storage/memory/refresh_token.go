package memory

import (
	"context"
	"fmt"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
)

func (s *Storage) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokenHashes[token.TokenHash]; ok {
		return fmt.Errorf("failed to insert refresh token: duplicate token hash")
	}
	s.refreshTokens[token.ID] = *token
	s.tokenHashes[token.TokenHash] = token.ID
	s.log.Debugw("Refresh token created", "tokenID", token.ID, "familyID", token.FamilyID)

	return nil
}

func (s *Storage) GetRefreshTokenByHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokenHashes[tokenHash]
	if !ok {
		return nil, storage.ErrRefreshTokenNotFound
	}
	token := s.refreshTokens[id]
	return &token, nil
}

func (s *Storage) RevokeRefreshToken(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.refreshTokens[id]
	if !ok || token.IsRevoked {
		return false, nil
	}
	token.IsRevoked = true
	s.refreshTokens[id] = token
	return true, nil
}

func (s *Storage) RevokeRefreshTokenFamily(_ context.Context, familyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, token := range s.refreshTokens {
		if token.FamilyID == familyID && !token.IsRevoked {
			token.IsRevoked = true
			s.refreshTokens[id] = token
			n++
		}
	}
	return n, nil
}

// FamilyTokens returns every record of a family. Test helper.
func (s *Storage) FamilyTokens(familyID string) []models.RefreshToken {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RefreshToken
	for _, token := range s.refreshTokens {
		if token.FamilyID == familyID {
			out = append(out, token)
		}
	}
	return out
}

package memory

import (
	"context"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/storage"
)

func (s *Storage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[user.Email]; ok {
		return storage.ErrEmailTaken
	}
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	s.log.Debugw("User created", "userID", user.ID)

	return nil
}

func (s *Storage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (s *Storage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &user, nil
}

// DeleteUser is used by tests to simulate an account removed between token
// issuance and use.
func (s *Storage) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		delete(s.emails, user.Email)
		delete(s.users, id)
	}
}

package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "denylist:access:"

type TokenStorage struct {
	client *redis.Client
}

func NewTokenStorage(client *redis.Client) *TokenStorage {
	return &TokenStorage{client: client}
}

// InvalidateToken кладёт jti в чёрный список до истечения срока токена.
func (s *TokenStorage) InvalidateToken(ctx context.Context, jti string, expiration time.Duration) error {
	if expiration <= 0 {
		return nil
	}
	return s.client.Set(ctx, denylistKeyPrefix+jti, "invalidated", expiration).Err()
}

// IsTokenInvalidated проверяет наличие jti в Redis.
func (s *TokenStorage) IsTokenInvalidated(ctx context.Context, jti string) (bool, error) {
	result, err := s.client.Get(ctx, denylistKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return result == "invalidated", nil
}

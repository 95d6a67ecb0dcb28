package util

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	log := zaptest.NewLogger(t).Sugar()

	client, cleanup, err := NewRedisClient(context.Background(), log, &RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer cleanup()
	assert.NoError(t, client.Ping(context.Background()).Err())

	addr := mr.Addr()
	mr.Close()
	_, _, err = NewRedisClient(context.Background(), log, &RedisConfig{Addr: addr})
	assert.Error(t, err)
}

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := NewClient(fmt.Sprintf("redis://%s", mr.Addr()), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient("not-a-redis-url", zap.NewNop())
	assert.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "key1", "value1", time.Minute))

	val, err := client.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", val)
}

func TestGetMissingKey(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Get(context.Background(), "missing")
	assert.Equal(t, redis.Nil, err)
}

func TestSetNX(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	key := fmt.Sprintf(KeyReplaySeen, "digest")

	ok, err := client.SetNX(ctx, key, "1", TTLReplaySeen)
	require.NoError(t, err)
	assert.True(t, ok, "first SetNX should win")

	ok, err = client.SetNX(ctx, key, "1", TTLReplaySeen)
	require.NoError(t, err)
	assert.False(t, ok, "second SetNX should lose")

	// The marker expires with its TTL
	mr.FastForward(TTLReplaySeen + time.Second)

	ok, err = client.SetNX(ctx, key, "1", TTLReplaySeen)
	require.NoError(t, err)
	assert.True(t, ok, "SetNX should win again after expiry")
}

func TestDelete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "key1", "value1", time.Minute))
	require.NoError(t, client.Delete(ctx, "key1"))

	_, err := client.Get(ctx, "key1")
	assert.Equal(t, redis.Nil, err)
}

func TestHealth(t *testing.T) {
	client, mr := newTestClient(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

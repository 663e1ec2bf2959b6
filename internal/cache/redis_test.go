package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisKV(client, "shorthub:"), mr
}

func TestRedisKV_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	kv, mr := newTestKV(t)

	require.NoError(t, kv.Set(ctx, map[string]string{"authToken": "tok", "refreshToken": "ref"}))

	raw, err := mr.Get("shorthub:authToken")
	require.NoError(t, err)
	assert.Equal(t, "tok", raw)

	got, err := kv.Get(ctx, "authToken", "refreshToken", "userInfo")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"authToken": "tok", "refreshToken": "ref"}, got)

	require.NoError(t, kv.Remove(ctx, "authToken"))
	got, err = kv.Get(ctx, "authToken", "refreshToken")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"refreshToken": "ref"}, got)
	assert.False(t, mr.Exists("shorthub:authToken"))
}

func TestRedisKV_EmptyKeys(t *testing.T) {
	kv, _ := newTestKV(t)

	got, err := kv.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, kv.Remove(context.Background()))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	assert.ErrorContains(t, err, "redis ping")
}

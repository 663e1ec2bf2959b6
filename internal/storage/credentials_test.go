package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorthub/coordinator/internal/models"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, ...string) (map[string]string, error) { return nil, f.err }
func (f failingKV) Set(context.Context, map[string]string) error              { return f.err }
func (f failingKV) Remove(context.Context, ...string) error                   { return f.err }

func TestCredentialStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewCredentialStore(kv)

	want := models.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &models.User{ID: "u1", Username: "alice", Role: "ADMIN", Email: "a@example.com"},
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	raw, _ := kv.Get(ctx, KeyUserInfo)
	assert.JSONEq(t, `{"id":"u1","username":"alice","role":"ADMIN","email":"a@example.com"}`, raw[KeyUserInfo])
}

func TestCredentialStore_SaveDropsEmptyFields(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewCredentialStore(kv)

	require.NoError(t, store.Save(ctx, models.Session{
		AccessToken:  "old",
		RefreshToken: "old-refresh",
		User:         &models.User{ID: "u1"},
	}))
	require.NoError(t, store.Save(ctx, models.Session{
		AccessToken: "manual",
		User:        &models.User{ID: "u2"},
	}))

	vals, _ := kv.Get(ctx, KeyAuthToken, KeyRefreshToken)
	assert.Equal(t, "manual", vals[KeyAuthToken])
	_, hasRefresh := vals[KeyRefreshToken]
	assert.False(t, hasRefresh, "refresh token must be removed for manual tokens")
}

func TestCredentialStore_ClearKeepsDeviceID(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore(NewMemoryKV())

	id, err := store.DeviceID(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, store.Save(ctx, models.Session{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, store.Clear(ctx))

	sess, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Session{}, sess)

	again, err := store.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestCredentialStore_LoadBadUserInfo(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	_ = kv.Set(ctx, map[string]string{KeyAuthToken: "a", KeyUserInfo: "{broken"})

	_, err := NewCredentialStore(kv).Load(ctx)
	assert.Error(t, err)
}

func TestCredentialStore_BackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	store := NewCredentialStore(failingKV{err: boom})

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.Save(ctx, models.Session{AccessToken: "a"}), boom)
	assert.ErrorIs(t, store.Clear(ctx), boom)
	_, err = store.DeviceID(ctx)
	assert.ErrorIs(t, err, boom)
}

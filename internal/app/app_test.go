package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorthub/coordinator/internal/config"
	"github.com/shorthub/coordinator/internal/router"
	"github.com/shorthub/coordinator/internal/storage"
)

func TestBuild_FileStoreRestoresSession(t *testing.T) {
	ctx := context.Background()
	var deviceHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceHeader = r.Header.Get(DeviceIDHeader)
		_, _ = w.Write([]byte(`{"data":{"me":{"id":"u1","username":"alice","role":"EDITOR"}}}`))
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "credentials.json")
	kv, err := storage.OpenFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, map[string]string{storage.KeyAuthToken: "persisted"}))

	opts := &config.Options{GraphQLEndpoint: ts.URL, Store: config.StoreFile, StorePath: path}
	a, err := Build(ctx, opts, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "persisted", a.Sessions.AccessToken())
	assert.NotEmpty(t, a.DeviceID)

	resp := a.Router.Dispatch(ctx, &router.TestConnectionRequest{})
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, a.DeviceID, deviceHeader)

	// the device id survives a restart
	b, err := Build(ctx, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, a.DeviceID, b.DeviceID)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var stored map[string]string
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, a.DeviceID, stored[storage.KeyDeviceID])
}

func TestBuild_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := &config.Options{
		GraphQLEndpoint: "http://catalog.invalid/graphql",
		Store:           config.StoreRedis,
		RedisAddr:       mr.Addr(),
		RedisPrefix:     "test:",
	}
	a, err := Build(context.Background(), opts, nil)
	require.NoError(t, err)

	got, err := mr.Get("test:" + storage.KeyDeviceID)
	require.NoError(t, err)
	assert.Equal(t, a.DeviceID, got)
	assert.NoError(t, a.Close())
}

func TestBuild_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Build(ctx, &config.Options{GraphQLEndpoint: "http://x", Store: "s3"}, nil)
	assert.ErrorContains(t, err, `unknown store "s3"`)

	_, err = Build(ctx, &config.Options{GraphQLEndpoint: "http://x", Store: config.StoreMemory, CAFile: "missing.pem"}, nil)
	assert.ErrorContains(t, err, "failed to read CA cert")
}

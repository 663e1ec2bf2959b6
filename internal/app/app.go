// Package app assembles the coordinator from its configuration: credential
// backend, outbound client, session manager, gateway, channel fetcher and
// message router. Both binaries share it.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shorthub/coordinator/internal/cache"
	"github.com/shorthub/coordinator/internal/config"
	"github.com/shorthub/coordinator/internal/db"
	"github.com/shorthub/coordinator/internal/gateway"
	"github.com/shorthub/coordinator/internal/graphql"
	"github.com/shorthub/coordinator/internal/repository"
	"github.com/shorthub/coordinator/internal/router"
	"github.com/shorthub/coordinator/internal/session"
	"github.com/shorthub/coordinator/internal/storage"
	"github.com/shorthub/coordinator/internal/transport"
	"github.com/shorthub/coordinator/internal/youtube"
)

// DeviceIDHeader carries the per-install device id on every catalog request.
const DeviceIDHeader = "X-Device-Id"

// App is a wired coordinator.
type App struct {
	Router   *router.Router
	Sessions *session.Manager
	DeviceID string

	closers []func() error
}

// Build wires every component and restores the persisted session.
func Build(ctx context.Context, opts *config.Options, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{}

	kv, err := a.openKV(ctx, opts)
	if err != nil {
		return nil, err
	}
	creds := storage.NewCredentialStore(kv)

	deviceID, err := creds.DeviceID(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.DeviceID = deviceID

	httpClient, err := transport.NewHTTPClient(transport.Options{
		CAFile:   opts.CAFile,
		CertFile: opts.CertFile,
		KeyFile:  opts.KeyFile,
		Timeout:  opts.HTTPTimeout,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	gql := graphql.NewClient(opts.GraphQLEndpoint, httpClient)
	gql.SetHeader(DeviceIDHeader, deviceID)

	a.Sessions = session.NewManager(gql, creds, log.Named("session"))
	if err := a.Sessions.Restore(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	a.Router = &router.Router{
		Sessions: a.Sessions,
		Gateway:  gateway.New(gql, a.Sessions, log.Named("gateway")),
		Channels: youtube.New(opts.YoutubeAPIKey, opts.YoutubeBaseURL, httpClient, log.Named("youtube")),
		Endpoint: opts.GraphQLEndpoint,
		Log:      log.Named("router"),
	}

	log.Info("coordinator ready",
		zap.String("store", opts.Store),
		zap.String("endpoint", opts.GraphQLEndpoint),
		zap.Bool("youtube_api", opts.YoutubeAPIKey != ""),
		zap.Bool("authenticated", a.Sessions.Snapshot().Authenticated()))
	return a, nil
}

func (a *App) openKV(ctx context.Context, opts *config.Options) (storage.KV, error) {
	switch opts.Store {
	case config.StoreFile:
		return storage.OpenFileKV(opts.StorePath)
	case config.StoreMemory:
		return storage.NewMemoryKV(), nil
	case config.StorePostgres:
		pg, err := db.InitPostgres(ctx, opts.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		return repository.NewPostgresKV(pg), nil
	case config.StoreRedis:
		rdb, err := cache.NewRedisClient(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return cache.NewRedisKV(rdb, opts.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unknown store %q", opts.Store)
	}
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

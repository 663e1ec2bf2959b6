// Package gateway executes catalog operations on behalf of the current
// session, turning an UNAUTHENTICATED reply into one refresh-and-retry cycle.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shorthub/coordinator/internal/graphql"
	"github.com/shorthub/coordinator/internal/session"
)

// ErrSessionExpired is returned when the catalog rejected the credential and
// no new one could be obtained. The session has been cleared by then.
var ErrSessionExpired = errors.New("session expired")

// Sessions is the part of session.Manager the gateway drives.
type Sessions interface {
	AccessToken() string
	Refresh(ctx context.Context) (string, bool)
	ForceLogout(ctx context.Context)
}

// Gateway is safe for concurrent use.
type Gateway struct {
	remote   session.Remote
	sessions Sessions
	log      *zap.Logger
}

// New returns a Gateway.
func New(remote session.Remote, sessions Sessions, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{remote: remote, sessions: sessions, log: log}
}

// Execute runs query and returns the reply's data.
//
// With requireAuth and no access token it fails with
// session.ErrNotAuthenticated before any network call. A non-2xx reply is an
// *graphql.HTTPError. An UNAUTHENTICATED reply triggers one refresh; on
// success the request is retried once with the new token and whatever the
// retry returns is final. If the refresh fails the session is force-cleared
// and ErrSessionExpired is returned. Other remote errors are returned as
// *graphql.RemoteError.
func (g *Gateway) Execute(ctx context.Context, query string, vars map[string]any, requireAuth bool) (json.RawMessage, error) {
	token := g.sessions.AccessToken()
	if requireAuth && token == "" {
		return nil, session.ErrNotAuthenticated
	}

	resp, err := g.remote.Do(ctx, token, query, vars)
	if err != nil {
		return nil, wrapTransport(err)
	}

	if resp.Unauthenticated() {
		newToken, ok := g.sessions.Refresh(ctx)
		if !ok {
			g.log.Info("credential rejected and refresh unavailable")
			g.sessions.ForceLogout(ctx)
			return nil, ErrSessionExpired
		}

		g.log.Debug("retrying after token refresh")
		resp, err = g.remote.Do(ctx, newToken, query, vars)
		if err != nil {
			return nil, wrapTransport(err)
		}
	}

	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func wrapTransport(err error) error {
	var httpErr *graphql.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	return fmt.Errorf("%w: %w", session.ErrNetwork, err)
}

// Package router dispatches inbound action messages from the popup and page
// scripts to the session manager, the catalog gateway and the channel fetcher.
// Every action resolves to a models.Response; no error or panic crosses it.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/shorthub/coordinator/internal/gateway"
	"github.com/shorthub/coordinator/internal/models"
	"github.com/shorthub/coordinator/internal/session"
)

// Sessions is the session manager surface used by the router.
type Sessions interface {
	Login(ctx context.Context, username, password, deviceInfo string) (*models.User, error)
	SetManualToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context)
	Snapshot() models.Session
}

// Executor runs catalog operations with refresh-on-auth-failure.
type Executor interface {
	Execute(ctx context.Context, query string, vars map[string]any, requireAuth bool) (json.RawMessage, error)
}

// Resolver turns channel identifiers into channel metadata.
type Resolver interface {
	Resolve(ctx context.Context, id models.ChannelIdentifier) (models.ChannelInfo, error)
	HasAPIKey() bool
}

// Router holds the collaborators every handler may use.
type Router struct {
	Sessions Sessions
	Gateway  Executor
	Channels Resolver
	// Endpoint is the configured catalog URL, reported by getConfiguration.
	Endpoint string
	Log      *zap.Logger
}

type deviceInfoKey struct{}

// WithDeviceInfo attaches the caller's "Browser on OS" label, sent with login.
func WithDeviceInfo(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, deviceInfoKey{}, label)
}

// DeviceInfoFrom returns the label set by WithDeviceInfo, or "Unknown device".
func DeviceInfoFrom(ctx context.Context) string {
	if v, ok := ctx.Value(deviceInfoKey{}).(string); ok && v != "" {
		return v
	}
	return "Unknown device"
}

// Dispatch runs req and returns its envelope. A panicking handler yields a
// failed envelope.
func (r *Router) Dispatch(ctx context.Context, req Request) (resp models.Response) {
	log := r.logger().With(zap.String("action", req.Action()))
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("handler panic", zap.Any("panic", rec), zap.Stack("stack"))
			resp = models.Fail("Internal error")
		}
	}()

	resp = req.handle(ctx, r)
	if resp.Success {
		log.Debug("action handled")
	} else {
		log.Info("action failed", zap.String("error", resp.Error))
	}
	return resp
}

// HandleMessage decodes raw and dispatches it.
func (r *Router) HandleMessage(ctx context.Context, raw []byte) (models.Response, error) {
	req, err := Decode(raw)
	if err != nil {
		return models.Fail("invalid request"), err
	}
	return r.Dispatch(ctx, req), nil
}

func (r *Router) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// errorMessage maps an error to the text shown to the user.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		return "Not authenticated"
	case errors.Is(err, gateway.ErrSessionExpired):
		return "Session expired. Please log in again."
	case errors.Is(err, session.ErrNetwork):
		return "Network error: " + strings.TrimPrefix(err.Error(), session.ErrNetwork.Error()+": ")
	default:
		return err.Error()
	}
}

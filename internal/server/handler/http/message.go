// Package http exposes the message router to the extension over a loopback
// HTTP bridge.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/shorthub/coordinator/internal/models"
	"github.com/shorthub/coordinator/internal/router"
	"github.com/shorthub/coordinator/internal/session"
)

const maxMessageBytes = 1 << 20

// MessageRouter decodes and dispatches one action message.
type MessageRouter interface {
	// HandleMessage returns the envelope for raw. A non-nil error means raw
	// could not be decoded; the envelope is still safe to send.
	HandleMessage(ctx context.Context, raw []byte) (models.Response, error)
}

// MessageHandler serves POST /api/message.
type MessageHandler struct {
	// Router dispatches decoded actions.
	Router MessageRouter
	Log    *zap.Logger
}

// Message reads an action message, attaches the caller's device label from
// its User-Agent, and writes the result envelope. Dispatch failures are
// reported inside the envelope with status 200; only undecodable bodies get 400.
func (h *MessageHandler) Message(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.Fail("invalid request"))
		return
	}

	ctx := router.WithDeviceInfo(r.Context(), session.DeviceInfo(r.UserAgent()))
	resp, err := h.Router.HandleMessage(ctx, raw)
	if err != nil {
		if h.Log != nil {
			h.Log.Debug("undecodable message", zap.Error(err))
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health serves GET /api/health.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shorthub/coordinator/internal/models"
)

// ErrMalformed is returned by Decode when the message is not a JSON object.
var ErrMalformed = errors.New("malformed message")

// Request is one inbound action. The set is closed: only types in this
// package implement it, and each carries its own handler.
type Request interface {
	Action() string
	handle(ctx context.Context, r *Router) models.Response
}

// LoginRequest exchanges credentials for a session.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LogoutRequest ends the session.
type LogoutRequest struct{}

// GetUserInfoRequest reports the validated user, if any.
type GetUserInfoRequest struct{}

// SetAuthTokenRequest installs a manually entered access token.
type SetAuthTokenRequest struct {
	Token string `json:"token"`
}

// GetAuthTokenRequest returns the current access token.
type GetAuthTokenRequest struct{}

// ExtractChannelRequest resolves a platform URL to channel metadata.
type ExtractChannelRequest struct {
	URL string `json:"url"`
}

// SaveChannelRequest submits a channel to the catalog.
type SaveChannelRequest struct {
	Data models.SubmissionRecord `json:"data"`
}

// TestConnectionRequest checks the catalog accepts the current credential.
type TestConnectionRequest struct{}

// GetConfigurationRequest reports which remote services are configured.
type GetConfigurationRequest struct{}

// UnknownRequest is any action name not listed above.
type UnknownRequest struct {
	Name string `json:"-"`
}

func (*LoginRequest) Action() string            { return "login" }
func (*LogoutRequest) Action() string           { return "logout" }
func (*GetUserInfoRequest) Action() string      { return "getUserInfo" }
func (*SetAuthTokenRequest) Action() string     { return "setAuthToken" }
func (*GetAuthTokenRequest) Action() string     { return "getAuthToken" }
func (*ExtractChannelRequest) Action() string   { return "extractChannelFromUrl" }
func (*SaveChannelRequest) Action() string      { return "saveChannel" }
func (*TestConnectionRequest) Action() string   { return "testConnection" }
func (*GetConfigurationRequest) Action() string { return "getConfiguration" }
func (u *UnknownRequest) Action() string        { return u.Name }

var actions = map[string]func() Request{}

func init() {
	for _, newReq := range []func() Request{
		func() Request { return &LoginRequest{} },
		func() Request { return &LogoutRequest{} },
		func() Request { return &GetUserInfoRequest{} },
		func() Request { return &SetAuthTokenRequest{} },
		func() Request { return &GetAuthTokenRequest{} },
		func() Request { return &ExtractChannelRequest{} },
		func() Request { return &SaveChannelRequest{} },
		func() Request { return &TestConnectionRequest{} },
		func() Request { return &GetConfigurationRequest{} },
	} {
		actions[newReq().Action()] = newReq
	}
}

// Decode reads {"action": "...", ...inputs} into the matching request type.
// An unrecognized action decodes to *UnknownRequest, not an error.
func Decode(raw []byte) (Request, error) {
	var envelope struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	newReq, ok := actions[envelope.Action]
	if !ok {
		return &UnknownRequest{Name: envelope.Action}, nil
	}
	req := newReq()
	if err := json.Unmarshal(raw, req); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, envelope.Action, err)
	}
	return req, nil
}

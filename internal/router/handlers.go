package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shorthub/coordinator/internal/channelurl"
	"github.com/shorthub/coordinator/internal/graphql"
	"github.com/shorthub/coordinator/internal/models"
	"github.com/shorthub/coordinator/internal/session"
	"github.com/shorthub/coordinator/internal/validation"
)

func (q *LoginRequest) handle(ctx context.Context, r *Router) models.Response {
	if q.Username == "" || q.Password == "" {
		return models.Fail("Username and password are required")
	}
	user, err := r.Sessions.Login(ctx, q.Username, q.Password, DeviceInfoFrom(ctx))
	if err != nil {
		return models.Fail(errorMessage(err))
	}
	return models.Response{Success: true, Message: "Login successful", User: user}
}

func (*LogoutRequest) handle(ctx context.Context, r *Router) models.Response {
	r.Sessions.Logout(ctx)
	return models.Response{Success: true, Message: "Logged out successfully"}
}

func (*GetUserInfoRequest) handle(_ context.Context, r *Router) models.Response {
	sess := r.Sessions.Snapshot()
	hasAuth := sess.Authenticated()
	return models.Response{
		Success:   true,
		User:      sess.User,
		HasAuth:   &hasAuth,
		ExpiresAt: session.TokenExpiry(sess.AccessToken),
	}
}

func (q *SetAuthTokenRequest) handle(ctx context.Context, r *Router) models.Response {
	if q.Token == "" {
		return models.Fail("Token is required")
	}
	user, err := r.Sessions.SetManualToken(ctx, q.Token)
	if err != nil {
		return models.Fail(errorMessage(err))
	}
	return models.Response{Success: true, Message: "Token saved successfully", User: user}
}

func (*GetAuthTokenRequest) handle(_ context.Context, r *Router) models.Response {
	token := r.Sessions.Snapshot().AccessToken
	return models.Response{Success: true, Token: token, ExpiresAt: session.TokenExpiry(token)}
}

func (q *ExtractChannelRequest) handle(ctx context.Context, r *Router) models.Response {
	if q.URL == "" {
		return models.Fail("URL is required")
	}
	id, ok := channelurl.Parse(q.URL)
	if !ok {
		return models.Fail("Could not extract channel information from URL")
	}
	info, err := r.Channels.Resolve(ctx, id)
	if err != nil {
		return models.Fail(fmt.Sprintf("Failed to fetch channel data: %s", err))
	}
	return models.Response{Success: true, Data: info}
}

func (q *SaveChannelRequest) handle(ctx context.Context, r *Router) models.Response {
	if err := validation.ValidateSubmission(q.Data); err != nil {
		return models.Fail(err.Error())
	}

	vars := map[string]any{"input": map[string]any{
		"youtubeUrl":  q.Data.YoutubeURL,
		"contentType": string(q.Data.ContentType),
	}}
	raw, err := r.Gateway.Execute(ctx, graphql.CreateSourceChannelMutation, vars, true)
	if err != nil {
		return models.Fail(errorMessage(err))
	}

	var data struct {
		CreateSourceChannel json.RawMessage `json:"createSourceChannel"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.Fail(fmt.Sprintf("Unexpected response: %s", err))
	}
	return models.Response{Success: true, Data: data.CreateSourceChannel}
}

func (*TestConnectionRequest) handle(ctx context.Context, r *Router) models.Response {
	raw, err := r.Gateway.Execute(ctx, graphql.MeQuery, nil, true)
	if err != nil {
		return models.Fail(errorMessage(err))
	}

	var data struct {
		Me *models.User `json:"me"`
	}
	if err := json.Unmarshal(raw, &data); err != nil || data.Me == nil {
		return models.Fail("Connection failed: no user returned")
	}
	return models.Response{Success: true, Message: "Connection successful", User: data.Me}
}

type configuration struct {
	HasEndpoint bool `json:"hasEndpoint"`
	HasAPIKey   bool `json:"hasApiKey"`
	Configured  bool `json:"configured"`
}

func (*GetConfigurationRequest) handle(_ context.Context, r *Router) models.Response {
	cfg := configuration{
		HasEndpoint: r.Endpoint != "",
		HasAPIKey:   r.Channels.HasAPIKey(),
	}
	cfg.Configured = cfg.HasEndpoint
	return models.Response{Success: true, Data: cfg}
}

func (*UnknownRequest) handle(context.Context, *Router) models.Response {
	return models.Fail("Unknown action")
}

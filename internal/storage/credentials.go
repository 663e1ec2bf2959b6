package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/shorthub/coordinator/internal/models"
)

// Keys persisted by the coordinator.
const (
	KeyAuthToken    = "authToken"
	KeyRefreshToken = "refreshToken"
	KeyUserInfo     = "userInfo"
	KeyDeviceID     = "deviceId"
)

// CredentialStore maps a models.Session onto the authToken, refreshToken
// and userInfo keys of a KV. It has no state of its own.
type CredentialStore struct {
	kv KV
}

// NewCredentialStore wraps kv.
func NewCredentialStore(kv KV) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Load reads the persisted session. An empty store yields a zero Session.
func (s *CredentialStore) Load(ctx context.Context) (models.Session, error) {
	vals, err := s.kv.Get(ctx, KeyAuthToken, KeyRefreshToken, KeyUserInfo)
	if err != nil {
		return models.Session{}, fmt.Errorf("load credentials: %w", err)
	}

	sess := models.Session{
		AccessToken:  vals[KeyAuthToken],
		RefreshToken: vals[KeyRefreshToken],
	}
	if raw, ok := vals[KeyUserInfo]; ok && raw != "" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return models.Session{}, fmt.Errorf("decode %s: %w", KeyUserInfo, err)
		}
		sess.User = &u
	}
	return sess, nil
}

// Save mirrors sess into the store. Fields that are empty in sess are removed
// so that a manual token never inherits a stale refresh token.
func (s *CredentialStore) Save(ctx context.Context, sess models.Session) error {
	set := map[string]string{}
	var drop []string

	if sess.AccessToken != "" {
		set[KeyAuthToken] = sess.AccessToken
	} else {
		drop = append(drop, KeyAuthToken)
	}
	if sess.RefreshToken != "" {
		set[KeyRefreshToken] = sess.RefreshToken
	} else {
		drop = append(drop, KeyRefreshToken)
	}
	if sess.User != nil {
		b, err := json.Marshal(sess.User)
		if err != nil {
			return err
		}
		set[KeyUserInfo] = string(b)
	} else {
		drop = append(drop, KeyUserInfo)
	}

	if len(set) > 0 {
		if err := s.kv.Set(ctx, set); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
	}
	if len(drop) > 0 {
		if err := s.kv.Remove(ctx, drop...); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
	}
	return nil
}

// Clear removes every session key. The device id survives.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, KeyAuthToken, KeyRefreshToken, KeyUserInfo); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// DeviceID returns the install's stable device id, creating it on first use.
func (s *CredentialStore) DeviceID(ctx context.Context) (string, error) {
	vals, err := s.kv.Get(ctx, KeyDeviceID)
	if err != nil {
		return "", fmt.Errorf("load device id: %w", err)
	}
	if id := vals[KeyDeviceID]; id != "" {
		return id, nil
	}
	id := uuid.NewString()
	if err := s.kv.Set(ctx, map[string]string{KeyDeviceID: id}); err != nil {
		return "", fmt.Errorf("save device id: %w", err)
	}
	return id, nil
}

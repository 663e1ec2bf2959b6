// Package session owns the coordinator's authentication state: the access
// token, the refresh token and the validated user. All transitions go through
// Manager, which mirrors every change into the credential store.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/shorthub/coordinator/internal/graphql"
	"github.com/shorthub/coordinator/internal/models"
	"github.com/shorthub/coordinator/internal/storage"
)

var (
	// ErrNotAuthenticated is returned when an operation needs an access token and none is held.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNetwork wraps transport failures talking to the catalog.
	ErrNetwork = errors.New("network error")
	// ErrInvalidToken is returned when the catalog accepts a token but reports no user.
	ErrInvalidToken = errors.New("invalid token")
)

// Remote executes one GraphQL operation. *graphql.Client implements it.
type Remote interface {
	Do(ctx context.Context, token, query string, vars map[string]any) (*graphql.Response, error)
}

// Manager holds the session. The mutex only keeps individual field reads and
// writes race-free; a handler that awaits several steps sees whatever state
// other handlers left in between.
type Manager struct {
	remote Remote
	store  *storage.CredentialStore
	log    *zap.Logger

	mu   sync.RWMutex
	sess models.Session

	refreshing atomic.Bool
}

// NewManager returns a Manager with an empty session. Call Restore to load
// persisted credentials.
func NewManager(remote Remote, store *storage.CredentialStore, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{remote: remote, store: store, log: log}
}

// Restore loads the session from the credential store.
func (m *Manager) Restore(ctx context.Context) error {
	sess, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sess = sess
	m.mu.Unlock()

	if sess.Authenticated() {
		m.log.Info("session restored", zap.String("username", username(sess.User)), zap.Bool("refreshable", sess.RefreshToken != ""))
	}
	return nil
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.sess
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// AccessToken returns the current access token, or "".
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess.AccessToken
}

type loginData struct {
	Login struct {
		Token        string       `json:"token"`
		RefreshToken string       `json:"refreshToken"`
		User         *models.User `json:"user"`
	} `json:"login"`
}

// Login exchanges credentials for a token pair. deviceInfo is a display
// label such as "Chrome on Windows". Concurrent logins are not serialized;
// the last one to finish wins.
func (m *Manager) Login(ctx context.Context, username, password, deviceInfo string) (*models.User, error) {
	vars := map[string]any{"input": map[string]any{
		"username":   username,
		"password":   password,
		"deviceInfo": deviceInfo,
	}}

	resp, err := m.remote.Do(ctx, "", graphql.LoginMutation, vars)
	if err != nil {
		return nil, transportErr(err)
	}
	if err := resp.Err(); err != nil {
		m.log.Info("login rejected", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	var data loginData
	if err := resp.Decode(&data); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if data.Login.Token == "" || data.Login.User == nil {
		return nil, fmt.Errorf("login: %w", graphql.ErrNoData)
	}

	m.set(ctx, models.Session{
		AccessToken:  data.Login.Token,
		RefreshToken: data.Login.RefreshToken,
		User:         data.Login.User,
	})
	m.log.Info("logged in", zap.String("username", data.Login.User.Username), zap.String("device", deviceInfo))

	u := *data.Login.User
	return &u, nil
}

type meData struct {
	Me *models.User `json:"me"`
}

// SetManualToken validates token with the identify query and, if accepted,
// stores it without a refresh token. A rejected token leaves the session as it was.
func (m *Manager) SetManualToken(ctx context.Context, token string) (*models.User, error) {
	user, err := m.identify(ctx, token)
	if err != nil {
		m.log.Info("manual token rejected", zap.Error(err))
		return nil, err
	}

	m.set(ctx, models.Session{AccessToken: token, User: user})
	m.log.Info("manual token accepted", zap.String("username", user.Username))

	u := *user
	return &u, nil
}

func (m *Manager) identify(ctx context.Context, token string) (*models.User, error) {
	resp, err := m.remote.Do(ctx, token, graphql.MeQuery, nil)
	if err != nil {
		return nil, transportErr(err)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	var data meData
	if err := resp.Decode(&data); err != nil {
		return nil, fmt.Errorf("identify: %w", err)
	}
	if data.Me == nil {
		return nil, ErrInvalidToken
	}
	return data.Me, nil
}

// Logout revokes the refresh token when one is held and clears the session.
// The revocation is best effort; local state is always cleared.
func (m *Manager) Logout(ctx context.Context) {
	sess := m.Snapshot()
	if sess.AccessToken != "" && sess.RefreshToken != "" {
		vars := map[string]any{"refreshToken": sess.RefreshToken}
		resp, err := m.remote.Do(ctx, sess.AccessToken, graphql.LogoutMutation, vars)
		if err == nil {
			err = resp.Err()
		}
		if err != nil {
			m.log.Warn("remote logout failed", zap.String("username", username(sess.User)), zap.Error(err))
		}
	}

	m.clear(ctx)
	m.log.Info("logged out", zap.String("username", username(sess.User)))
}

// ForceLogout clears the session without contacting the catalog.
func (m *Manager) ForceLogout(ctx context.Context) {
	sess := m.Snapshot()
	m.clear(ctx)
	m.log.Warn("session force-cleared", zap.String("username", username(sess.User)))
}

type refreshData struct {
	RefreshToken struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	} `json:"refreshToken"`
}

// Refresh mints a new access token from the refresh token. Only one refresh
// runs at a time; a caller arriving while one is in flight gets ("", false)
// immediately. Failure leaves the session untouched, and so does a result
// that arrives after the session was logged out or replaced.
func (m *Manager) Refresh(ctx context.Context) (string, bool) {
	if !m.refreshing.CompareAndSwap(false, true) {
		return "", false
	}
	defer m.refreshing.Store(false)

	m.mu.RLock()
	rt := m.sess.RefreshToken
	m.mu.RUnlock()
	if rt == "" {
		return "", false
	}

	resp, err := m.remote.Do(ctx, "", graphql.RefreshTokenMutation, map[string]any{"refreshToken": rt})
	if err != nil {
		m.log.Warn("token refresh failed", zap.Error(err))
		return "", false
	}
	if err := resp.Err(); err != nil {
		m.log.Warn("token refresh rejected", zap.Error(err))
		return "", false
	}
	var data refreshData
	if err := resp.Decode(&data); err != nil || data.RefreshToken.Token == "" {
		m.log.Warn("token refresh returned no token", zap.Error(err))
		return "", false
	}

	// The session may have been cleared or replaced while the mutation was in
	// flight; only apply the result to the session whose token was spent.
	m.mu.Lock()
	if m.sess.RefreshToken != rt {
		m.mu.Unlock()
		m.log.Info("token refresh discarded, session changed")
		return "", false
	}
	m.sess.AccessToken = data.RefreshToken.Token
	if data.RefreshToken.RefreshToken != "" {
		m.sess.RefreshToken = data.RefreshToken.RefreshToken
	}
	m.mu.Unlock()
	m.persist(ctx)

	m.log.Info("access token refreshed")
	return data.RefreshToken.Token, true
}

func (m *Manager) set(ctx context.Context, sess models.Session) {
	m.mu.Lock()
	m.sess = sess
	m.mu.Unlock()
	m.persist(ctx)
}

func (m *Manager) persist(ctx context.Context) {
	if err := m.store.Save(ctx, m.Snapshot()); err != nil {
		m.log.Error("persist session", zap.Error(err))
	}
}

func (m *Manager) clear(ctx context.Context) {
	m.mu.Lock()
	m.sess = models.Session{}
	m.mu.Unlock()
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error("clear persisted session", zap.Error(err))
	}
}

func transportErr(err error) error {
	var httpErr *graphql.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

func username(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

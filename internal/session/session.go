// Package session owns the authenticated state of the client and the
// encrypted persistence of its credentials.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"immo-client/internal/event"
	"immo-client/internal/model"
	"immo-client/internal/storage"
	"immo-client/internal/vault"
)

// Storage keys of the three persisted values.
const (
	keyAccessToken  = "uDqCCJOF6m"
	keyRefreshToken = "QWEevBNASp"
	keyUser         = "FU9SZZETkgUS"
)

// Fallback messages for views when the API sends none.
const (
	FallbackRegister = "Registration failed, please try again"
	FallbackLogin    = "Login failed, please check your credentials"
)

var persistedKeys = []string{keyAccessToken, keyRefreshToken, keyUser}

// AuthAPI is the part of the API client the session depends on.
type AuthAPI interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.RegisterResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (model.RefreshResponse, error)
	VerifyEmail(ctx context.Context, token string) (model.VerificationResponse, error)
	ResendActivation(ctx context.Context, email string) (model.VerificationResponse, error)
}

type Manager struct {
	mu     sync.Mutex
	store  storage.Store
	vault  *vault.Vault
	client AuthAPI
	bus    event.Bus
	logger *slog.Logger
	now    func() time.Time

	accessToken string
	user        *model.UserProfile
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New builds a manager. Call Hydrate before handing it to consumers.
func New(store storage.Store, v *vault.Vault, client AuthAPI, bus event.Bus, opts ...Option) *Manager {
	if bus == nil {
		bus = event.NewBus()
	}

	m := &Manager{
		store:  store,
		vault:  v,
		client: client,
		bus:    bus,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Hydrate restores a persisted session on start. A session without a valid
// token and user is wiped.
func (m *Manager) Hydrate() bool {
	ok := m.CheckStatus()
	if ok {
		user, _ := m.CurrentUser()
		m.logger.Info("session hydrated", "user_id", user.ID)
	} else {
		m.logger.Info("no valid session found")
	}

	return ok
}

// CheckStatus reports whether the session is authenticated, clearing it
// when the token is missing, expired or undecryptable.
func (m *Manager) CheckStatus() bool {
	m.mu.Lock()
	token := m.tokenLocked()
	user := m.userLocked()
	valid := token != "" && user != nil && !tokenExpired(token, m.now())
	if !valid {
		m.clearLocked()
	}
	m.mu.Unlock()

	return valid
}

// Register never authenticates; the account still has to be verified.
func (m *Manager) Register(ctx context.Context, req model.RegisterRequest) (model.RegisterResponse, error) {
	resp, err := m.client.Register(ctx, req)
	if err != nil {
		m.logger.Warn("registration failed", "email", req.Email, "error", err)
		return model.RegisterResponse{}, err
	}

	m.logger.Info("registration succeeded", "email", resp.Data.User.Email)
	return resp, nil
}

func (m *Manager) Login(ctx context.Context, req model.LoginRequest) (model.UserProfile, error) {
	resp, err := m.client.Login(ctx, req)
	if err != nil {
		m.logger.Warn("login failed", "email", req.Email, "error", err)
		return model.UserProfile{}, err
	}

	user := resp.Data.User

	m.mu.Lock()
	err = m.persistLocked(resp.Data.AccessToken, resp.Data.RefreshToken, user)
	if err != nil {
		m.clearLocked()
	}
	m.mu.Unlock()

	if err != nil {
		return model.UserProfile{}, fmt.Errorf("persist session: %w", err)
	}

	m.logger.Info("login succeeded", "user_id", user.ID, "role", user.Role)
	m.bus.Publish(event.New(event.TypeUserChanged, user))

	return user, nil
}

// Logout clears persisted and in-memory state. It makes no network call.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.clearLocked()
	m.mu.Unlock()

	m.logger.Info("session cleared")
	m.bus.Publish(event.New(event.TypeSessionCleared, nil))
}

// RefreshToken exchanges the refresh token for a new access token. Any
// failure ends the session.
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	refresh, err := m.readSecretLocked(keyRefreshToken)
	m.mu.Unlock()

	if err != nil || refresh == "" {
		return "", model.ErrNoRefreshToken
	}

	resp, err := m.client.Refresh(ctx, refresh)
	if err != nil {
		m.logger.Warn("token refresh failed", "error", err)
		m.Logout()
		return "", fmt.Errorf("refresh token: %w", err)
	}

	m.mu.Lock()
	err = m.writeSecretLocked(keyAccessToken, resp.Token)
	if err == nil {
		m.accessToken = resp.Token
	}
	m.mu.Unlock()

	if err != nil {
		m.Logout()
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	m.logger.Debug("access token refreshed")
	m.bus.Publish(event.New(event.TypeTokenRefreshed, nil))

	return resp.Token, nil
}

func (m *Manager) VerifyEmail(ctx context.Context, token string) (model.VerificationResponse, error) {
	return m.client.VerifyEmail(ctx, token)
}

func (m *Manager) ResendActivation(ctx context.Context, email string) (model.VerificationResponse, error) {
	return m.client.ResendActivation(ctx, email)
}

func (m *Manager) HasToken() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokenLocked() != ""
}

// IsTokenExpired is true when there is no token or its exp is not in the
// future.
func (m *Manager) IsTokenExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return tokenExpired(m.tokenLocked(), m.now())
}

func (m *Manager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := m.tokenLocked()
	return token != "" && !tokenExpired(token, m.now())
}

func (m *Manager) CurrentUser() (model.UserProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.userLocked()
	if user == nil {
		return model.UserProfile{}, false
	}

	return *user, true
}

// AccessToken is the token source of the API client.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokenLocked()
}

// Subscribe delivers user changes and session clears.
func (m *Manager) Subscribe() (<-chan event.Event, func()) {
	return m.bus.Subscribe()
}

func (m *Manager) tokenLocked() string {
	if m.accessToken != "" {
		return m.accessToken
	}

	token, err := m.readSecretLocked(keyAccessToken)
	if err != nil {
		return ""
	}

	m.accessToken = token
	return token
}

func (m *Manager) userLocked() *model.UserProfile {
	if m.user != nil {
		return m.user
	}

	raw, err := m.store.Get(keyUser)
	if err != nil {
		if !errors.Is(err, model.ErrKeyNotFound) {
			m.logger.Warn("read stored user failed", "error", err)
		}
		return nil
	}
	if raw == "" {
		return nil
	}

	var user model.UserProfile
	if err := m.vault.DecryptObject(raw, &user); err != nil {
		m.logger.Warn("stored user is unreadable, clearing session", "error", err)
		m.clearLocked()
		return nil
	}

	m.user = &user
	return m.user
}

// readSecretLocked returns "" for a missing key. A value that does not
// decrypt wipes the whole session.
func (m *Manager) readSecretLocked(key string) (string, error) {
	raw, err := m.store.Get(key)
	if err != nil {
		if errors.Is(err, model.ErrKeyNotFound) {
			return "", nil
		}
		m.logger.Warn("read session value failed", "key", key, "error", err)
		return "", err
	}

	value, err := m.vault.Decrypt(raw)
	if err != nil {
		m.logger.Warn("session value is unreadable, clearing session", "key", key, "error", err)
		m.clearLocked()
		return "", err
	}

	return value, nil
}

func (m *Manager) writeSecretLocked(key string, value string) error {
	encrypted, err := m.vault.Encrypt(value)
	if err != nil {
		return err
	}

	return m.store.Set(key, encrypted)
}

func (m *Manager) persistLocked(accessToken string, refreshToken string, user model.UserProfile) error {
	if err := m.writeSecretLocked(keyAccessToken, accessToken); err != nil {
		return err
	}

	if refreshToken == "" {
		if err := m.store.Remove(keyRefreshToken); err != nil {
			return err
		}
	} else if err := m.writeSecretLocked(keyRefreshToken, refreshToken); err != nil {
		return err
	}

	encryptedUser, err := m.vault.EncryptObject(user)
	if err != nil {
		return err
	}
	if err := m.store.Set(keyUser, encryptedUser); err != nil {
		return err
	}

	m.accessToken = accessToken
	stored := user
	m.user = &stored

	return nil
}

func (m *Manager) clearLocked() {
	for _, key := range persistedKeys {
		if err := m.store.Remove(key); err != nil {
			m.logger.Warn("remove session value failed", "key", key, "error", err)
		}
	}

	m.accessToken = ""
	m.user = nil
}

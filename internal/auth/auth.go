// Package auth holds the bearer credential and reacts to expired sessions.
package auth

import (
	"fmt"
	"sync"

	"github.com/rodstewart/estatectl/internal/config"
	"github.com/rodstewart/estatectl/internal/logger"
)

// TokenSource supplies the bearer token for outgoing requests
type TokenSource interface {
	Token() string
}

// Store is persisted credential storage
type Store interface {
	TokenSource
	SetToken(token string) error
	Clear() error
}

// MemoryStore keeps the token in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates a store holding token
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.SetToken("")
}

// ConfigStore persists the token in the config file alongside the URL
type ConfigStore struct {
	mu   sync.Mutex
	path string
	cfg  *config.Config
}

// NewConfigStore wraps cfg, saving changes to path
func NewConfigStore(cfg *config.Config, path string) *ConfigStore {
	return &ConfigStore{path: path, cfg: cfg}
}

func (c *ConfigStore) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Token
}

func (c *ConfigStore) SetToken(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Token = token
	if err := config.Save(c.cfg, c.path); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	return nil
}

func (c *ConfigStore) Clear() error {
	return c.SetToken("")
}

// Session tracks whether the stored credential is still accepted. The first
// 401 after a login clears the credential and calls onLogout; later 401s are
// ignored until Login is called again, so the logout surface is entered once.
type Session struct {
	mu        sync.Mutex
	store     Store
	onLogout  func()
	loggedOut bool
	log       *logger.Logger
}

// NewSession creates a session over store. onLogout may be nil.
func NewSession(store Store, onLogout func(), log *logger.Logger) *Session {
	if log == nil {
		log = logger.Discard()
	}
	return &Session{
		store:     store,
		onLogout:  onLogout,
		loggedOut: store.Token() == "",
		log:       log,
	}
}

// Token returns the current credential, or "" once logged out
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loggedOut {
		return ""
	}
	return s.store.Token()
}

// LoggedOut reports whether the session is waiting for a new login
func (s *Session) LoggedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedOut
}

// HandleUnauthorized is installed as the API client's 401 handler
func (s *Session) HandleUnauthorized() {
	s.mu.Lock()
	if s.loggedOut {
		s.mu.Unlock()
		return
	}
	s.loggedOut = true
	onLogout := s.onLogout
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.log.Warn("failed to clear stored credentials", "error", err)
	}
	s.log.Info("session expired, credentials cleared")

	if onLogout != nil {
		onLogout()
	}
}

// Login stores a new token and re-arms the 401 handler
func (s *Session) Login(token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if err := s.store.SetToken(token); err != nil {
		return err
	}
	s.mu.Lock()
	s.loggedOut = false
	s.mu.Unlock()
	return nil
}

// SetLogoutHandler replaces the callback run on the first 401
func (s *Session) SetLogoutHandler(fn func()) {
	s.mu.Lock()
	s.onLogout = fn
	s.mu.Unlock()
}

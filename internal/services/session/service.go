package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roomsync/roomsync/internal/dependencies/clock"
	"github.com/roomsync/roomsync/internal/model"
)

// State is the derived position of a session in the lifecycle
// Identified -> TenantConnected -> InRoom
type State string

const (
	StateIdentified      State = "identified"
	StateTenantConnected State = "tenant_connected"
	StateInRoom          State = "in_room"
)

// Session is the per-connection state machine tracking identity, tenant
// connection and room membership. Sessions only exist after a login, so
// holding one at all means the caller is identified.
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	TenantKey model.TenantKey
	Connected bool
	RoomCode  model.RoomCode
	CreatedAt time.Time
	ExpiresAt time.Time
}

// State reports where the session currently sits in the lifecycle
func (s *Session) State() State {
	switch {
	case s.RoomCode != "":
		return StateInRoom
	case s.Connected:
		return StateTenantConnected
	default:
		return StateIdentified
	}
}

// Manager owns all session state, keyed by token. Each session is mutated
// only through Manager methods under the lock; callers always receive
// snapshots, never live pointers into the map.
type Manager struct {
	clock clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the session manager
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// NewManager creates a new session Manager
func NewManager(clock clock.Clock, cfg Config) *Manager {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Manager{
		clock:           clock,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Login establishes identity. With a valid existing token the session is
// reset in place: the new player id is taken on and any tenant connection
// or room membership is dropped. Otherwise a fresh session is issued.
func (m *Manager) Login(token string, playerID model.PlayerID) (*Session, error) {
	if playerID == "" {
		return nil, model.ErrMissingPlayerID
	}

	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if token != "" {
		if sess, ok := m.sessions[token]; ok && now.Before(sess.ExpiresAt) {
			sess.PlayerID = playerID
			sess.TenantKey = ""
			sess.Connected = false
			sess.RoomCode = ""
			sess.ExpiresAt = now.Add(m.sessionDuration)
			return snapshot(sess), nil
		}
	}

	sess := &Session{
		Token:     "sess_" + uuid.NewString(),
		PlayerID:  playerID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.sessionDuration),
	}
	m.sessions[sess.Token] = sess
	return snapshot(sess), nil
}

// Validate asserts the identity precondition: an unknown or expired token
// means the caller is not logged in. The expiry check and snapshot happen
// under the read lock; a concurrent update must never show through a
// half-copied session.
func (m *Manager) Validate(token string) (*Session, error) {
	if token == "" {
		return nil, model.ErrNotLoggedIn
	}

	now := m.clock.Now()

	m.mu.RLock()
	sess, ok := m.sessions[token]
	if ok && now.Before(sess.ExpiresAt) {
		snap := snapshot(sess)
		m.mu.RUnlock()
		return snap, nil
	}
	m.mu.RUnlock()

	if !ok {
		return nil, model.ErrNotLoggedIn
	}

	// Expired. Re-check under the write lock; a concurrent Login may have
	// refreshed the session between the two lock acquisitions.
	m.mu.Lock()
	if sess, ok := m.sessions[token]; ok && !now.Before(sess.ExpiresAt) {
		delete(m.sessions, token)
	}
	m.mu.Unlock()
	return nil, model.ErrNotLoggedIn
}

// Connected asserts both session preconditions in the mandated order:
// identity first, tenant connection second.
func (m *Manager) Connected(token string) (*Session, error) {
	sess, err := m.Validate(token)
	if err != nil {
		return nil, err
	}
	if !sess.Connected {
		return nil, model.ErrNotConnected
	}
	return sess, nil
}

// SetConnected moves the session to TenantConnected
func (m *Manager) SetConnected(token string, key model.TenantKey) error {
	return m.update(token, func(sess *Session) error {
		sess.TenantKey = key
		sess.Connected = true
		return nil
	})
}

// ClearConnected moves the session back to Identified. Any room reference
// is dropped with the connection.
func (m *Manager) ClearConnected(token string) error {
	return m.update(token, func(sess *Session) error {
		if !sess.Connected {
			return model.ErrNotConnected
		}
		sess.TenantKey = ""
		sess.Connected = false
		sess.RoomCode = ""
		return nil
	})
}

// SetRoom records the session's current room
func (m *Manager) SetRoom(token string, code model.RoomCode) error {
	return m.update(token, func(sess *Session) error {
		sess.RoomCode = code
		return nil
	})
}

// ClearRoom drops the session's current room reference
func (m *Manager) ClearRoom(token string) error {
	return m.update(token, func(sess *Session) error {
		sess.RoomCode = ""
		return nil
	})
}

// Invalidate removes a session
func (m *Manager) Invalidate(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// CleanExpired removes expired sessions (call periodically)
func (m *Manager) CleanExpired() {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, sess := range m.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
}

// update applies fn to the live session under the lock
func (m *Manager) update(token string, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return model.ErrNotLoggedIn
	}
	if !m.clock.Now().Before(sess.ExpiresAt) {
		delete(m.sessions, token)
		return model.ErrNotLoggedIn
	}
	return fn(sess)
}

func snapshot(sess *Session) *Session {
	s := *sess
	return &s
}

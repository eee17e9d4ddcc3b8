// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/quizboard/game"
)

// Session 浏览器会话，独占一局游戏
type Session struct {
	ID         string
	Game       *game.Game
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, g *game.Game) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Game:       g,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.LastActive = time.Now()
}

// IdleSince reports how long the session has been unused.
func (s *Session) IdleSince(now time.Time) time.Duration {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return now.Sub(s.LastActive)
}

func (s *Session) GetID() string {
	return s.ID
}

// Session管理器
type Manager struct {
	sessions map[string]*Session
	newGame  func() *game.Game
	mutex    sync.RWMutex
}

// NewManager creates a session manager. newGame builds the fresh game
// a new session starts with.
func NewManager(newGame func() *game.Game) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		newGame:  newGame,
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// GetOrCreate returns the session for the given ID, creating a new one
// with a fresh game when the ID is empty or unknown. The second return
// value reports whether a new session was created.
func (m *Manager) GetOrCreate(sessionID string) (*Session, bool) {
	if sessionID != "" {
		if session, exists := m.Get(sessionID); exists {
			return session, false
		}
	}

	session := NewSession(uuid.New().String(), m.newGame())

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
	return session, true
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// SweepIdle removes sessions idle longer than maxIdle and returns how
// many were dropped.
func (m *Manager) SweepIdle(maxIdle time.Duration) int {
	now := time.Now()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if session.IdleSince(now) > maxIdle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

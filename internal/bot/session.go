package bot

import (
	"sync"
)

// State is the position of one chat in the admin state machine.
type State int

const (
	StateAnonymous State = iota
	StateAwaitingPassword
	StateAuthenticated
)

// Pending marks an authenticated session waiting for one specific input.
type Pending int

const (
	PendingNone Pending = iota
	PendingBroadcast
)

// Session is the per-chat conversational state. It is never persisted;
// authentication does not survive a restart, roster membership does.
type Session struct {
	State      State
	Role       Role
	EditTarget string
	Pending    Pending
}

// SessionStore keeps per-chat sessions. It is injected into the engine
// instead of living as module state.
type SessionStore interface {
	Get(chatID int64) Session
	Put(chatID int64, s Session)
	Reset(chatID int64)
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

// NewSessionStore returns an in-memory session store.
func NewSessionStore() SessionStore {
	return &memorySessions{sessions: make(map[int64]Session)}
}

func (m *memorySessions) Get(chatID int64) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[chatID]
}

func (m *memorySessions) Put(chatID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = s
}

func (m *memorySessions) Reset(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

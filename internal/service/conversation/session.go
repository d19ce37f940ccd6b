package conversation

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
)

type session struct {
	turns []models.ConversationTurn
	// exchange is held for a whole question/answer cycle so turns stay paired.
	exchange sync.Mutex
}

// SessionManager keeps the append-only turn history of every advisory session.
type SessionManager struct {
	sessions map[string]*session
	mu       sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*session),
	}
}

// Create opens an empty session and returns its id.
func (sm *SessionManager) Create() string {
	id := uuid.NewString()
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[id] = &session{}
	return id
}

// Acquire blocks until no other exchange runs on the session and returns the
// release function. ok is false for unknown sessions.
func (sm *SessionManager) Acquire(sessionID string) (release func(), ok bool) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return func() {}, false
	}
	sess.exchange.Lock()
	return sess.exchange.Unlock, true
}

// History returns a copy of the session turns.
func (sm *SessionManager) History(sessionID string) ([]models.ConversationTurn, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sess, ok := sm.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return slices.Clone(sess.turns), true
}

// Append adds a turn at the end of the session history.
func (sm *SessionManager) Append(sessionID string, turn models.ConversationTurn) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sess, ok := sm.sessions[sessionID]
	if !ok {
		return false
	}
	sess.turns = append(sess.turns, turn)
	return true
}

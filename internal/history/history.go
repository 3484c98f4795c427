package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message is one line of an in-memory chat session. Sessions are never persisted.
type Message struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	IsFromAssistant bool      `json:"isFromAssistant"`
	Timestamp       time.Time `json:"timestamp"`
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string][]Message
	limit    int
	now      func() time.Time
}

// NewManager keeps at most limit messages per session; limit <= 0 keeps everything.
func NewManager(limit int) *Manager {
	return &Manager{
		sessions: make(map[string][]Message),
		limit:    limit,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) Reset(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) AppendUser(sessionID, text string) Message {
	return m.append(sessionID, text, false)
}

func (m *Manager) AppendAssistant(sessionID, text string) Message {
	return m.append(sessionID, text, true)
}

func (m *Manager) append(sessionID, text string, fromAssistant bool) Message {
	msg := Message{
		ID:              uuid.NewString(),
		Text:            text,
		IsFromAssistant: fromAssistant,
		Timestamp:       m.now(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := append(m.sessions[sessionID], msg)
	if m.limit > 0 && len(msgs) > m.limit {
		msgs = append([]Message(nil), msgs[len(msgs)-m.limit:]...)
	}
	m.sessions[sessionID] = msgs
	return msg
}

// Get returns a copy of the session's messages, oldest first.
func (m *Manager) Get(sessionID string) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.sessions[sessionID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

func (m *Manager) Exists(sessionID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[sessionID]
	return ok
}

// Package memory holds per-session conversation transcripts. Transcripts live
// only for the duration of the process; nothing is persisted.
package memory

import (
	"strings"
	"sync"
	"time"
)

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Record is a single transcript entry.
type Record struct {
	Role    string
	Content string
	At      time.Time
}

// SessionMemory keeps a bounded transcript window per session. It is safe for
// concurrent use, although the conversation loop appends from a single
// goroutine.
type SessionMemory struct {
	mu       sync.RWMutex
	window   int
	sessions map[string][]Record
}

const defaultWindow = 128

// NewSessionMemory creates a SessionMemory keeping at most window records per
// session. Non-positive window applies the default.
func NewSessionMemory(window int) *SessionMemory {
	if window <= 0 {
		window = defaultWindow
	}
	return &SessionMemory{
		window:   window,
		sessions: make(map[string][]Record),
	}
}

// Add appends a record to the session transcript, dropping the oldest entries
// once the window is exceeded. Empty content is ignored.
func (m *SessionMemory) Add(sessionID, role, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	records := append(m.sessions[sessionID], Record{
		Role:    role,
		Content: content,
		At:      time.Now(),
	})
	if overflow := len(records) - m.window; overflow > 0 {
		records = records[overflow:]
	}
	m.sessions[sessionID] = records
}

// History returns up to limit most recent records for the session, oldest
// first. Non-positive limit returns the whole window.
func (m *SessionMemory) History(sessionID string, limit int) []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.sessions[sessionID]
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Len reports the number of records stored for the session.
func (m *SessionMemory) Len(sessionID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[sessionID])
}

// Clear removes the transcript for the session.
func (m *SessionMemory) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Package session keeps the per-user conversation and document state in memory.
// Nothing here outlives the process.
package session

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"fyugp-assistant/internal/models"
)

// Session bundles the state owned by one interactive user.
// Hold the lock for the full duration of a turn.
type Session struct {
	mu sync.Mutex

	ID           uuid.UUID
	CreatedAt    time.Time
	Conversation *Conversation
	Document     *DocumentStore

	lastSeen atomic.Int64 // unix nanos; read without the turn lock
	greeted  bool
}

func New(id uuid.UUID, now time.Time) *Session {
	s := &Session{
		ID:           id,
		CreatedAt:    now,
		Conversation: NewConversation(),
		Document:     NewDocumentStore(),
	}
	s.lastSeen.Store(now.UnixNano())
	return s
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Greet reports true exactly once per session.
func (s *Session) Greet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.greeted {
		return false
	}
	s.greeted = true
	return true
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Info snapshots the session for the API.
func (s *Session) Info() models.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionInfo{
		SessionID: s.ID,
		Entries:   s.Conversation.Len(),
		Document:  documentStatus(s.Document),
		CreatedAt: s.CreatedAt,
		LastSeen:  s.LastSeen(),
	}
}

// DocumentStatus is safe to call without holding the lock.
func (s *Session) DocumentStatus() models.DocumentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return documentStatus(s.Document)
}

func documentStatus(d *DocumentStore) models.DocumentStatus {
	doc, ok := d.Current()
	if !ok {
		return models.DocumentStatus{}
	}
	loadedAt := doc.LoadedAt
	return models.DocumentStatus{
		Loaded:   true,
		Name:     doc.Name,
		Chars:    len(doc.Text),
		Lines:    strings.Count(doc.Text, "\n") + 1,
		LoadedAt: &loadedAt,
	}
}

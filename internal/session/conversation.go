package session

import (
	"time"

	"fyugp-assistant/internal/models"
)

// Conversation is an append-only log of the entries exchanged in one session.
// It is not safe for concurrent use; callers serialize through Session.Lock.
type Conversation struct {
	entries []models.ConversationEntry
	now     func() time.Time
}

func NewConversation() *Conversation {
	return &Conversation{now: time.Now}
}

// Append adds a plain entry at the end of the log and returns it.
func (c *Conversation) Append(speaker models.Speaker, text string) models.ConversationEntry {
	entry := models.ConversationEntry{
		Speaker:   speaker,
		Text:      text,
		CreatedAt: c.now(),
	}
	c.entries = append(c.entries, entry)
	return entry
}

// AppendAnswer adds an assistant entry carrying the answer's source and link.
func (c *Conversation) AppendAnswer(answer models.Answer) models.ConversationEntry {
	entry := models.ConversationEntry{
		Speaker:   models.SpeakerAssistant,
		Text:      answer.Text,
		Source:    answer.Source,
		Link:      answer.Link,
		CreatedAt: c.now(),
	}
	c.entries = append(c.entries, entry)
	return entry
}

func (c *Conversation) Reset() {
	c.entries = nil
}

// Entries returns a copy of the log, oldest first.
func (c *Conversation) Entries() []models.ConversationEntry {
	out := make([]models.ConversationEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Conversation) Len() int {
	return len(c.entries)
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Token     string    `json:"token"`
	Greeting  string    `json:"greeting,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionInfo struct {
	SessionID uuid.UUID      `json:"session_id"`
	Entries   int            `json:"entries"`
	Document  DocumentStatus `json:"document"`
	CreatedAt time.Time      `json:"created_at"`
	LastSeen  time.Time      `json:"last_seen"`
}

// QuickLink is a static outbound navigation link.
type QuickLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

type HelpResponse struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Help     string `json:"help"`
	Tip      string `json:"tip"`
}

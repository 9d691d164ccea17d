package models

import "time"

// Document is the plain text of the most recently uploaded file.
type Document struct {
	Name     string    `json:"name"`
	Text     string    `json:"-"`
	LoadedAt time.Time `json:"loaded_at"`
}

type DocumentStatus struct {
	Loaded   bool       `json:"loaded"`
	Name     string     `json:"name,omitempty"`
	Chars    int        `json:"chars"`
	Lines    int        `json:"lines"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

type SupportedFormat struct {
	Extension   string `json:"extension"`
	MimeType    string `json:"mime_type"`
	Description string `json:"description"`
}

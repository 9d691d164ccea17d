package session

import (
	"time"

	"fyugp-assistant/internal/models"
)

// DocumentStore holds at most one document. Loading replaces whatever was there.
type DocumentStore struct {
	doc    models.Document
	loaded bool
	now    func() time.Time
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{now: time.Now}
}

func (d *DocumentStore) Load(name, rawText string) {
	d.doc = models.Document{
		Name:     name,
		Text:     rawText,
		LoadedAt: d.now(),
	}
	d.loaded = true
}

// Current returns the held document; ok is false when nothing has been loaded.
func (d *DocumentStore) Current() (doc models.Document, ok bool) {
	return d.doc, d.loaded
}

// Text returns the raw text, or "" when empty.
func (d *DocumentStore) Text() string {
	return d.doc.Text
}

func (d *DocumentStore) Clear() {
	d.doc = models.Document{}
	d.loaded = false
}

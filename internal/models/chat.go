package models

import "time"

// Speaker identifies who produced a conversation entry.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// AnswerSource records which resolution tier produced an answer.
type AnswerSource string

const (
	SourceRule     AnswerSource = "rule"
	SourceDocument AnswerSource = "document"
	SourceLookup   AnswerSource = "lookup"
	SourceNoAnswer AnswerSource = "no_answer"
	SourceError    AnswerSource = "error"
)

// Link is a clickable reference attached to an answer. Rendering is up to the client.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Answer is the structured output of answer resolution.
type Answer struct {
	Text   string       `json:"text"`
	Source AnswerSource `json:"source"`
	Link   *Link        `json:"link,omitempty"`
}

// ConversationEntry is a single message in a session's conversation.
type ConversationEntry struct {
	Speaker   Speaker      `json:"speaker"`
	Text      string       `json:"text"`
	Source    AnswerSource `json:"source,omitempty"` // assistant entries only
	Link      *Link        `json:"link,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// AnswerRule maps a lower-case trigger substring to a canned response.
type AnswerRule struct {
	Trigger  string
	Response string
	Link     *Link
}

// ChatRequest is the payload sent to the message endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries both entries appended by one turn.
type ChatResponse struct {
	Question ConversationEntry `json:"question"`
	Answer   ConversationEntry `json:"answer"`
}

type ConversationResponse struct {
	Entries []ConversationEntry `json:"entries"`
	Total   int                 `json:"total"`
}

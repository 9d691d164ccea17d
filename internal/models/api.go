package models

// WebSocket message types
const (
	WSConversationAppended = "conversation.appended"
	WSConversationReset    = "conversation.reset"
	WSDocumentLoaded       = "document.loaded"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

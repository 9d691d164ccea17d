package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"fyugp-assistant/internal/models"
	"fyugp-assistant/internal/services"
	"fyugp-assistant/internal/session"
)

// TokenIssuer signs session handles.
type TokenIssuer interface {
	Issue(sessionID uuid.UUID) (string, error)
}

// SessionCloser tears down anything tied to an ended session (open sockets).
type SessionCloser interface {
	CloseSession(sessionID uuid.UUID)
}

type SessionHandler struct {
	sessions *session.Manager
	tokens   TokenIssuer
	closer   SessionCloser
}

func NewSessionHandler(sessions *session.Manager, tokens TokenIssuer, closer SessionCloser) *SessionHandler {
	return &SessionHandler{sessions: sessions, tokens: tokens, closer: closer}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()

	token, err := h.tokens.Issue(sess.ID)
	if err != nil {
		h.sessions.Delete(sess.ID)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue session token", r))
		return
	}

	resp := models.SessionResponse{
		SessionID: sess.ID,
		Token:     token,
		CreatedAt: sess.CreatedAt,
	}
	if sess.Greet() {
		resp.Greeting = services.WelcomeMessage
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	h.sessions.Delete(sess.ID)
	if h.closer != nil {
		h.closer.CloseSession(sess.ID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session ended"})
}

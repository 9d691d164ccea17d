package handlers

import (
	"encoding/json"
	"net/http"

	"fyugp-assistant/internal/models"
	"fyugp-assistant/internal/services"
)

type ChatHandler struct {
	assistant *services.AssistantService
}

func NewChatHandler(assistant *services.AssistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

func (h *ChatHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	resp, err := h.assistant.Ask(r.Context(), sess, req.Message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	entries := h.assistant.History(sess)
	writeJSON(w, http.StatusOK, models.ConversationResponse{Entries: entries, Total: len(entries)})
}

func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	h.assistant.Reset(r.Context(), sess)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation cleared"})
}

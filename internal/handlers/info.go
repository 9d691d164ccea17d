package handlers

import (
	"net/http"

	"fyugp-assistant/internal/services"
)

type InfoHandler struct{}

func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

func (h *InfoHandler) Links(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"links": services.QuickLinks()})
}

func (h *InfoHandler) Help(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, services.Help())
}

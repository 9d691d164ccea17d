package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"fyugp-assistant/internal/services"
)

type DocumentHandler struct {
	assistant *services.AssistantService
	maxBytes  int64
}

func NewDocumentHandler(assistant *services.AssistantService, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{assistant: assistant, maxBytes: maxBytes}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds upload limit", r))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds upload limit", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not read uploaded file", r))
		return
	}

	status, err := h.assistant.LoadDocument(r.Context(), sess, header.Filename, data)
	if err != nil {
		log.Printf("Document upload rejected for session %s: %v", sess.ID, err)
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *DocumentHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, sess.DocumentStatus())
}

func (h *DocumentHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"formats": services.SupportedFormats(),
	})
}

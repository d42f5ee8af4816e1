package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aa-remote/site/internal/chat"
	"github.com/aa-remote/site/internal/platform/httpx"
)

const maxChatBody = 8 << 10

type chatHandler struct {
	svc ChatService
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string         `json:"session_id"`
	Messages  []chat.Message `json:"messages"`
}

// message answers POST /api/chat. An absent session_id opens a new session.
func (h *chatHandler) message(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody))
	if err := dec.Decode(&req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_body", "request body must be valid JSON", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("validation_failed", "message is required", http.StatusBadRequest))
		return
	}

	session, err := h.svc.Respond(strings.TrimSpace(req.SessionID), req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			httpx.WriteError(ctx, w, httpx.NewError("session_not_found", "chat session expired, start a new one", http.StatusNotFound))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("internal", "chat unavailable", http.StatusInternalServerError))
		return
	}

	writeJSON(ctx, w, http.StatusOK, chatResponse{
		SessionID: session.ID,
		Messages:  session.Messages,
	})
}

// clear answers DELETE /api/chat/{sessionID}.
func (h *chatHandler) clear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if strings.TrimSpace(sessionID) == "" {
		httpx.WriteError(r.Context(), w, httpx.NewError("validation_failed", "session ID is required", http.StatusBadRequest))
		return
	}
	h.svc.Clear(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Session management authenticates with the refresh cookie rather than
// the access token. Revoking sessions must keep working after the
// short-lived access token has lapsed.

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListSessions(r.Context(), cookieValue(r, refreshCookieName))
	if err != nil {
		writeMappedError(r.Context(), w, "list_sessions", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"sessions": items})
}

func (h *Handler) revokeSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "session_id"))
	if err != nil {
		writeValidationError(r.Context(), w, "revoke_session", errors.New("invalid session_id"))
		return
	}
	if err := h.service.RevokeSession(r.Context(), cookieValue(r, refreshCookieName), sessionID); err != nil {
		writeMappedError(r.Context(), w, "revoke_session", err)
		return
	}
	writeMessage(w, http.StatusOK, "Session revoked successfully")
}

func (h *Handler) revokeAllSessions(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RevokeAllSessions(r.Context(), cookieValue(r, refreshCookieName)); err != nil {
		writeMappedError(r.Context(), w, "revoke_all_sessions", err)
		return
	}
	h.cookies.clearAuthCookies(w)
	writeMessage(w, http.StatusOK, "All sessions revoked successfully")
}

package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chainwiki/auth-service/internal/application"
	"github.com/chainwiki/auth-service/internal/domain"
)

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "update_profile", domain.ErrMissingCredentials)
		return
	}
	var req application.ProfileUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_profile", err)
		return
	}
	profile, err := h.service.UpdateProfile(r.Context(), claims, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, profile)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "update_role", domain.ErrMissingCredentials)
		return
	}
	targetID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		writeValidationError(r.Context(), w, "update_role", errors.New("invalid user_id"))
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_role", err)
		return
	}
	profile, err := h.service.UpdateRole(r.Context(), claims, targetID, req.Role)
	if err != nil {
		writeMappedError(r.Context(), w, "update_role", err)
		return
	}
	writeSuccess(w, http.StatusOK, profile)
}

package http

import (
	"net/http"

	"github.com/chainwiki/auth-service/internal/application"
	"github.com/chainwiki/auth-service/internal/domain"
)

func (h *Handler) challenge(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Challenge(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		writeMappedError(r.Context(), w, "challenge", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

// login verifies the wallet signature and establishes the session. The
// issued tokens leave only as cookies; the body carries the profile.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}
	req.IPAddress = readIP(r)
	req.UserAgent = r.UserAgent()

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}

	h.cookies.setAuthCookies(w, res.AccessToken, res.RefreshToken)
	writeSuccess(w, http.StatusOK, map[string]any{
		"user":       res.User,
		"session_id": res.SessionID,
	})
}

// refresh renews the access cookie from the refresh cookie. A failed
// verification invalidates the cookies on the client so the next
// request starts a clean re-login instead of retrying dead tokens.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Refresh(r.Context(), cookieValue(r, refreshCookieName))
	if err != nil {
		if status, _, _ := mapDomainError(err); status == http.StatusUnauthorized {
			h.cookies.clearAuthCookies(w)
		}
		writeMappedError(r.Context(), w, "refresh", err)
		return
	}

	h.cookies.setAccessCookie(w, res.AccessToken)
	writeSuccess(w, http.StatusOK, map[string]any{
		"expires_in": res.ExpiresIn,
		"user_id":    res.Claims.UserID,
		"address":    res.Claims.Address,
		"role":       res.Claims.Role,
	})
}

// refreshRedirect is the browser navigation variant of refresh: renew
// the access cookie, then bounce back to the requested page. Failure
// clears the cookies and lands on the login page with the error code,
// never on the original target.
func (h *Handler) refreshRedirect(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("redirect")
	if !validRedirectTarget(target) {
		target = "/"
	}

	res, err := h.service.Refresh(r.Context(), cookieValue(r, refreshCookieName))
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "refresh_redirect", status, code, msg, err)
		h.cookies.clearAuthCookies(w)
		http.Redirect(w, r, "/login?error="+code, http.StatusSeeOther)
		return
	}
	h.cookies.setAccessCookie(w, res.AccessToken)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// logout always answers 200. Revocation failures are logged in the
// application layer; the client's cookies are cleared regardless.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context(), cookieValue(r, refreshCookieName))
	h.cookies.clearAuthCookies(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) whoAmI(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "who_am_i", domain.ErrMissingCredentials)
		return
	}
	profile, err := h.service.WhoAmI(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "who_am_i", err)
		return
	}
	writeSuccess(w, http.StatusOK, profile)
}

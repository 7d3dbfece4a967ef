package http

import (
	"net/http"
	"time"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
)

// CookieConfig controls how auth cookies are written. Secure is off
// only for local development over plain HTTP.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// cookieJar writes and clears the two auth cookies. Tokens travel only
// here: http-only, strict same-site, never in a response body.
type cookieJar struct {
	cfg CookieConfig
}

func (c *cookieJar) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	c.set(w, accessCookieName, accessToken, c.cfg.AccessTTL)
	c.set(w, refreshCookieName, refreshToken, c.cfg.RefreshTTL)
}

func (c *cookieJar) setAccessCookie(w http.ResponseWriter, accessToken string) {
	c.set(w, accessCookieName, accessToken, c.cfg.AccessTTL)
}

func (c *cookieJar) clearAuthCookies(w http.ResponseWriter) {
	c.clear(w, accessCookieName)
	c.clear(w, refreshCookieName)
}

func (c *cookieJar) set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c *cookieJar) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

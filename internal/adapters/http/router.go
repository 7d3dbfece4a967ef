package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chainwiki/auth-service/internal/application"
	"github.com/chainwiki/auth-service/internal/domain"
)

// Handler is the HTTP adapter entrypoint for auth use-cases.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
	cookies *cookieJar
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service, cookieCfg CookieConfig) *Handler {
	return &Handler{
		service: service,
		cookies: &cookieJar{cfg: cookieCfg},
	}
}

// NewRouter registers the auth HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Get("/challenge", handler.challenge)
		r.Post("/login", handler.login)
		r.Post("/refresh", handler.refresh)
		r.Get("/refresh", handler.refreshRedirect)
		r.Post("/logout", handler.logout)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth)
			r.Get("/me", handler.whoAmI)
			r.Patch("/users/me", handler.updateProfile)
		})

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireRole(domain.RoleAdmin))
			r.Patch("/users/{user_id}/role", handler.updateRole)
		})

		r.Get("/sessions", handler.listSessions)
		r.Delete("/sessions/{session_id}", handler.revokeSession)
		r.Delete("/sessions", handler.revokeAllSessions)
	})

	return r
}

// internal/app/features/signalapi/routes.go
package signalapi

import (
	"github.com/gavelhq/gavel/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for signal intake, token-gated and rate
// limited per client IP.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Use(ratelimit.Middleware(limiter))
	r.Use(h.RequireToken)
	r.Post("/", h.ServeSignal)
	r.Post("/member-update", h.ServeMemberUpdate)
	return r
}

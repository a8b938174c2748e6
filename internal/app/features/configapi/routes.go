// internal/app/features/configapi/routes.go
package configapi

import (
	"github.com/gavelhq/gavel/internal/app/system/apiauth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the config API, gated per guild like the
// roster API.
func Routes(h *Handler, az *apiauth.Authorizer) chi.Router {
	r := chi.NewRouter()

	r.Route("/{guildID}", func(gr chi.Router) {
		gr.Use(az.RequireGuildAccess)

		gr.Get("/", h.ServeConfig)
		gr.Put("/alert-channel", h.ServeSetAlertChannel)
		gr.Put("/inactivity-days", h.ServeSetInactivityDays)
		gr.Put("/sync-roles", h.ServeSetSyncRoles)
		gr.Put("/dashboard-roles", h.ServeSetDashboardRoles)

		gr.Get("/scopes", h.ServeListScopes)
		gr.Post("/scopes", h.ServeAddScope)
		gr.Delete("/scopes/{scopeID}", h.ServeRemoveScope)

		gr.Post("/resync", h.ServeResync)
	})

	return r
}

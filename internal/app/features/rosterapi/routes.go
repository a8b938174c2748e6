// internal/app/features/rosterapi/routes.go
package rosterapi

import (
	"github.com/gavelhq/gavel/internal/app/system/apiauth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the roster API. Every route is scoped to
// one guild and gated by the guild-access check; the auth layer in front
// supplies the caller identity.
func Routes(h *Handler, az *apiauth.Authorizer) chi.Router {
	r := chi.NewRouter()

	r.Route("/{guildID}", func(gr chi.Router) {
		gr.Use(az.RequireGuildAccess)

		gr.Get("/", h.ServeRoster)
		gr.Post("/", h.ServeAddMember)

		gr.Get("/archive", h.ServeArchive)
		gr.Get("/archive/{userID}", h.ServeArchivedDetail)

		gr.Delete("/strikes/{strikeID}", h.ServeRemoveStrike)

		gr.Route("/{userID}", func(mr chi.Router) {
			mr.Get("/", h.ServeProfile)
			mr.Delete("/", h.ServeArchiveMember)
			mr.Put("/hire-date", h.ServeUpdateHireDate)
			mr.Put("/display-name", h.ServeUpdateDisplayName)
			mr.Get("/activity", h.ServeActivityQuery)
			mr.Get("/strikes", h.ServeListStrikes)
			mr.Post("/strikes", h.ServeAddStrike)
			mr.Post("/notes", h.ServeAddNote)
		})
	})

	return r
}

// internal/app/features/rosterapi/handler.go
package rosterapi

import (
	"github.com/gavelhq/gavel/internal/app/store/activitylog"
	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/store/notes"
	"github.com/gavelhq/gavel/internal/app/store/roster"
	"github.com/gavelhq/gavel/internal/app/store/strikes"
	"github.com/gavelhq/gavel/internal/app/system/inactivity"
	"go.uber.org/zap"
)

// Handler owns the roster API endpoints: roster and archive views, member
// profiles, field updates, activity queries, strikes, and notes.
type Handler struct {
	Roster    *roster.Store
	Activity  *activitylog.Store
	Notes     *notes.Store
	Strikes   *strikes.Store
	Config    *guildconfig.Store
	Evaluator *inactivity.Evaluator
	Log       *zap.Logger
}

// NewHandler creates a roster API Handler.
func NewHandler(rosterStore *roster.Store, activityStore *activitylog.Store, noteStore *notes.Store, strikeStore *strikes.Store, configStore *guildconfig.Store, evaluator *inactivity.Evaluator, logger *zap.Logger) *Handler {
	return &Handler{
		Roster:    rosterStore,
		Activity:  activityStore,
		Notes:     noteStore,
		Strikes:   strikeStore,
		Config:    configStore,
		Evaluator: evaluator,
		Log:       logger,
	}
}

// internal/app/features/configapi/handler.go
package configapi

import (
	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/store/scopes"
	"github.com/gavelhq/gavel/internal/app/system/groupsync"
	"go.uber.org/zap"
)

// Handler owns the guild configuration endpoints: settings reads and
// writes, the monitored-scope set, and manual resync triggers.
type Handler struct {
	Config     *guildconfig.Store
	Scopes     *scopes.Store
	Reconciler *groupsync.Reconciler
	Log        *zap.Logger
}

// NewHandler creates a config API Handler.
func NewHandler(configStore *guildconfig.Store, scopeStore *scopes.Store, reconciler *groupsync.Reconciler, logger *zap.Logger) *Handler {
	return &Handler{
		Config:     configStore,
		Scopes:     scopeStore,
		Reconciler: reconciler,
		Log:        logger,
	}
}

// internal/app/features/configapi/resync.go
package configapi

import (
	"context"
	"net/http"

	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type resyncResponse struct {
	Added    int `json:"added"`
	Archived int `json:"archived"`
	Skipped  int `json:"skipped"`
}

// ServeResync handles POST /api/config/{guildID}/resync: a full roster
// reconciliation against the membership source, run inline so the caller
// sees the result.
func (h *Handler) ServeResync(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	result, err := h.Reconciler.Resync(ctx, guildID)
	if err != nil {
		h.Log.Error("manual resync failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusBadGateway, "resync failed")
		return
	}
	httpjson.Write(w, http.StatusOK, resyncResponse{
		Added:    result.Added,
		Archived: result.Archived,
		Skipped:  result.Skipped,
	})
}

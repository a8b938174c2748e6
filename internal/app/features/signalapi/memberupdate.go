// internal/app/features/signalapi/memberupdate.go
package signalapi

import (
	"context"
	"net/http"

	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type memberUpdateRequest struct {
	GuildID     string   `json:"guildId"`
	UserID      string   `json:"userId"`
	BeforeRoles []string `json:"beforeRoles"`
	AfterRoles  []string `json:"afterRoles"`
}

// ServeMemberUpdate handles POST /api/signals/member-update: one member's
// role change from the gateway adapter, applied incrementally to the
// roster.
func (h *Handler) ServeMemberUpdate(w http.ResponseWriter, r *http.Request) {
	var req memberUpdateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GuildID == "" || req.UserID == "" {
		httpjson.Error(w, http.StatusBadRequest, "guildId and userId are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Reconciler.MemberUpdate(ctx, req.GuildID, req.UserID, req.BeforeRoles, req.AfterRoles); err != nil {
		h.Log.Error("member update failed",
			zap.String("guild_id", req.GuildID),
			zap.String("user_id", req.UserID),
			zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to apply member update")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// internal/app/features/configapi/settings.go
package configapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type configResponse struct {
	GuildID        string   `json:"guildId"`
	AlertChannelID string   `json:"alertChannelId"`
	InactivityDays int      `json:"inactivityDays"`
	SyncRoleIDs    []string `json:"syncRoleIds"`
	DashboardRoles []string `json:"dashboardRoleIds"`
}

// ServeConfig handles GET /api/config/{guildID}: the guild's settings
// with defaults filled in.
func (h *Handler) ServeConfig(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cfg, err := h.Config.Get(ctx, guildID)
	if err != nil {
		h.Log.Error("config load failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load config")
		return
	}

	resp := configResponse{
		GuildID:        cfg.GuildID,
		AlertChannelID: cfg.AlertChannelID,
		InactivityDays: cfg.InactivityDays,
		SyncRoleIDs:    cfg.SyncRoleIDs,
		DashboardRoles: cfg.DashboardRoles,
	}
	if resp.SyncRoleIDs == nil {
		resp.SyncRoleIDs = []string{}
	}
	if resp.DashboardRoles == nil {
		resp.DashboardRoles = []string{}
	}
	httpjson.Write(w, http.StatusOK, resp)
}

type alertChannelRequest struct {
	ChannelID string `json:"channelId"`
}

// ServeSetAlertChannel handles PUT /api/config/{guildID}/alert-channel.
// An empty channel id clears the destination, which takes the guild out
// of the sweep.
func (h *Handler) ServeSetAlertChannel(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	var req alertChannelRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Config.SetAlertChannel(ctx, guildID, strings.TrimSpace(req.ChannelID)); err != nil {
		h.Log.Error("alert channel update failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to update alert channel")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

type inactivityDaysRequest struct {
	Days int `json:"days"`
}

// ServeSetInactivityDays handles PUT /api/config/{guildID}/inactivity-days.
func (h *Handler) ServeSetInactivityDays(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	var req inactivityDaysRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Days < guildconfig.MinInactivityDays || req.Days > guildconfig.MaxInactivityDays {
		httpjson.Error(w, http.StatusBadRequest, "days out of range")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Config.SetInactivityDays(ctx, guildID, req.Days); err != nil {
		h.Log.Error("inactivity days update failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to update inactivity days")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

type roleListRequest struct {
	RoleIDs []string `json:"roleIds"`
}

func cleanRoleIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ServeSetSyncRoles handles PUT /api/config/{guildID}/sync-roles,
// replacing the role set whose membership drives the roster. A changed
// set is followed by a full resync so members already holding a newly
// designated role converge without waiting for a role-change signal.
func (h *Handler) ServeSetSyncRoles(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	var req roleListRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Config.SetSyncRoles(ctx, guildID, cleanRoleIDs(req.RoleIDs)); err != nil {
		h.Log.Error("sync roles update failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to update sync roles")
		return
	}

	// The config write stands even when the resync cannot reach the
	// membership source; the roster converges on the next signal or sweep.
	if _, err := h.Reconciler.Resync(ctx, guildID); err != nil {
		h.Log.Error("resync after sync-role change failed",
			zap.String("guild_id", guildID), zap.Error(err))
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// ServeSetDashboardRoles handles PUT /api/config/{guildID}/dashboard-roles.
func (h *Handler) ServeSetDashboardRoles(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	var req roleListRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Config.SetDashboardRoles(ctx, guildID, cleanRoleIDs(req.RoleIDs)); err != nil {
		h.Log.Error("dashboard roles update failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to update dashboard roles")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

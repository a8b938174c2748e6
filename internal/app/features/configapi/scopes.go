// internal/app/features/configapi/scopes.go
package configapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/gavelhq/gavel/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeListScopes handles GET /api/config/{guildID}/scopes.
func (h *Handler) ServeListScopes(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Scopes.List(ctx, guildID)
	if err != nil {
		h.Log.Error("scope list failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load scopes")
		return
	}
	if list == nil {
		list = []models.MonitoredScope{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"scopes": list})
}

type addScopeRequest struct {
	ScopeID string `json:"scopeId"`
	Kind    string `json:"kind"`
}

// ServeAddScope handles POST /api/config/{guildID}/scopes. Kind must be
// "channel" or "category"; re-adding an existing scope updates its kind.
func (h *Handler) ServeAddScope(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	var req addScopeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ScopeID = strings.TrimSpace(req.ScopeID)
	if req.ScopeID == "" {
		httpjson.Error(w, http.StatusBadRequest, "scopeId is required")
		return
	}
	if req.Kind != models.ScopeKindLeaf && req.Kind != models.ScopeKindGroup {
		httpjson.Error(w, http.StatusBadRequest, "kind must be channel or category")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Scopes.Add(ctx, guildID, req.ScopeID, req.Kind); err != nil {
		h.Log.Error("scope add failed",
			zap.String("guild_id", guildID), zap.String("scope_id", req.ScopeID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to add scope")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// ServeRemoveScope handles DELETE /api/config/{guildID}/scopes/{scopeID}.
func (h *Handler) ServeRemoveScope(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	scopeID := chi.URLParam(r, "scopeID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	removed, err := h.Scopes.Remove(ctx, guildID, scopeID)
	if err != nil {
		h.Log.Error("scope remove failed",
			zap.String("guild_id", guildID), zap.String("scope_id", scopeID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to remove scope")
		return
	}
	if !removed {
		httpjson.Error(w, http.StatusNotFound, "scope is not monitored")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// internal/app/features/rosterapi/strikes.go
package rosterapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gavelhq/gavel/internal/app/store/strikes"
	"github.com/gavelhq/gavel/internal/app/system/apiauth"
	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/gavelhq/gavel/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeListStrikes handles GET /api/roster/{guildID}/{userID}/strikes.
func (h *Handler) ServeListStrikes(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Strikes.List(ctx, guildID, userID)
	if err != nil {
		h.Log.Error("strike list failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load strikes")
		return
	}
	if list == nil {
		list = []models.Strike{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"strikes": list})
}

type addStrikeRequest struct {
	Reason string `json:"reason"`
}

// ServeAddStrike handles POST /api/roster/{guildID}/{userID}/strikes,
// issuing a strike attributed to the caller.
func (h *Handler) ServeAddStrike(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")

	var req addStrikeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := h.Strikes.Add(ctx, guildID, userID, apiauth.Caller(r), req.Reason)
	if errors.Is(err, strikes.ErrEmptyReason) {
		httpjson.Error(w, http.StatusBadRequest, "reason must not be empty")
		return
	}
	if err != nil {
		h.Log.Error("strike add failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to add strike")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"strikeId": id})
}

// ServeRemoveStrike handles DELETE /api/roster/{guildID}/strikes/{strikeID}.
func (h *Handler) ServeRemoveStrike(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	strikeID := chi.URLParam(r, "strikeID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	removed, err := h.Strikes.Remove(ctx, guildID, strikeID)
	if err != nil {
		h.Log.Error("strike remove failed",
			zap.String("guild_id", guildID), zap.String("strike_id", strikeID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to remove strike")
		return
	}
	if !removed {
		httpjson.Error(w, http.StatusNotFound, "no such strike")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// internal/app/features/rosterapi/update.go
package rosterapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/sanitize"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type hireDateRequest struct {
	HireDate string `json:"hireDate"`
}

// ServeUpdateHireDate handles PUT /api/roster/{guildID}/{userID}/hire-date.
// The date must parse as YYYY-MM-DD; malformed input is rejected before
// any write.
func (h *Handler) ServeUpdateHireDate(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")

	var req hireDateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	hireDate, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.HireDate), time.UTC)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "hireDate must be a YYYY-MM-DD date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Roster.UpdateHireDate(ctx, guildID, userID, hireDate)
	if err != nil {
		h.Log.Error("hire date update failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to update hire date")
		return
	}
	if !updated {
		httpjson.Error(w, http.StatusNotFound, "not on the roster")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

type displayNameRequest struct {
	DisplayName string `json:"displayName"`
}

// ServeUpdateDisplayName handles PUT /api/roster/{guildID}/{userID}/display-name.
func (h *Handler) ServeUpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")

	var req displayNameRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := sanitize.Text(req.DisplayName)
	if name == "" {
		httpjson.Error(w, http.StatusBadRequest, "displayName must not be empty")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Roster.UpdateDisplayName(ctx, guildID, userID, name)
	if err != nil {
		h.Log.Error("display name update failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to update display name")
		return
	}
	if !updated {
		httpjson.Error(w, http.StatusNotFound, "not on the roster")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

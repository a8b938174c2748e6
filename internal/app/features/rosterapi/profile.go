// internal/app/features/rosterapi/profile.go
package rosterapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gavelhq/gavel/internal/app/store/notes"
	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/inactivity"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/gavelhq/gavel/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const profileRecentEvents = 15

type profileResponse struct {
	UserID      string                 `json:"userId"`
	DisplayName string                 `json:"displayName,omitempty"`
	AddedBy     string                 `json:"addedBy"`
	AddedAt     time.Time              `json:"addedAt"`
	HireDate    time.Time              `json:"hireDate"`
	Archived    bool                   `json:"archived"`
	LastActive  *time.Time             `json:"lastActive"`
	DaysSince   *int                   `json:"daysSince"`
	Status      string                 `json:"status"`
	Activity7   int64                  `json:"activity7"`
	Activity14  int64                  `json:"activity14"`
	Activity30  int64                  `json:"activity30"`
	Recent      []models.ActivityEvent `json:"recentActivity"`
	Notes       []models.Note          `json:"notes"`
	Strikes     []models.Strike        `json:"strikes"`
}

// ServeProfile handles GET /api/roster/{guildID}/{userID}: one member's
// full picture, including rolling activity counts, recent events, notes,
// and strikes.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	entry, err := h.Roster.Get(ctx, guildID, userID)
	if err != nil {
		h.Log.Error("profile: roster lookup failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if entry == nil {
		httpjson.Error(w, http.StatusNotFound, "not on the roster")
		return
	}

	resp := profileResponse{
		UserID:      entry.UserID,
		DisplayName: entry.DisplayName,
		AddedBy:     entry.AddedBy,
		AddedAt:     entry.AddedAt,
		HireDate:    entry.HireDate,
		Archived:    entry.Archived,
	}

	last, err := h.Activity.LastActivity(ctx, guildID, userID)
	if err != nil {
		h.Log.Error("profile: activity lookup failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	cfg, err := h.Config.Get(ctx, guildID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	now := time.Now().UTC()
	resp.LastActive = last
	resp.Status = inactivity.Evaluate(last, now, cfg.InactivityDays).String()
	if last != nil {
		days := inactivity.DaysSince(*last, now)
		resp.DaysSince = &days
	}

	for _, window := range []struct {
		days int
		dst  *int64
	}{{7, &resp.Activity7}, {14, &resp.Activity14}, {30, &resp.Activity30}} {
		n, err := h.Activity.Count(ctx, guildID, userID, window.days)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "failed to load profile")
			return
		}
		*window.dst = n
	}

	if resp.Recent, err = h.Activity.Recent(ctx, guildID, userID, profileRecentEvents); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if resp.Notes, err = h.Notes.ListRecent(ctx, guildID, userID, notes.DefaultHistoryLimit); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if resp.Strikes, err = h.Strikes.List(ctx, guildID, userID); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	if resp.Recent == nil {
		resp.Recent = []models.ActivityEvent{}
	}
	if resp.Notes == nil {
		resp.Notes = []models.Note{}
	}
	if resp.Strikes == nil {
		resp.Strikes = []models.Strike{}
	}
	httpjson.Write(w, http.StatusOK, resp)
}

// internal/app/features/rosterapi/list.go
package rosterapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gavelhq/gavel/internal/app/system/apiauth"
	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/inactivity"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// rosterRow is one active roster member in the list view.
type rosterRow struct {
	UserID      string     `json:"userId"`
	DisplayName string     `json:"displayName,omitempty"`
	AddedBy     string     `json:"addedBy"`
	AddedAt     time.Time  `json:"addedAt"`
	HireDate    time.Time  `json:"hireDate"`
	LastActive  *time.Time `json:"lastActive"`
	DaysSince   *int       `json:"daysSince"`
	Status      string     `json:"status"`
	Activity7   int64      `json:"activity7"`
	Activity30  int64      `json:"activity30"`
	StrikeCount int64      `json:"strikeCount"`
}

type rosterResponse struct {
	Roster         []rosterRow `json:"roster"`
	InactivityDays int         `json:"inactivityDays"`
}

// ServeRoster handles GET /api/roster/{guildID}: the active roster with
// per-member recency, rolling counts, strike counts, and derived status.
func (h *Handler) ServeRoster(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	cfg, err := h.Config.Get(ctx, guildID)
	if err != nil {
		h.Log.Error("roster list: config load failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load roster")
		return
	}

	members, err := h.Evaluator.Evaluate(ctx, guildID, cfg.InactivityDays)
	if err != nil {
		h.Log.Error("roster list: evaluation failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load roster")
		return
	}

	now := time.Now().UTC()
	rows := make([]rosterRow, 0, len(members))
	for _, m := range members {
		row := rosterRow{
			UserID:      m.Entry.UserID,
			DisplayName: m.Entry.DisplayName,
			AddedBy:     m.Entry.AddedBy,
			AddedAt:     m.Entry.AddedAt,
			HireDate:    m.Entry.HireDate,
			LastActive:  m.LastActivity,
			Status:      m.Status.String(),
		}
		if m.LastActivity != nil {
			days := inactivity.DaysSince(*m.LastActivity, now)
			row.DaysSince = &days
		}

		// Secondary lookups are best-effort: a failure zeroes that
		// member's counts instead of failing the whole view.
		if n, err := h.Activity.Count(ctx, guildID, m.Entry.UserID, 7); err == nil {
			row.Activity7 = n
		}
		if n, err := h.Activity.Count(ctx, guildID, m.Entry.UserID, 30); err == nil {
			row.Activity30 = n
		}
		if n, err := h.Strikes.Count(ctx, guildID, m.Entry.UserID); err == nil {
			row.StrikeCount = n
		}

		rows = append(rows, row)
	}

	httpjson.Write(w, http.StatusOK, rosterResponse{
		Roster:         rows,
		InactivityDays: cfg.InactivityDays,
	})
}

type addMemberRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// ServeAddMember handles POST /api/roster/{guildID}: adds (or
// re-activates) a roster member, attributed to the caller.
func (h *Handler) ServeAddMember(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	var req addMemberRequest
	if err := httpjson.Decode(r, &req); err != nil || req.UserID == "" {
		httpjson.Error(w, http.StatusBadRequest, "userId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Roster.AddOrReactivate(ctx, guildID, req.UserID, apiauth.Caller(r), req.DisplayName); err != nil {
		h.Log.Error("roster add failed",
			zap.String("guild_id", guildID), zap.String("user_id", req.UserID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to add member")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// ServeArchiveMember handles DELETE /api/roster/{guildID}/{userID}:
// archives an active member, attributed to the caller.
func (h *Handler) ServeArchiveMember(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	archived, err := h.Roster.Archive(ctx, guildID, userID, apiauth.Caller(r))
	if err != nil {
		h.Log.Error("roster archive failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to archive member")
		return
	}
	if !archived {
		httpjson.Error(w, http.StatusNotFound, "not on the roster")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

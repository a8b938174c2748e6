// internal/app/features/rosterapi/activity.go
package rosterapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gavelhq/gavel/internal/app/store/activitylog"
	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/gavelhq/gavel/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeActivityQuery handles GET /api/roster/{guildID}/{userID}/activity.
// Query params: startDate and endDate (YYYY-MM-DD, endDate inclusive of
// the whole day), channel (substring match on scope name), limit, offset.
func (h *Handler) ServeActivityQuery(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")
	q := r.URL.Query()

	var filter activitylog.QueryFilter
	if raw := q.Get("startDate"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "startDate must be a YYYY-MM-DD date")
			return
		}
		filter.StartDate = &t
	}
	if raw := q.Get("endDate"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "endDate must be a YYYY-MM-DD date")
			return
		}
		end := t.AddDate(0, 0, 1).Add(-time.Millisecond)
		filter.EndDate = &end
	}
	filter.ScopeName = q.Get("channel")

	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	offset, _ := strconv.ParseInt(q.Get("offset"), 10, 64)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Activity.Query(ctx, guildID, userID, filter, limit, offset)
	if err != nil {
		h.Log.Error("activity query failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to query activity")
		return
	}
	if events == nil {
		events = []models.ActivityEvent{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"events": events})
}

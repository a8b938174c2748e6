// internal/app/features/rosterapi/archive.go
package rosterapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/gavelhq/gavel/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type archivedRow struct {
	UserID      string     `json:"userId"`
	DisplayName string     `json:"displayName,omitempty"`
	AddedAt     time.Time  `json:"addedAt"`
	HireDate    time.Time  `json:"hireDate"`
	ArchivedAt  *time.Time `json:"archivedAt"`
	ArchivedBy  string     `json:"archivedBy,omitempty"`
}

// ServeArchive handles GET /api/roster/{guildID}/archive: archived
// entries, most recently archived first.
func (h *Handler) ServeArchive(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entries, err := h.Roster.ListArchived(ctx, guildID)
	if err != nil {
		h.Log.Error("archive list failed", zap.String("guild_id", guildID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load archive")
		return
	}

	rows := make([]archivedRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, archivedRow{
			UserID:      e.UserID,
			DisplayName: e.DisplayName,
			AddedAt:     e.AddedAt,
			HireDate:    e.HireDate,
			ArchivedAt:  e.ArchivedAt,
			ArchivedBy:  e.ArchivedBy,
		})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"archive": rows})
}

type archivedDetail struct {
	Entry   models.RosterEntry `json:"entry"`
	Notes   []models.Note      `json:"notes"`
	Strikes []models.Strike    `json:"strikes"`
}

// ServeArchivedDetail handles GET /api/roster/{guildID}/archive/{userID}:
// one archived entry with its history. Notes and strikes survive
// archiving, so the record stays reviewable.
func (h *Handler) ServeArchivedDetail(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entry, err := h.Roster.Get(ctx, guildID, userID)
	if err != nil {
		h.Log.Error("archive detail failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to load archive entry")
		return
	}
	if entry == nil || !entry.Archived {
		httpjson.Error(w, http.StatusNotFound, "no archived entry for this user")
		return
	}

	detail := archivedDetail{Entry: *entry}
	if detail.Notes, err = h.Notes.ListRecent(ctx, guildID, userID, 0); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "failed to load archive entry")
		return
	}
	if detail.Strikes, err = h.Strikes.List(ctx, guildID, userID); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "failed to load archive entry")
		return
	}
	if detail.Notes == nil {
		detail.Notes = []models.Note{}
	}
	if detail.Strikes == nil {
		detail.Strikes = []models.Strike{}
	}
	httpjson.Write(w, http.StatusOK, detail)
}

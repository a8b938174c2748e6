// internal/app/features/rosterapi/notes.go
package rosterapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gavelhq/gavel/internal/app/store/notes"
	"github.com/gavelhq/gavel/internal/app/system/apiauth"
	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type addNoteRequest struct {
	Text string `json:"text"`
}

// ServeAddNote handles POST /api/roster/{guildID}/{userID}/notes,
// appending a note attributed to the caller.
func (h *Handler) ServeAddNote(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")

	var req addNoteRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Notes.Add(ctx, guildID, userID, apiauth.Caller(r), req.Text)
	if errors.Is(err, notes.ErrEmptyText) {
		httpjson.Error(w, http.StatusBadRequest, "text must not be empty")
		return
	}
	if err != nil {
		h.Log.Error("note add failed",
			zap.String("guild_id", guildID), zap.String("user_id", userID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to add note")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

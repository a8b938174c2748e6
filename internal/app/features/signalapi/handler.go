// internal/app/features/signalapi/handler.go
package signalapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gavelhq/gavel/internal/app/system/groupsync"
	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"
	"github.com/gavelhq/gavel/internal/app/system/tracker"
	"go.uber.org/zap"
)

// Handler is the intake surface for the gateway adapter that watches the
// chat platform: one signal per observed message, one update per observed
// role change. The tracker and reconciler decide what state changes.
type Handler struct {
	Tracker    *tracker.Tracker
	Reconciler *groupsync.Reconciler
	Token      string
	Log        *zap.Logger
}

// NewHandler creates a signal intake Handler. Token is the shared secret
// the gateway adapter must present.
func NewHandler(t *tracker.Tracker, reconciler *groupsync.Reconciler, token string, logger *zap.Logger) *Handler {
	return &Handler{Tracker: t, Reconciler: reconciler, Token: token, Log: logger}
}

type signalRequest struct {
	GuildID       string `json:"guildId"`
	UserID        string `json:"userId"`
	ScopeID       string `json:"scopeId"`
	ScopeName     string `json:"scopeName"`
	ParentScopeID string `json:"parentScopeId"`
}

// ServeSignal handles POST /api/signals.
func (h *Handler) ServeSignal(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GuildID == "" || req.UserID == "" || req.ScopeID == "" {
		httpjson.Error(w, http.StatusBadRequest, "guildId, userId, and scopeId are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	recorded, err := h.Tracker.Handle(ctx, tracker.Signal{
		GuildID:       req.GuildID,
		UserID:        req.UserID,
		ScopeID:       req.ScopeID,
		ScopeName:     req.ScopeName,
		ParentScopeID: req.ParentScopeID,
	})
	if err != nil {
		h.Log.Error("signal intake failed",
			zap.String("guild_id", req.GuildID),
			zap.String("user_id", req.UserID),
			zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "failed to process signal")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"recorded": recorded})
}

// RequireToken is middleware enforcing the shared intake secret.
func (h *Handler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if h.Token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(h.Token)) != 1 {
			httpjson.Error(w, http.StatusUnauthorized, "invalid intake token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Package apiauth gates the dashboard API. Authentication itself happens
// in a fronting layer which forwards the caller's id in a trusted header;
// this package only answers "may this caller read this guild", by
// checking the caller's roles against the guild's dashboard-access set.
// Role lookups go to the external membership source through a short TTL
// cache to bound call volume.
package apiauth

import (
	"context"
	"net/http"

	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/system/authcache"
	"github.com/gavelhq/gavel/internal/app/system/groupsync"
	"github.com/gavelhq/gavel/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultUserHeader carries the authenticated caller id, set by the
// fronting auth layer.
const DefaultUserHeader = "X-Gavel-User"

type ctxKey string

const callerKey ctxKey = "apiauth.caller"

// Caller returns the authenticated caller id placed in the request
// context by RequireGuildAccess.
func Caller(r *http.Request) string {
	id, _ := r.Context().Value(callerKey).(string)
	return id
}

// Authorizer checks guild read access for API callers.
type Authorizer struct {
	config     *guildconfig.Store
	source     groupsync.MembershipSource
	cache      *authcache.Cache[bool]
	userHeader string
	log        *zap.Logger
}

// New creates an Authorizer. An empty userHeader uses DefaultUserHeader.
func New(configStore *guildconfig.Store, source groupsync.MembershipSource, cache *authcache.Cache[bool], userHeader string, logger *zap.Logger) *Authorizer {
	if userHeader == "" {
		userHeader = DefaultUserHeader
	}
	return &Authorizer{
		config:     configStore,
		source:     source,
		cache:      cache,
		userHeader: userHeader,
		log:        logger,
	}
}

// RequireGuildAccess is middleware for routes carrying a {guildID} URL
// parameter. It rejects callers without the id header (401) and callers
// who hold none of the guild's dashboard roles (403).
func (a *Authorizer) RequireGuildAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(a.userHeader)
		if userID == "" {
			httpjson.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		guildID := chi.URLParam(r, "guildID")
		if guildID == "" {
			httpjson.Error(w, http.StatusBadRequest, "missing guild id")
			return
		}

		allowed, err := a.Allowed(r.Context(), guildID, userID)
		if err != nil {
			a.log.Warn("authorization check failed",
				zap.String("guild_id", guildID),
				zap.String("user_id", userID),
				zap.Error(err))
			httpjson.Error(w, http.StatusForbidden, "not authorized for this guild")
			return
		}
		if !allowed {
			httpjson.Error(w, http.StatusForbidden, "not authorized for this guild")
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Allowed reports whether the user holds any of the guild's dashboard
// roles. Results are cached for the cache's TTL; within that window role
// changes are not visible.
func (a *Authorizer) Allowed(ctx context.Context, guildID, userID string) (bool, error) {
	key := guildID + ":" + userID
	if allowed, ok := a.cache.Get(key); ok {
		return allowed, nil
	}

	cfg, err := a.config.Get(ctx, guildID)
	if err != nil {
		return false, err
	}
	if len(cfg.DashboardRoles) == 0 {
		a.cache.Set(key, false)
		return false, nil
	}

	roles, err := a.source.MemberRoles(ctx, guildID, userID)
	if err != nil {
		return false, err
	}

	allowed := false
	set := make(map[string]struct{}, len(cfg.DashboardRoles))
	for _, id := range cfg.DashboardRoles {
		set[id] = struct{}{}
	}
	for _, id := range roles {
		if _, ok := set[id]; ok {
			allowed = true
			break
		}
	}
	a.cache.Set(key, allowed)
	return allowed, nil
}

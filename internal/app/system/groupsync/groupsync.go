// Package groupsync keeps roster state consistent with an external
// role-membership signal: holding any configured sync role implies roster
// membership, losing all of them implies archival. Entries created or
// archived here carry the auto-sync attribution so manual changes stay
// distinguishable.
package groupsync

import (
	"context"
	"errors"

	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/store/roster"
	"github.com/gavelhq/gavel/internal/app/system/metrics"
	"github.com/gavelhq/gavel/internal/domain/models"
	"go.uber.org/zap"
)

// ErrMemberNotFound is returned by a MembershipSource when the member has
// left the guild. The reconciler treats this as "holds no roles".
var ErrMemberNotFound = errors.New("member not found in guild")

// Member is one guild member in a membership snapshot.
type Member struct {
	UserID  string
	RoleIDs []string
}

// MembershipSource provides the external group-membership signal.
type MembershipSource interface {
	// Snapshot enumerates the guild's current members and their roles.
	Snapshot(ctx context.Context, guildID string) ([]Member, error)
	// MemberRoles returns one member's current roles, or
	// ErrMemberNotFound when they are no longer in the guild.
	MemberRoles(ctx context.Context, guildID, userID string) ([]string, error)
}

// Reconciler applies membership snapshots and incremental changes to the
// roster store.
type Reconciler struct {
	roster  *roster.Store
	config  *guildconfig.Store
	source  MembershipSource
	metrics *metrics.Metrics
	log     *zap.Logger
}

// New creates a Reconciler.
func New(rosterStore *roster.Store, configStore *guildconfig.Store, source MembershipSource, m *metrics.Metrics, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		roster:  rosterStore,
		config:  configStore,
		source:  source,
		metrics: m,
		log:     logger,
	}
}

// Result summarizes what a resync changed.
type Result struct {
	Added    int
	Archived int
	Skipped  int
}

// Resync runs a full reconciliation for one guild: every member holding a
// sync role ends up on the active roster, every active entry whose member
// holds none is archived. A lookup failure for one member skips that
// member only; the resync itself fails only when the snapshot or a store
// operation fails.
func (r *Reconciler) Resync(ctx context.Context, guildID string) (Result, error) {
	var result Result

	cfg, err := r.config.Get(ctx, guildID)
	if err != nil {
		return result, err
	}
	if len(cfg.SyncRoleIDs) == 0 {
		return result, nil
	}

	snapshot, err := r.source.Snapshot(ctx, guildID)
	if err != nil {
		return result, err
	}

	qualifying := make(map[string]bool, len(snapshot))
	for _, m := range snapshot {
		if holdsAny(m.RoleIDs, cfg.SyncRoleIDs) {
			qualifying[m.UserID] = true
		}
	}

	for userID := range qualifying {
		active, err := r.roster.IsActiveMember(ctx, guildID, userID)
		if err != nil {
			return result, err
		}
		if active {
			continue
		}
		if err := r.roster.AddOrReactivate(ctx, guildID, userID, models.AutoSyncActor, ""); err != nil {
			return result, err
		}
		result.Added++
		r.metrics.SyncAdds.Inc()
		r.log.Info("group sync added roster entry",
			zap.String("guild_id", guildID), zap.String("user_id", userID))
	}

	entries, err := r.roster.ListActive(ctx, guildID)
	if err != nil {
		return result, err
	}
	for _, entry := range entries {
		if qualifying[entry.UserID] {
			continue
		}
		// Absent from the snapshot, or present without a sync role.
		// Confirm with a direct lookup before archiving; a failed lookup
		// skips this member rather than aborting the resync.
		roles, err := r.source.MemberRoles(ctx, guildID, entry.UserID)
		if err != nil && !errors.Is(err, ErrMemberNotFound) {
			result.Skipped++
			r.metrics.SyncSkips.Inc()
			r.log.Warn("membership lookup failed, skipping member",
				zap.String("guild_id", guildID),
				zap.String("user_id", entry.UserID),
				zap.Error(err))
			continue
		}
		if err == nil && holdsAny(roles, cfg.SyncRoleIDs) {
			continue
		}
		archived, err := r.roster.Archive(ctx, guildID, entry.UserID, models.AutoSyncActor)
		if err != nil {
			return result, err
		}
		if archived {
			result.Archived++
			r.metrics.SyncArchives.Inc()
			r.log.Info("group sync archived roster entry",
				zap.String("guild_id", guildID), zap.String("user_id", entry.UserID))
		}
	}

	return result, nil
}

// MemberUpdate applies one member's role change. Only a flip of the
// "holds any sync role" boolean causes a roster transition; holding two
// sync roles is no different from holding one.
func (r *Reconciler) MemberUpdate(ctx context.Context, guildID, userID string, beforeRoles, afterRoles []string) error {
	cfg, err := r.config.Get(ctx, guildID)
	if err != nil {
		return err
	}
	if len(cfg.SyncRoleIDs) == 0 {
		return nil
	}

	had := holdsAny(beforeRoles, cfg.SyncRoleIDs)
	has := holdsAny(afterRoles, cfg.SyncRoleIDs)
	if had == has {
		return nil
	}

	if has {
		if err := r.roster.AddOrReactivate(ctx, guildID, userID, models.AutoSyncActor, ""); err != nil {
			return err
		}
		r.metrics.SyncAdds.Inc()
		r.log.Info("group sync added roster entry",
			zap.String("guild_id", guildID), zap.String("user_id", userID))
		return nil
	}

	archived, err := r.roster.Archive(ctx, guildID, userID, models.AutoSyncActor)
	if err != nil {
		return err
	}
	if archived {
		r.metrics.SyncArchives.Inc()
		r.log.Info("group sync archived roster entry",
			zap.String("guild_id", guildID), zap.String("user_id", userID))
	}
	return nil
}

// holdsAny reports whether roles and want intersect.
func holdsAny(roles, want []string) bool {
	if len(roles) == 0 || len(want) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(want))
	for _, id := range want {
		set[id] = struct{}{}
	}
	for _, id := range roles {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

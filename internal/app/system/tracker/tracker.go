// Package tracker is the intake path for activity signals. A signal only
// becomes a ledger event when the author is an active roster member and
// the scope is monitored at the moment the signal arrives; membership is
// never evaluated retroactively, and archived members accrue nothing.
package tracker

import (
	"context"

	"github.com/gavelhq/gavel/internal/app/store/activitylog"
	"github.com/gavelhq/gavel/internal/app/store/roster"
	"github.com/gavelhq/gavel/internal/app/store/scopes"
	"github.com/gavelhq/gavel/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Signal is one inbound activity report from the event source.
type Signal struct {
	GuildID       string
	UserID        string
	ScopeID       string
	ScopeName     string
	ParentScopeID string
}

// Tracker filters signals and appends the ones that qualify.
type Tracker struct {
	roster   *roster.Store
	scopes   *scopes.Store
	activity *activitylog.Store
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// New creates a Tracker over the given stores.
func New(rosterStore *roster.Store, scopeStore *scopes.Store, activityStore *activitylog.Store, m *metrics.Metrics, logger *zap.Logger) *Tracker {
	return &Tracker{
		roster:   rosterStore,
		scopes:   scopeStore,
		activity: activityStore,
		metrics:  m,
		log:      logger,
	}
}

// Handle records the signal if it passes the roster and scope filters.
// Returns true when an event was appended.
func (t *Tracker) Handle(ctx context.Context, sig Signal) (bool, error) {
	active, err := t.roster.IsActiveMember(ctx, sig.GuildID, sig.UserID)
	if err != nil {
		return false, err
	}
	if !active {
		t.metrics.EventsIgnored.Inc()
		return false, nil
	}

	monitored, err := t.scopes.IsMonitored(ctx, sig.GuildID, sig.ScopeID, sig.ParentScopeID)
	if err != nil {
		return false, err
	}
	if !monitored {
		t.metrics.EventsIgnored.Inc()
		return false, nil
	}

	if err := t.activity.Record(ctx, sig.GuildID, sig.UserID, sig.ScopeID, sig.ScopeName); err != nil {
		return false, err
	}
	t.metrics.EventsRecorded.Inc()
	t.log.Debug("activity recorded",
		zap.String("guild_id", sig.GuildID),
		zap.String("user_id", sig.UserID),
		zap.String("scope_id", sig.ScopeID))
	return true, nil
}

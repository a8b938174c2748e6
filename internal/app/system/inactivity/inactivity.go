// Package inactivity derives a member's activity status from the activity
// ledger and a per-guild threshold. Evaluation is a pure function of
// (last activity, now, threshold) so it can be tested without a store.
package inactivity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gavelhq/gavel/internal/app/store/activitylog"
	"github.com/gavelhq/gavel/internal/app/store/roster"
	"github.com/gavelhq/gavel/internal/domain/models"
)

// Status is a member's derived activity state.
type Status int

const (
	// NeverActive means no activity event has ever been recorded.
	NeverActive Status = iota
	// Inactive means the last activity is at or beyond the threshold.
	Inactive
	// Warning means the last activity is at or beyond half the threshold.
	Warning
	// Active means recent activity within the warning window.
	Active
)

// String returns the short status label used in alert payloads and views.
func (s Status) String() string {
	switch s {
	case NeverActive:
		return "never-active"
	case Inactive:
		return "inactive"
	case Warning:
		return "warning"
	default:
		return "active"
	}
}

// DaysSince returns whole days elapsed between last and now, floored.
func DaysSince(last, now time.Time) int {
	return int(now.Sub(last) / (24 * time.Hour))
}

// Evaluate computes the status for a member whose most recent activity was
// lastActivity (nil when none was ever recorded).
func Evaluate(lastActivity *time.Time, now time.Time, thresholdDays int) Status {
	if lastActivity == nil {
		return NeverActive
	}
	days := DaysSince(*lastActivity, now)
	switch {
	case days >= thresholdDays:
		return Inactive
	case days >= thresholdDays/2:
		return Warning
	default:
		return Active
	}
}

// StatusText renders the human-readable recency line for alert payloads.
func StatusText(lastActivity *time.Time, now time.Time) string {
	if lastActivity == nil {
		return "no recorded activity"
	}
	return fmt.Sprintf("last active %d days ago", DaysSince(*lastActivity, now))
}

// Member is one evaluated roster member.
type Member struct {
	Entry        models.RosterEntry
	LastActivity *time.Time
	Status       Status
}

// Evaluator joins the roster and the activity ledger to produce statuses.
type Evaluator struct {
	roster   *roster.Store
	activity *activitylog.Store
}

// NewEvaluator creates an Evaluator over the given stores.
func NewEvaluator(rosterStore *roster.Store, activityStore *activitylog.Store) *Evaluator {
	return &Evaluator{roster: rosterStore, activity: activityStore}
}

// Evaluate returns every active roster member of the guild with their
// last-activity time and status, in roster order.
func (e *Evaluator) Evaluate(ctx context.Context, guildID string, thresholdDays int) ([]Member, error) {
	entries, err := e.roster.ListActive(ctx, guildID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	members := make([]Member, 0, len(entries))
	for _, entry := range entries {
		last, err := e.activity.LastActivity(ctx, guildID, entry.UserID)
		if err != nil {
			return nil, err
		}
		members = append(members, Member{
			Entry:        entry,
			LastActivity: last,
			Status:       Evaluate(last, now, thresholdDays),
		})
	}
	return members, nil
}

// InactiveSet returns the active roster members flagged NeverActive or
// Inactive, ordered by last activity ascending with never-active members
// first.
func (e *Evaluator) InactiveSet(ctx context.Context, guildID string, thresholdDays int) ([]Member, error) {
	members, err := e.Evaluate(ctx, guildID, thresholdDays)
	if err != nil {
		return nil, err
	}

	flagged := members[:0]
	for _, m := range members {
		if m.Status == NeverActive || m.Status == Inactive {
			flagged = append(flagged, m)
		}
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		a, b := flagged[i].LastActivity, flagged[j].LastActivity
		if a == nil {
			return b != nil
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})
	return flagged, nil
}

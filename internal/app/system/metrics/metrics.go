// Package metrics holds the Prometheus instruments for the roster engine.
// A nil registry yields working but unregistered counters, which keeps
// tests free of registration conflicts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics carries the engine's counters.
type Metrics struct {
	EventsRecorded prometheus.Counter
	EventsIgnored  prometheus.Counter
	SweepsRun      prometheus.Counter
	AlertsSent     prometheus.Counter
	SyncAdds       prometheus.Counter
	SyncArchives   prometheus.Counter
	SyncSkips      prometheus.Counter
}

// New creates the engine metrics, registered against registry when it is
// non-nil.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		EventsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gavel_activity_events_recorded_total",
			Help: "Activity events appended to the ledger",
		}),
		EventsIgnored: factory.NewCounter(prometheus.CounterOpts{
			Name: "gavel_activity_events_ignored_total",
			Help: "Activity signals dropped by the roster/scope filter",
		}),
		SweepsRun: factory.NewCounter(prometheus.CounterOpts{
			Name: "gavel_inactivity_sweeps_total",
			Help: "Inactivity sweeps executed",
		}),
		AlertsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "gavel_inactivity_alerts_sent_total",
			Help: "Alert payloads handed to the notifier",
		}),
		SyncAdds: factory.NewCounter(prometheus.CounterOpts{
			Name: "gavel_group_sync_adds_total",
			Help: "Roster entries added or re-activated by group sync",
		}),
		SyncArchives: factory.NewCounter(prometheus.CounterOpts{
			Name: "gavel_group_sync_archives_total",
			Help: "Roster entries archived by group sync",
		}),
		SyncSkips: factory.NewCounter(prometheus.CounterOpts{
			Name: "gavel_group_sync_skips_total",
			Help: "Members skipped during sync because the membership lookup failed",
		}),
	}
}

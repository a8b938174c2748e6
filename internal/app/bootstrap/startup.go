// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/gavelhq/gavel/internal/app/store/activitylog"
	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/store/notes"
	"github.com/gavelhq/gavel/internal/app/store/roster"
	"github.com/gavelhq/gavel/internal/app/store/scopes"
	"github.com/gavelhq/gavel/internal/app/store/strikes"
	"github.com/gavelhq/gavel/internal/app/system/alerts"
	"github.com/gavelhq/gavel/internal/app/system/groupsync"
	"github.com/gavelhq/gavel/internal/app/system/inactivity"
	"github.com/gavelhq/gavel/internal/app/system/metrics"
	"github.com/gavelhq/gavel/internal/app/system/tracker"
	"github.com/gavelhq/gavel/internal/app/system/upstream"

	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// services bundles everything built once at startup and shared by the
// HTTP layer and the shutdown hook.
type services struct {
	Roster   *roster.Store
	Activity *activitylog.Store
	Notes    *notes.Store
	Strikes  *strikes.Store
	Config   *guildconfig.Store
	Scopes   *scopes.Store

	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Evaluator  *inactivity.Evaluator
	Tracker    *tracker.Tracker
	Membership groupsync.MembershipSource
	Reconciler *groupsync.Reconciler
	Scheduler  *alerts.Scheduler
}

var svc services

// Startup builds the engine's stores and background services, runs an
// initial roster resync for every guild with sync roles configured, and
// starts the inactivity alert scheduler.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.GavelMongoDatabase

	svc.Roster = roster.New(db)
	svc.Activity = activitylog.New(db)
	svc.Notes = notes.New(db)
	svc.Strikes = strikes.New(db)
	svc.Config = guildconfig.New(db)
	svc.Scopes = scopes.New(db)

	svc.Registry = prometheus.NewRegistry()
	svc.Metrics = metrics.New(svc.Registry)

	svc.Evaluator = inactivity.NewEvaluator(svc.Roster, svc.Activity)
	svc.Tracker = tracker.New(svc.Roster, svc.Scopes, svc.Activity, svc.Metrics, logger)
	svc.Membership = upstream.NewMembershipClient(appCfg.MembershipBaseURL, appCfg.MembershipToken)
	svc.Reconciler = groupsync.New(svc.Roster, svc.Config, svc.Membership, svc.Metrics, logger)

	var notifier alerts.Notifier
	if appCfg.AlertWebhookURL != "" {
		notifier = upstream.NewWebhookNotifier(appCfg.AlertWebhookURL)
	} else {
		notifier = upstream.NewLogNotifier(logger)
	}
	svc.Scheduler = alerts.New(svc.Config, svc.Evaluator, notifier, svc.Metrics, logger,
		nil, appCfg.SweepInterval, appCfg.StartupSweepDelay)

	resyncAll(ctx, logger)
	svc.Scheduler.Start()
	return nil
}

// resyncAll runs a full reconciliation for every guild with sync roles
// configured. Failures are logged per guild; a broken guild does not
// block startup.
func resyncAll(ctx context.Context, logger *zap.Logger) {
	guilds, err := svc.Config.ListSyncedGuilds(ctx)
	if err != nil {
		logger.Error("startup resync: listing guilds failed", zap.Error(err))
		return
	}
	for _, guildID := range guilds {
		result, err := svc.Reconciler.Resync(ctx, guildID)
		if err != nil {
			logger.Error("startup resync failed for guild",
				zap.String("guild_id", guildID), zap.Error(err))
			continue
		}
		logger.Info("startup resync complete",
			zap.String("guild_id", guildID),
			zap.Int("added", result.Added),
			zap.Int("archived", result.Archived),
			zap.Int("skipped", result.Skipped))
	}
}

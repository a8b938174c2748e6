// internal/app/system/alerts/scheduler.go
package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/system/inactivity"
	"github.com/gavelhq/gavel/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Defaults for the sweep cadence.
const (
	DefaultInterval     = 24 * time.Hour
	DefaultKickoffDelay = 10 * time.Second
	sweepTimeout        = 2 * time.Minute
)

// Line is one flagged member in an alert payload.
type Line struct {
	UserID     string `json:"userId"`
	StatusText string `json:"statusText"`
}

// Alert is the payload handed to the notifier for one guild.
type Alert struct {
	GuildID       string `json:"guildId"`
	Destination   string `json:"destination"`
	ThresholdDays int    `json:"thresholdDays"`
	Lines         []Line `json:"lines"`
}

// Notifier delivers alert payloads. Delivery mechanics are out of the
// engine's hands; an error is logged and the sweep moves on.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Clock abstracts the timers so tests can drive sweeps without waiting.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now().UTC() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// Scheduler is a background worker that sweeps every configured guild for
// inactive roster members: once shortly after startup, then on a fixed
// interval.
type Scheduler struct {
	config    *guildconfig.Store
	evaluator *inactivity.Evaluator
	notifier  Notifier
	metrics   *metrics.Metrics
	log       *zap.Logger

	clock        Clock
	interval     time.Duration
	kickoffDelay time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates an alert Scheduler. Zero interval or kickoff delay fall back
// to the defaults; a nil clock uses the wall clock.
func New(configStore *guildconfig.Store, evaluator *inactivity.Evaluator, notifier Notifier, m *metrics.Metrics, logger *zap.Logger, clock Clock, interval, kickoffDelay time.Duration) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if kickoffDelay <= 0 {
		kickoffDelay = DefaultKickoffDelay
	}
	return &Scheduler{
		config:       configStore,
		evaluator:    evaluator,
		notifier:     notifier,
		metrics:      m,
		log:          logger,
		clock:        clock,
		interval:     interval,
		kickoffDelay: kickoffDelay,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	s.log.Info("inactivity alert scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("kickoff_delay", s.kickoffDelay))
}

// Stop signals the worker to stop and waits for it to finish.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	s.log.Info("inactivity alert scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	timer := s.clock.After(s.kickoffDelay)
	for {
		select {
		case <-s.stopCh:
			return
		case <-timer:
			s.Sweep(context.Background())
			timer = s.clock.After(s.interval)
		}
	}
}

// Sweep evaluates every guild with an alert destination and hands a
// payload to the notifier for each non-empty inactive set. Guilds are
// processed sequentially; a failure in one guild is logged and does not
// block the rest.
func (s *Scheduler) Sweep(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, sweepTimeout)
	defer cancel()

	s.metrics.SweepsRun.Inc()

	guilds, err := s.config.ListConfiguredGuilds(ctx)
	if err != nil {
		s.log.Error("inactivity sweep: listing guilds failed", zap.Error(err))
		return
	}

	for _, guildID := range guilds {
		if err := s.sweepGuild(ctx, guildID); err != nil {
			s.log.Error("inactivity sweep failed for guild",
				zap.String("guild_id", guildID), zap.Error(err))
		}
	}
}

func (s *Scheduler) sweepGuild(ctx context.Context, guildID string) error {
	cfg, err := s.config.Get(ctx, guildID)
	if err != nil {
		return err
	}
	if cfg.AlertChannelID == "" {
		return nil
	}

	flagged, err := s.evaluator.InactiveSet(ctx, guildID, cfg.InactivityDays)
	if err != nil {
		return err
	}
	if len(flagged) == 0 {
		return nil
	}

	now := s.clock.Now()
	alert := Alert{
		GuildID:       guildID,
		Destination:   cfg.AlertChannelID,
		ThresholdDays: cfg.InactivityDays,
		Lines:         make([]Line, 0, len(flagged)),
	}
	for _, m := range flagged {
		alert.Lines = append(alert.Lines, Line{
			UserID:     m.Entry.UserID,
			StatusText: inactivity.StatusText(m.LastActivity, now),
		})
	}

	if err := s.notifier.Notify(ctx, alert); err != nil {
		return err
	}
	s.metrics.AlertsSent.Inc()
	s.log.Info("inactivity alert sent",
		zap.String("guild_id", guildID),
		zap.Int("flagged", len(alert.Lines)))
	return nil
}

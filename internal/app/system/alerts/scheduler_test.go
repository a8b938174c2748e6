package alerts

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gavelhq/gavel/internal/app/store/activitylog"
	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/store/roster"
	"github.com/gavelhq/gavel/internal/app/system/inactivity"
	"github.com/gavelhq/gavel/internal/app/system/metrics"
	"github.com/gavelhq/gavel/internal/testutil"
	"go.uber.org/zap"
)

// fakeClock hands out timer channels the test fires by hand.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now().UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.timers = append(c.timers, ch)
	return ch
}

// fire triggers the i-th timer handed out so far.
func (c *fakeClock) fire(i int) {
	c.mu.Lock()
	ch := c.timers[i]
	c.mu.Unlock()
	ch <- c.Now()
}

func (c *fakeClock) timerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []Alert
}

func (n *recordingNotifier) Notify(ctx context.Context, alert Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *recordingNotifier) all() []Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Alert(nil), n.alerts...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSweep_AlertsOnlyConfiguredGuildsWithFlaggedMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	configStore := guildconfig.New(db)
	evaluator := inactivity.NewEvaluator(roster.New(db), activitylog.New(db))
	notifier := &recordingNotifier{}

	s := New(configStore, evaluator, notifier, metrics.New(nil), zap.NewNop(), newFakeClock(), 0, 0)

	now := time.Now().UTC()

	// guild-1: configured, one inactive and one never-active member.
	if err := configStore.SetAlertChannel(ctx, "guild-1", "alerts-chan"); err != nil {
		t.Fatalf("SetAlertChannel failed: %v", err)
	}
	f.AddRosterEntry(ctx, "guild-1", "dormant")
	f.AddRosterEntry(ctx, "guild-1", "silent")
	f.AddRosterEntry(ctx, "guild-1", "busy")
	f.RecordActivityAt(ctx, "guild-1", "dormant", "chan-1", "general", now.AddDate(0, 0, -12))
	f.RecordActivityAt(ctx, "guild-1", "busy", "chan-1", "general", now.Add(-time.Hour))

	// guild-2: configured but everyone is active.
	if err := configStore.SetAlertChannel(ctx, "guild-2", "alerts-chan"); err != nil {
		t.Fatalf("SetAlertChannel failed: %v", err)
	}
	f.AddRosterEntry(ctx, "guild-2", "worker")
	f.RecordActivityAt(ctx, "guild-2", "worker", "chan-1", "general", now)

	// guild-3: inactive members but no alert destination.
	f.AddRosterEntry(ctx, "guild-3", "ignored")

	s.Sweep(ctx)

	alerts := notifier.all()
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	alert := alerts[0]
	if alert.GuildID != "guild-1" {
		t.Errorf("guild: got %q, want guild-1", alert.GuildID)
	}
	if alert.Destination != "alerts-chan" {
		t.Errorf("destination: got %q", alert.Destination)
	}
	if len(alert.Lines) != 2 {
		t.Fatalf("expected 2 flagged members, got %d", len(alert.Lines))
	}
	// Never-active first, then oldest activity.
	if alert.Lines[0].UserID != "silent" || alert.Lines[1].UserID != "dormant" {
		t.Errorf("unexpected line order: %q, %q", alert.Lines[0].UserID, alert.Lines[1].UserID)
	}
	if alert.Lines[0].StatusText != "no recorded activity" {
		t.Errorf("silent status text: got %q", alert.Lines[0].StatusText)
	}
	if alert.Lines[1].StatusText != "last active 12 days ago" {
		t.Errorf("dormant status text: got %q", alert.Lines[1].StatusText)
	}
}

func TestScheduler_KickoffThenInterval(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	configStore := guildconfig.New(db)
	evaluator := inactivity.NewEvaluator(roster.New(db), activitylog.New(db))
	notifier := &recordingNotifier{}
	clock := newFakeClock()

	if err := configStore.SetAlertChannel(ctx, "guild-1", "alerts-chan"); err != nil {
		t.Fatalf("SetAlertChannel failed: %v", err)
	}
	f.AddRosterEntry(ctx, "guild-1", "silent")

	s := New(configStore, evaluator, notifier, metrics.New(nil), zap.NewNop(), clock, time.Hour, time.Second)
	s.Start()
	defer s.Stop()

	// The kickoff timer is armed on start; nothing has fired yet.
	waitFor(t, func() bool { return clock.timerCount() == 1 })
	if len(notifier.all()) != 0 {
		t.Fatal("no sweep should run before the kickoff timer fires")
	}

	clock.fire(0)
	waitFor(t, func() bool { return len(notifier.all()) == 1 })

	// After the kickoff sweep the interval timer is armed.
	waitFor(t, func() bool { return clock.timerCount() == 2 })
	clock.fire(1)
	waitFor(t, func() bool { return len(notifier.all()) == 2 })
}

func TestScheduler_StopBeforeKickoff(t *testing.T) {
	db := testutil.SetupTestDB(t)

	configStore := guildconfig.New(db)
	evaluator := inactivity.NewEvaluator(roster.New(db), activitylog.New(db))
	notifier := &recordingNotifier{}
	clock := newFakeClock()

	s := New(configStore, evaluator, notifier, metrics.New(nil), zap.NewNop(), clock, time.Hour, time.Second)
	s.Start()
	s.Stop()

	if len(notifier.all()) != 0 {
		t.Error("no sweep should run when stopped before kickoff")
	}
}

package signalapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gavelhq/gavel/internal/app/store/activitylog"
	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/store/roster"
	"github.com/gavelhq/gavel/internal/app/store/scopes"
	"github.com/gavelhq/gavel/internal/app/system/groupsync"
	"github.com/gavelhq/gavel/internal/app/system/metrics"
	"github.com/gavelhq/gavel/internal/app/system/ratelimit"
	"github.com/gavelhq/gavel/internal/app/system/tracker"
	"github.com/gavelhq/gavel/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const testToken = "intake-secret"

type signalEnv struct {
	router   chi.Router
	activity *activitylog.Store
	roster   *roster.Store
	config   *guildconfig.Store
	fixtures *testutil.Fixtures
}

func newSignalEnv(t *testing.T, limit int) *signalEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	rosterStore := roster.New(db)
	scopeStore := scopes.New(db)
	activityStore := activitylog.New(db)
	configStore := guildconfig.New(db)
	m := metrics.New(nil)

	trk := tracker.New(rosterStore, scopeStore, activityStore, m, zap.NewNop())
	reconciler := groupsync.New(rosterStore, configStore, &staticSource{}, m, zap.NewNop())
	h := NewHandler(trk, reconciler, testToken, zap.NewNop())

	return &signalEnv{
		router:   Routes(h, ratelimit.New(limit, time.Minute)),
		activity: activityStore,
		roster:   rosterStore,
		config:   configStore,
		fixtures: testutil.NewFixtures(t, db),
	}
}

// staticSource exists only to satisfy the reconciler; member updates do
// not call the membership source.
type staticSource struct{}

func (staticSource) Snapshot(ctx context.Context, guildID string) ([]groupsync.Member, error) {
	return nil, nil
}

func (staticSource) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	return nil, groupsync.ErrMemberNotFound
}

func (e *signalEnv) do(req *http.Request, token string) *testutil.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestServeSignal_RecordsMonitoredActivity(t *testing.T) {
	env := newSignalEnv(t, 100)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	env.fixtures.AddRosterEntry(ctx, "guild-1", "u1")
	env.fixtures.AddMonitoredScope(ctx, "guild-1", "chan-1", "channel")

	rec := env.do(testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]string{
		"guildId": "guild-1", "userId": "u1", "scopeId": "chan-1", "scopeName": "general",
	}), testToken)
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Recorded bool `json:"recorded"`
	}
	rec.DecodeJSON(t, &resp)
	if !resp.Recorded {
		t.Error("signal from a rostered member in a monitored scope should record")
	}

	last, err := env.activity.LastActivity(ctx, "guild-1", "u1")
	if err != nil || last == nil {
		t.Fatalf("LastActivity after signal: %v, %v", last, err)
	}
}

func TestServeSignal_IgnoresUnmonitoredScope(t *testing.T) {
	env := newSignalEnv(t, 100)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	env.fixtures.AddRosterEntry(ctx, "guild-1", "u1")

	rec := env.do(testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]string{
		"guildId": "guild-1", "userId": "u1", "scopeId": "chan-9",
	}), testToken)
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Recorded bool `json:"recorded"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Recorded {
		t.Error("unmonitored scope should not record")
	}
}

func TestServeSignal_Validation(t *testing.T) {
	env := newSignalEnv(t, 100)

	rec := env.do(testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]string{
		"guildId": "guild-1", "scopeId": "chan-1",
	}), testToken)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestRequireToken(t *testing.T) {
	env := newSignalEnv(t, 100)

	body := map[string]string{"guildId": "g", "userId": "u", "scopeId": "s"}

	rec := env.do(testutil.NewJSONRequest(t, http.MethodPost, "/", body), "")
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = env.do(testutil.NewJSONRequest(t, http.MethodPost, "/", body), "wrong-secret")
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeMemberUpdate(t *testing.T) {
	env := newSignalEnv(t, 100)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := env.config.SetSyncRoles(ctx, "guild-1", []string{"role-sync"}); err != nil {
		t.Fatalf("SetSyncRoles failed: %v", err)
	}

	rec := env.do(testutil.NewJSONRequest(t, http.MethodPost, "/member-update", map[string]any{
		"guildId":     "guild-1",
		"userId":      "u1",
		"beforeRoles": []string{},
		"afterRoles":  []string{"role-sync"},
	}), testToken)
	rec.AssertStatus(t, http.StatusOK)

	active, err := env.roster.IsActiveMember(ctx, "guild-1", "u1")
	if err != nil || !active {
		t.Errorf("u1 should be active after gaining a sync role: %v, %v", active, err)
	}

	rec = env.do(testutil.NewJSONRequest(t, http.MethodPost, "/member-update", map[string]any{
		"guildId":     "guild-1",
		"userId":      "u1",
		"beforeRoles": []string{"role-sync"},
		"afterRoles":  []string{},
	}), testToken)
	rec.AssertStatus(t, http.StatusOK)

	active, err = env.roster.IsActiveMember(ctx, "guild-1", "u1")
	if err != nil || active {
		t.Errorf("u1 should be archived after losing the sync role: %v, %v", active, err)
	}
}

func TestRateLimit(t *testing.T) {
	env := newSignalEnv(t, 2)

	body := map[string]string{"guildId": "g", "userId": "u", "scopeId": "s"}
	for i := 0; i < 2; i++ {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/", body)
		req.RemoteAddr = "10.1.1.1:4000"
		rec := env.do(req, testToken)
		rec.AssertStatus(t, http.StatusOK)
	}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", body)
	req.RemoteAddr = "10.1.1.1:4000"
	rec := env.do(req, testToken)
	rec.AssertStatus(t, http.StatusTooManyRequests)
}

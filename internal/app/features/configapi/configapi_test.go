package configapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/store/roster"
	"github.com/gavelhq/gavel/internal/app/store/scopes"
	"github.com/gavelhq/gavel/internal/app/system/apiauth"
	"github.com/gavelhq/gavel/internal/app/system/authcache"
	"github.com/gavelhq/gavel/internal/app/system/groupsync"
	"github.com/gavelhq/gavel/internal/app/system/metrics"
	"github.com/gavelhq/gavel/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// fixedSource serves one static membership snapshot.
type fixedSource struct {
	members []groupsync.Member
	err     error
}

func (s *fixedSource) Snapshot(ctx context.Context, guildID string) ([]groupsync.Member, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.members, nil
}

func (s *fixedSource) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, m := range s.members {
		if m.UserID == userID {
			return m.RoleIDs, nil
		}
	}
	return nil, groupsync.ErrMemberNotFound
}

type configEnv struct {
	router chi.Router
	config *guildconfig.Store
	scopes *scopes.Store
	roster *roster.Store
}

func newConfigEnv(t *testing.T, source *fixedSource) *configEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	configStore := guildconfig.New(db)
	scopeStore := scopes.New(db)
	rosterStore := roster.New(db)

	if err := configStore.SetDashboardRoles(ctx, "guild-1", []string{"role-dash"}); err != nil {
		t.Fatalf("SetDashboardRoles failed: %v", err)
	}

	reconciler := groupsync.New(rosterStore, configStore, source, metrics.New(nil), zap.NewNop())
	h := NewHandler(configStore, scopeStore, reconciler, zap.NewNop())
	az := apiauth.New(configStore, source, authcache.New[bool](time.Minute, nil), "", zap.NewNop())

	return &configEnv{
		router: Routes(h, az),
		config: configStore,
		scopes: scopeStore,
		roster: rosterStore,
	}
}

func (e *configEnv) do(req *http.Request) *testutil.ResponseRecorder {
	req.Header.Set(apiauth.DefaultUserHeader, "u-admin")
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func adminSource() *fixedSource {
	return &fixedSource{members: []groupsync.Member{{UserID: "u-admin", RoleIDs: []string{"role-dash"}}}}
}

func TestServeConfig_Defaults(t *testing.T) {
	env := newConfigEnv(t, adminSource())

	rec := env.do(testutil.NewRequest(http.MethodGet, "/guild-1/"))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		GuildID        string   `json:"guildId"`
		AlertChannelID string   `json:"alertChannelId"`
		InactivityDays int      `json:"inactivityDays"`
		SyncRoleIDs    []string `json:"syncRoleIds"`
		DashboardRoles []string `json:"dashboardRoleIds"`
	}
	rec.DecodeJSON(t, &resp)

	if resp.GuildID != "guild-1" {
		t.Errorf("guildId: got %q", resp.GuildID)
	}
	if resp.InactivityDays != 7 {
		t.Errorf("inactivityDays: got %d, want default 7", resp.InactivityDays)
	}
	if resp.SyncRoleIDs == nil || len(resp.SyncRoleIDs) != 0 {
		t.Errorf("syncRoleIds should be an empty array, got %v", resp.SyncRoleIDs)
	}
}

func TestSetAlertChannel(t *testing.T) {
	env := newConfigEnv(t, adminSource())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := env.do(testutil.NewJSONRequest(t, http.MethodPut, "/guild-1/alert-channel",
		map[string]string{"channelId": "  chan-9  "}))
	rec.AssertStatus(t, http.StatusOK)

	cfg, err := env.config.Get(ctx, "guild-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if cfg.AlertChannelID != "chan-9" {
		t.Errorf("alert channel: got %q, want trimmed id", cfg.AlertChannelID)
	}

	// Clearing the destination takes the guild out of the sweep.
	rec = env.do(testutil.NewJSONRequest(t, http.MethodPut, "/guild-1/alert-channel",
		map[string]string{"channelId": ""}))
	rec.AssertStatus(t, http.StatusOK)
	cfg, _ = env.config.Get(ctx, "guild-1")
	if cfg.AlertChannelID != "" {
		t.Errorf("alert channel after clear: got %q", cfg.AlertChannelID)
	}
}

func TestSetInactivityDays(t *testing.T) {
	env := newConfigEnv(t, adminSource())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, days := range []int{0, -3, 366} {
		rec := env.do(testutil.NewJSONRequest(t, http.MethodPut, "/guild-1/inactivity-days",
			map[string]int{"days": days}))
		rec.AssertStatus(t, http.StatusBadRequest)
	}

	rec := env.do(testutil.NewJSONRequest(t, http.MethodPut, "/guild-1/inactivity-days",
		map[string]int{"days": 21}))
	rec.AssertStatus(t, http.StatusOK)

	cfg, err := env.config.Get(ctx, "guild-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if cfg.InactivityDays != 21 {
		t.Errorf("inactivityDays: got %d, want 21", cfg.InactivityDays)
	}
}

func TestSetSyncRoles_CleansInput(t *testing.T) {
	env := newConfigEnv(t, adminSource())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := env.do(testutil.NewJSONRequest(t, http.MethodPut, "/guild-1/sync-roles",
		map[string][]string{"roleIds": {" role-a ", "role-b", "role-a", "", "role-b"}}))
	rec.AssertStatus(t, http.StatusOK)

	cfg, err := env.config.Get(ctx, "guild-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(cfg.SyncRoleIDs) != 2 || cfg.SyncRoleIDs[0] != "role-a" || cfg.SyncRoleIDs[1] != "role-b" {
		t.Errorf("syncRoleIds: got %v, want deduped trimmed pair", cfg.SyncRoleIDs)
	}
}

func TestSetSyncRoles_ResyncsExistingRoleHolders(t *testing.T) {
	source := adminSource()
	source.members = append(source.members,
		groupsync.Member{UserID: "u-holder", RoleIDs: []string{"role-new"}},
		groupsync.Member{UserID: "u-other", RoleIDs: []string{"role-misc"}})
	env := newConfigEnv(t, source)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Designating a role already held by a member puts them on the
	// roster immediately, without a role-change signal or restart.
	rec := env.do(testutil.NewJSONRequest(t, http.MethodPut, "/guild-1/sync-roles",
		map[string][]string{"roleIds": {"role-new"}}))
	rec.AssertStatus(t, http.StatusOK)

	active, err := env.roster.IsActiveMember(ctx, "guild-1", "u-holder")
	if err != nil || !active {
		t.Errorf("u-holder should be rostered after the role set change: %v, %v", active, err)
	}
	active, err = env.roster.IsActiveMember(ctx, "guild-1", "u-other")
	if err != nil || active {
		t.Errorf("u-other holds no sync role and should stay off the roster: %v, %v", active, err)
	}

	// Swapping the set away archives members who no longer qualify.
	rec = env.do(testutil.NewJSONRequest(t, http.MethodPut, "/guild-1/sync-roles",
		map[string][]string{"roleIds": {"role-misc"}}))
	rec.AssertStatus(t, http.StatusOK)

	active, err = env.roster.IsActiveMember(ctx, "guild-1", "u-holder")
	if err != nil || active {
		t.Errorf("u-holder should be archived after losing sync-role status: %v, %v", active, err)
	}
	active, err = env.roster.IsActiveMember(ctx, "guild-1", "u-other")
	if err != nil || !active {
		t.Errorf("u-other should be rostered under the new role set: %v, %v", active, err)
	}
}

func TestSetSyncRoles_SourceFailureKeepsConfig(t *testing.T) {
	source := adminSource()
	env := newConfigEnv(t, source)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Authorize first so the failure only hits the snapshot call.
	rec := env.do(testutil.NewRequest(http.MethodGet, "/guild-1/"))
	rec.AssertStatus(t, http.StatusOK)

	source.err = errors.New("gateway down")
	rec = env.do(testutil.NewJSONRequest(t, http.MethodPut, "/guild-1/sync-roles",
		map[string][]string{"roleIds": {"role-sync"}}))
	rec.AssertStatus(t, http.StatusOK)

	cfg, err := env.config.Get(ctx, "guild-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(cfg.SyncRoleIDs) != 1 || cfg.SyncRoleIDs[0] != "role-sync" {
		t.Errorf("config should hold the new role set despite the failed resync: %v", cfg.SyncRoleIDs)
	}
}

func TestScopeEndpoints(t *testing.T) {
	env := newConfigEnv(t, adminSource())

	rec := env.do(testutil.NewJSONRequest(t, http.MethodPost, "/guild-1/scopes",
		map[string]string{"scopeId": "chan-1", "kind": "hallway"}))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = env.do(testutil.NewJSONRequest(t, http.MethodPost, "/guild-1/scopes",
		map[string]string{"scopeId": "chan-1", "kind": "channel"}))
	rec.AssertStatus(t, http.StatusOK)
	rec = env.do(testutil.NewJSONRequest(t, http.MethodPost, "/guild-1/scopes",
		map[string]string{"scopeId": "cat-1", "kind": "category"}))
	rec.AssertStatus(t, http.StatusOK)

	rec = env.do(testutil.NewRequest(http.MethodGet, "/guild-1/scopes"))
	rec.AssertStatus(t, http.StatusOK)
	var listResp struct {
		Scopes []struct {
			ScopeID string `json:"scopeId"`
			Kind    string `json:"kind"`
		} `json:"scopes"`
	}
	rec.DecodeJSON(t, &listResp)
	if len(listResp.Scopes) != 2 {
		t.Fatalf("scopes: got %d, want 2", len(listResp.Scopes))
	}

	rec = env.do(testutil.NewRequest(http.MethodDelete, "/guild-1/scopes/chan-1"))
	rec.AssertStatus(t, http.StatusOK)
	rec = env.do(testutil.NewRequest(http.MethodDelete, "/guild-1/scopes/chan-1"))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeResync(t *testing.T) {
	source := adminSource()
	source.members = append(source.members, groupsync.Member{UserID: "u-law", RoleIDs: []string{"role-sync"}})
	env := newConfigEnv(t, source)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := env.config.SetSyncRoles(ctx, "guild-1", []string{"role-sync"}); err != nil {
		t.Fatalf("SetSyncRoles failed: %v", err)
	}

	rec := env.do(testutil.NewRequest(http.MethodPost, "/guild-1/resync"))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Added    int `json:"added"`
		Archived int `json:"archived"`
		Skipped  int `json:"skipped"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Added != 1 || resp.Archived != 0 || resp.Skipped != 0 {
		t.Errorf("resync result: %+v", resp)
	}

	active, err := env.roster.IsActiveMember(ctx, "guild-1", "u-law")
	if err != nil || !active {
		t.Errorf("u-law should be on the roster after resync: %v, %v", active, err)
	}
}

func TestServeResync_SourceFailure(t *testing.T) {
	source := adminSource()
	env := newConfigEnv(t, source)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := env.config.SetSyncRoles(ctx, "guild-1", []string{"role-sync"}); err != nil {
		t.Fatalf("SetSyncRoles failed: %v", err)
	}

	// Authorize first so the failure only hits the snapshot call.
	rec := env.do(testutil.NewRequest(http.MethodGet, "/guild-1/"))
	rec.AssertStatus(t, http.StatusOK)

	source.err = errors.New("gateway down")
	rec = env.do(testutil.NewRequest(http.MethodPost, "/guild-1/resync"))
	rec.AssertStatus(t, http.StatusBadGateway)
}

package scopes

import (
	"testing"

	"github.com/gavelhq/gavel/internal/domain/models"
	"github.com/gavelhq/gavel/internal/testutil"
)

func TestMatches(t *testing.T) {
	monitored := []models.MonitoredScope{
		{GuildID: "g", ScopeID: "leaf-1", Kind: models.ScopeKindLeaf},
		{GuildID: "g", ScopeID: "group-1", Kind: models.ScopeKindGroup},
	}

	cases := []struct {
		name     string
		scopeID  string
		parentID string
		want     bool
	}{
		{"direct leaf match", "leaf-1", "", true},
		{"direct group match", "group-1", "", true},
		{"child of group scope", "other", "group-1", true},
		{"child of leaf scope does not match", "other", "leaf-1", false},
		{"unmonitored scope", "other", "", false},
		{"unmonitored parent", "other", "group-2", false},
		{"empty parent", "other", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(monitored, tc.scopeID, tc.parentID); got != tc.want {
				t.Errorf("Matches(%q, %q): got %v, want %v", tc.scopeID, tc.parentID, got, tc.want)
			}
		})
	}

	if Matches(nil, "leaf-1", "group-1") {
		t.Error("empty monitored set must match nothing")
	}
}

func TestAddRemoveList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	if err := store.Add(ctx, "guild-1", "chan-1", models.ScopeKindLeaf); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Add(ctx, "guild-1", "cat-1", models.ScopeKindGroup); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Re-adding updates the kind instead of duplicating.
	if err := store.Add(ctx, "guild-1", "chan-1", models.ScopeKindGroup); err != nil {
		t.Fatalf("re-Add failed: %v", err)
	}

	list, err := store.List(ctx, "guild-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 scopes, got %d", len(list))
	}
	for _, s := range list {
		if s.ScopeID == "chan-1" && s.Kind != models.ScopeKindGroup {
			t.Errorf("re-add did not update kind: got %q", s.Kind)
		}
	}

	removed, err := store.Remove(ctx, "guild-1", "chan-1")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Error("expected Remove to report true")
	}
	removed, err = store.Remove(ctx, "guild-1", "chan-1")
	if err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
	if removed {
		t.Error("expected false for an unmonitored scope")
	}
}

func TestAdd_RejectsUnknownKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	if err := store.Add(ctx, "guild-1", "chan-1", "thread"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestIsMonitored_GuildScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	if err := store.Add(ctx, "guild-1", "cat-1", models.ScopeKindGroup); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ok, err := store.IsMonitored(ctx, "guild-1", "chan-x", "cat-1")
	if err != nil {
		t.Fatalf("IsMonitored failed: %v", err)
	}
	if !ok {
		t.Error("expected child of monitored group to be monitored")
	}

	ok, err = store.IsMonitored(ctx, "guild-2", "chan-x", "cat-1")
	if err != nil {
		t.Fatalf("IsMonitored failed: %v", err)
	}
	if ok {
		t.Error("another guild's scopes must not apply")
	}
}

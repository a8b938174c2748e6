package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/gavelhq/gavel/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// AddRosterEntry inserts an active roster entry directly.
func (f *Fixtures) AddRosterEntry(ctx context.Context, guildID, userID string) models.RosterEntry {
	f.t.Helper()

	now := time.Now().UTC()
	entry := models.RosterEntry{
		ID:       primitive.NewObjectID(),
		GuildID:  guildID,
		UserID:   userID,
		AddedBy:  "fixture",
		AddedAt:  now,
		HireDate: now,
	}
	if _, err := f.db.Collection("roster_entries").InsertOne(ctx, entry); err != nil {
		f.t.Fatalf("failed to create roster entry: %v", err)
	}
	return entry
}

// AddArchivedEntry inserts an archived roster entry directly.
func (f *Fixtures) AddArchivedEntry(ctx context.Context, guildID, userID string) models.RosterEntry {
	f.t.Helper()

	now := time.Now().UTC()
	archivedAt := now
	entry := models.RosterEntry{
		ID:         primitive.NewObjectID(),
		GuildID:    guildID,
		UserID:     userID,
		AddedBy:    "fixture",
		AddedAt:    now.Add(-24 * time.Hour),
		HireDate:   now.Add(-24 * time.Hour),
		Archived:   true,
		ArchivedAt: &archivedAt,
		ArchivedBy: "fixture",
	}
	if _, err := f.db.Collection("roster_entries").InsertOne(ctx, entry); err != nil {
		f.t.Fatalf("failed to create archived roster entry: %v", err)
	}
	return entry
}

// RecordActivityAt inserts an activity event with an explicit timestamp,
// so tests can backdate events for window and recency assertions.
func (f *Fixtures) RecordActivityAt(ctx context.Context, guildID, userID, scopeID, scopeName string, at time.Time) models.ActivityEvent {
	f.t.Helper()

	event := models.ActivityEvent{
		ID:        primitive.NewObjectID(),
		GuildID:   guildID,
		UserID:    userID,
		ScopeID:   scopeID,
		ScopeName: scopeName,
		LoggedAt:  at.UTC(),
	}
	if _, err := f.db.Collection("activity_events").InsertOne(ctx, event); err != nil {
		f.t.Fatalf("failed to create activity event: %v", err)
	}
	return event
}

// AddMonitoredScope inserts a monitored scope directly.
func (f *Fixtures) AddMonitoredScope(ctx context.Context, guildID, scopeID, kind string) models.MonitoredScope {
	f.t.Helper()

	scope := models.MonitoredScope{
		ID:      primitive.NewObjectID(),
		GuildID: guildID,
		ScopeID: scopeID,
		Kind:    kind,
	}
	if _, err := f.db.Collection("monitored_scopes").InsertOne(ctx, scope); err != nil {
		f.t.Fatalf("failed to create monitored scope: %v", err)
	}
	return scope
}

// AddStrike inserts a strike directly and returns it.
func (f *Fixtures) AddStrike(ctx context.Context, guildID, userID, reason string) models.Strike {
	f.t.Helper()

	strike := models.Strike{
		StrikeID:  uuid.NewString(),
		GuildID:   guildID,
		UserID:    userID,
		IssuedBy:  "fixture",
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("roster_strikes").InsertOne(ctx, strike); err != nil {
		f.t.Fatalf("failed to create strike: %v", err)
	}
	return strike
}

// SetGuildConfig upserts a full guild config document directly.
func (f *Fixtures) SetGuildConfig(ctx context.Context, cfg models.GuildConfig) {
	f.t.Helper()

	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
	}
	if _, err := f.db.Collection("guild_config").InsertOne(ctx, cfg); err != nil {
		f.t.Fatalf("failed to create guild config: %v", err)
	}
}

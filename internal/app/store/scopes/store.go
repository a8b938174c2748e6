// internal/app/store/scopes/store.go
package scopes

import (
	"context"
	"fmt"

	"github.com/gavelhq/gavel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the monitored-scope set per guild. A scope is either a
// leaf channel or a category-like group of channels.
type Store struct {
	c *mongo.Collection
}

// New creates a new monitored scopes Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("monitored_scopes")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "scope_id", Value: 1}},
			Options: options.Index().SetName("idx_scopes_guild_scope").SetUnique(true),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Add starts monitoring a scope. Re-adding an existing scope updates its
// kind. Kind must be one of models.ScopeKindLeaf or models.ScopeKindGroup.
func (s *Store) Add(ctx context.Context, guildID, scopeID, kind string) error {
	if kind != models.ScopeKindLeaf && kind != models.ScopeKindGroup {
		return fmt.Errorf("invalid scope kind %q", kind)
	}
	update := bson.M{
		"$set":         bson.M{"kind": kind},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "guild_id": guildID, "scope_id": scopeID},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"guild_id": guildID, "scope_id": scopeID}, update, opts)
	return err
}

// Remove stops monitoring a scope. Returns false if it was not monitored.
func (s *Store) Remove(ctx context.Context, guildID, scopeID string) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"guild_id": guildID, "scope_id": scopeID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// List returns all monitored scopes for a guild.
func (s *Store) List(ctx context.Context, guildID string) ([]models.MonitoredScope, error) {
	cur, err := s.c.Find(ctx, bson.M{"guild_id": guildID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MonitoredScope
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Matches is the single scope-membership rule: a scope is monitored when
// it is in the set directly, or when its parent is in the set as a group
// scope. Every caller that needs "is this location tracked" goes through
// this function so the filter and the views cannot drift apart.
func Matches(monitored []models.MonitoredScope, scopeID, parentID string) bool {
	for _, m := range monitored {
		if m.ScopeID == scopeID {
			return true
		}
		if m.Kind == models.ScopeKindGroup && parentID != "" && m.ScopeID == parentID {
			return true
		}
	}
	return false
}

// IsMonitored reports whether the scope itself or its parent group is in
// the guild's monitored set. parentID may be empty for scopes with no
// parent.
func (s *Store) IsMonitored(ctx context.Context, guildID, scopeID, parentID string) (bool, error) {
	monitored, err := s.List(ctx, guildID)
	if err != nil {
		return false, err
	}
	return Matches(monitored, scopeID, parentID), nil
}

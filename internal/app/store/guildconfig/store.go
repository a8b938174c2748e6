// internal/app/store/guildconfig/store.go
package guildconfig

import (
	"context"
	"fmt"

	"github.com/gavelhq/gavel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Bounds for the inactivity threshold.
const (
	MinInactivityDays = 1
	MaxInactivityDays = 365
)

// Store provides access to per-guild settings. Each guild has at most one
// settings document; a guild with none gets defaults from Get.
type Store struct {
	c *mongo.Collection
}

// New creates a new guild config Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("guild_config")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}},
			Options: options.Index().SetName("idx_guildconfig_guild").SetUnique(true),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Get returns the guild's settings, with defaults filled in for anything
// unset. A guild with no stored document gets pure defaults.
func (s *Store) Get(ctx context.Context, guildID string) (models.GuildConfig, error) {
	var cfg models.GuildConfig
	err := s.c.FindOne(ctx, bson.M{"guild_id": guildID}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		return models.GuildConfig{
			GuildID:        guildID,
			InactivityDays: models.DefaultInactivityDays,
		}, nil
	}
	if err != nil {
		return models.GuildConfig{}, err
	}
	if cfg.InactivityDays <= 0 {
		cfg.InactivityDays = models.DefaultInactivityDays
	}
	return cfg, nil
}

// SetAlertChannel sets (or clears, with an empty id) the destination for
// inactivity alerts.
func (s *Store) SetAlertChannel(ctx context.Context, guildID, channelID string) error {
	return s.setField(ctx, guildID, "alert_channel_id", channelID)
}

// SetInactivityDays sets the flagging threshold. Values outside
// [MinInactivityDays, MaxInactivityDays] are rejected before the write.
func (s *Store) SetInactivityDays(ctx context.Context, guildID string, days int) error {
	if days < MinInactivityDays || days > MaxInactivityDays {
		return fmt.Errorf("inactivity days must be between %d and %d, got %d",
			MinInactivityDays, MaxInactivityDays, days)
	}
	return s.setField(ctx, guildID, "inactivity_days", days)
}

// SetSyncRoles replaces the set of role ids whose membership implies
// roster inclusion.
func (s *Store) SetSyncRoles(ctx context.Context, guildID string, roleIDs []string) error {
	return s.setField(ctx, guildID, "sync_role_ids", roleIDs)
}

// SetDashboardRoles replaces the set of role ids granted dashboard read
// access.
func (s *Store) SetDashboardRoles(ctx context.Context, guildID string, roleIDs []string) error {
	return s.setField(ctx, guildID, "dashboard_role_ids", roleIDs)
}

// setField upserts a single settings field, last write wins.
func (s *Store) setField(ctx context.Context, guildID, field string, value any) error {
	update := bson.M{
		"$set":         bson.M{field: value},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "guild_id": guildID},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"guild_id": guildID}, update, opts)
	return err
}

// ListConfiguredGuilds returns the ids of guilds with an alert destination
// set. Only these are visited by the inactivity sweep.
func (s *Store) ListConfiguredGuilds(ctx context.Context) ([]string, error) {
	filter := bson.M{"alert_channel_id": bson.M{"$exists": true, "$ne": ""}}
	cur, err := s.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"guild_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var guilds []string
	for cur.Next(ctx) {
		var doc struct {
			GuildID string `bson:"guild_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		guilds = append(guilds, doc.GuildID)
	}
	return guilds, cur.Err()
}

// ListSyncedGuilds returns the ids of guilds with at least one roster-sync
// role configured. These get a full resync at startup.
func (s *Store) ListSyncedGuilds(ctx context.Context) ([]string, error) {
	filter := bson.M{"sync_role_ids.0": bson.M{"$exists": true}}
	cur, err := s.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"guild_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var guilds []string
	for cur.Next(ctx) {
		var doc struct {
			GuildID string `bson:"guild_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		guilds = append(guilds, doc.GuildID)
	}
	return guilds, cur.Err()
}

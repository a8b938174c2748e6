// internal/app/store/roster/store.go
package roster

import (
	"context"
	"time"

	"github.com/gavelhq/gavel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages roster entries. Entries are never hard-deleted: removal
// archives the entry, and re-adding an archived entry re-activates it.
type Store struct {
	c *mongo.Collection
}

// New creates a new roster Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roster_entries")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// One entry per (guild, user); also backs IsActiveMember lookups.
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_roster_guild_user").SetUnique(true),
		},
		// Active roster listing in join order.
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "archived", Value: 1}, {Key: "added_at", Value: 1}},
			Options: options.Index().SetName("idx_roster_guild_active"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// AddOrReactivate puts a user on the active roster. It is idempotent:
//   - no entry: inserts a new one (hire date defaults to the add time)
//   - archived entry: clears the archive fields and refreshes addedBy and
//     addedAt, keeping the original hire date
//   - active entry: no-op
//
// Both branches are single conditional updates, so concurrent duplicate
// triggers (e.g. a manual add racing the group-sync reconciler) converge
// on one active entry.
func (s *Store) AddOrReactivate(ctx context.Context, guildID, userID, addedBy, displayName string) error {
	now := time.Now().UTC()

	set := bson.M{
		"archived": false,
		"added_by": addedBy,
		"added_at": now,
	}
	if displayName != "" {
		set["display_name"] = displayName
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"guild_id": guildID, "user_id": userID, "archived": true},
		bson.M{
			"$set":   set,
			"$unset": bson.M{"archived_at": "", "archived_by": ""},
		})
	if err != nil {
		return err
	}
	if res.ModifiedCount > 0 {
		return nil
	}

	insert := bson.M{
		"_id":       primitive.NewObjectID(),
		"guild_id":  guildID,
		"user_id":   userID,
		"added_by":  addedBy,
		"added_at":  now,
		"hire_date": now,
		"archived":  false,
	}
	if displayName != "" {
		insert["display_name"] = displayName
	}
	opts := options.Update().SetUpsert(true)
	_, err = s.c.UpdateOne(ctx,
		bson.M{"guild_id": guildID, "user_id": userID},
		bson.M{"$setOnInsert": insert},
		opts)
	return err
}

// Archive takes a user off the active roster, recording who archived them
// and when. Returns false if the user had no active entry (already
// archived or never added); callers report that as "not on the roster".
func (s *Store) Archive(ctx context.Context, guildID, userID, archivedBy string) (bool, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"guild_id": guildID, "user_id": userID, "archived": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{
			"archived":    true,
			"archived_at": now,
			"archived_by": archivedBy,
		}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ListActive returns the active roster for a guild, oldest additions first.
func (s *Store) ListActive(ctx context.Context, guildID string) ([]models.RosterEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"guild_id": guildID, "archived": bson.M{"$ne": true}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.RosterEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListArchived returns archived entries for a guild, most recently
// archived first.
func (s *Store) ListArchived(ctx context.Context, guildID string) ([]models.RosterEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "archived_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"guild_id": guildID, "archived": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.RosterEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// IsActiveMember reports whether the user has an active roster entry.
func (s *Store) IsActiveMember(ctx context.Context, guildID, userID string) (bool, error) {
	count, err := s.c.CountDocuments(ctx,
		bson.M{"guild_id": guildID, "user_id": userID, "archived": bson.M{"$ne": true}})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Get retrieves one entry (active or archived), or nil if none exists.
func (s *Store) Get(ctx context.Context, guildID, userID string) (*models.RosterEntry, error) {
	var entry models.RosterEntry
	err := s.c.FindOne(ctx, bson.M{"guild_id": guildID, "user_id": userID}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateHireDate sets the hire date on an existing entry (active or
// archived). Returns false if the entry does not exist.
func (s *Store) UpdateHireDate(ctx context.Context, guildID, userID string, hireDate time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"guild_id": guildID, "user_id": userID},
		bson.M{"$set": bson.M{"hire_date": hireDate.UTC()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// UpdateDisplayName sets the display name on an existing entry (active or
// archived). Returns false if the entry does not exist.
func (s *Store) UpdateDisplayName(ctx context.Context, guildID, userID, displayName string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"guild_id": guildID, "user_id": userID},
		bson.M{"$set": bson.M{"display_name": displayName}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

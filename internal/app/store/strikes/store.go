// internal/app/store/strikes/store.go
package strikes

import (
	"context"
	"errors"
	"time"

	"github.com/gavelhq/gavel/internal/app/system/sanitize"
	"github.com/gavelhq/gavel/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrEmptyReason is returned when a strike reason is blank after
// sanitization.
var ErrEmptyReason = errors.New("strike reason must not be empty")

// Store manages disciplinary strikes. Each strike carries a stable unique
// id so individual strikes can be removed later.
type Store struct {
	c *mongo.Collection
}

// New creates a new strikes Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roster_strikes")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "strike_id", Value: 1}},
			Options: options.Index().SetName("idx_strikes_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_strikes_member"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Add issues a strike and returns its id.
func (s *Store) Add(ctx context.Context, guildID, userID, issuedBy, reason string) (string, error) {
	reason = sanitize.Text(reason)
	if reason == "" {
		return "", ErrEmptyReason
	}
	strike := models.Strike{
		StrikeID:  uuid.NewString(),
		GuildID:   guildID,
		UserID:    userID,
		IssuedBy:  issuedBy,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, strike)
	if err != nil {
		return "", err
	}
	return strike.StrikeID, nil
}

// Remove deletes the strike with the given id. Returns false if no such
// strike exists in the guild.
func (s *Store) Remove(ctx context.Context, guildID, strikeID string) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"guild_id": guildID, "strike_id": strikeID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// List returns the member's strikes, newest first.
func (s *Store) List(ctx context.Context, guildID, userID string) ([]models.Strike, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"guild_id": guildID, "user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Strike
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns how many strikes the member currently has.
func (s *Store) Count(ctx context.Context, guildID, userID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"guild_id": guildID, "user_id": userID})
}

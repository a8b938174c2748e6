// internal/app/store/activitylog/store.go
package activitylog

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/gavelhq/gavel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxQueryLimit caps page sizes on filtered activity queries.
const MaxQueryLimit = 200

// Store manages the append-only activity ledger. Events are never updated
// or deduplicated; counts and recency are computed against "now" at query
// time.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity ledger Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_events")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Recency and windowed counts per member.
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "logged_at", Value: -1}},
			Options: options.Index().SetName("idx_activity_member"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Record appends one event, timestamped at call time.
func (s *Store) Record(ctx context.Context, guildID, userID, scopeID, scopeName string) error {
	event := models.ActivityEvent{
		ID:        primitive.NewObjectID(),
		GuildID:   guildID,
		UserID:    userID,
		ScopeID:   scopeID,
		ScopeName: scopeName,
		LoggedAt:  time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Count returns the number of events for the member within the trailing
// windowDays (boundary inclusive).
func (s *Store) Count(ctx context.Context, guildID, userID string, windowDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)
	filter := bson.M{
		"guild_id":  guildID,
		"user_id":   userID,
		"logged_at": bson.M{"$gte": cutoff},
	}
	return s.c.CountDocuments(ctx, filter)
}

// LastActivity returns the most recent event time for the member, or nil
// if they have never had an event recorded.
func (s *Store) LastActivity(ctx context.Context, guildID, userID string) (*time.Time, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "logged_at", Value: -1}}).
		SetProjection(bson.M{"logged_at": 1})

	var doc struct {
		LoggedAt time.Time `bson:"logged_at"`
	}
	err := s.c.FindOne(ctx, bson.M{"guild_id": guildID, "user_id": userID}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.LoggedAt, nil
}

// Recent returns the member's most recent events, newest first.
func (s *Store) Recent(ctx context.Context, guildID, userID string, limit int64) ([]models.ActivityEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "logged_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"guild_id": guildID, "user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.ActivityEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// QueryFilter narrows a paged activity query. Zero-value fields are
// ignored. ScopeName matches as a case-insensitive substring.
type QueryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	ScopeName string
}

// Query returns a filtered page of the member's events, newest first.
// Limit is clamped to MaxQueryLimit.
func (s *Store) Query(ctx context.Context, guildID, userID string, filter QueryFilter, limit, offset int64) ([]models.ActivityEvent, error) {
	if limit <= 0 || limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	if offset < 0 {
		offset = 0
	}

	q := bson.M{"guild_id": guildID, "user_id": userID}
	if filter.StartDate != nil || filter.EndDate != nil {
		window := bson.M{}
		if filter.StartDate != nil {
			window["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			window["$lte"] = *filter.EndDate
		}
		q["logged_at"] = window
	}
	if sub := strings.TrimSpace(filter.ScopeName); sub != "" {
		q["scope_name"] = bson.M{"$regex": primitive.Regex{
			Pattern: regexp.QuoteMeta(sub),
			Options: "i",
		}}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "logged_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.ActivityEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

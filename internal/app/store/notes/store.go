// internal/app/store/notes/store.go
package notes

import (
	"context"
	"errors"
	"time"

	"github.com/gavelhq/gavel/internal/app/system/sanitize"
	"github.com/gavelhq/gavel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultHistoryLimit caps how many notes a profile view shows.
const DefaultHistoryLimit = 10

// ErrEmptyText is returned when a note is blank after sanitization.
var ErrEmptyText = errors.New("note text must not be empty")

// Store manages append-only member notes.
type Store struct {
	c *mongo.Collection
}

// New creates a new notes Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roster_notes")}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_notes_member"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Add appends a note. The text is sanitized to plain text; an empty
// result is rejected before the write.
func (s *Store) Add(ctx context.Context, guildID, userID, authorID, text string) error {
	text = sanitize.Text(text)
	if text == "" {
		return ErrEmptyText
	}
	note := models.Note{
		ID:        primitive.NewObjectID(),
		GuildID:   guildID,
		UserID:    userID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, note)
	return err
}

// ListRecent returns the member's newest notes, capped at limit
// (DefaultHistoryLimit when limit <= 0).
func (s *Store) ListRecent(ctx context.Context, guildID, userID string, limit int64) ([]models.Note, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"guild_id": guildID, "user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Note
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

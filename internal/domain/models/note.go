package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a free-text remark attached to a roster member. Notes are
// append-only; views show the most recent few.
type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GuildID   string             `bson:"guild_id" json:"guildId"`
	UserID    string             `bson:"user_id" json:"userId"`
	AuthorID  string             `bson:"author_id" json:"authorId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

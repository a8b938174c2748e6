package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityEvent is one immutable record of roster-member activity in a
// monitored scope. Events are append-only; recency and counts are always
// computed from the raw log at query time.
type ActivityEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GuildID   string             `bson:"guild_id" json:"guildId"`
	UserID    string             `bson:"user_id" json:"userId"`
	ScopeID   string             `bson:"scope_id" json:"scopeId"`
	ScopeName string             `bson:"scope_name,omitempty" json:"scopeName,omitempty"`
	LoggedAt  time.Time          `bson:"logged_at" json:"loggedAt"`
}

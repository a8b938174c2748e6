package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AutoSyncActor is recorded in AddedBy/ArchivedBy when a roster change was
// made by the group-sync reconciler rather than a person.
const AutoSyncActor = "auto-sync"

// RosterEntry is one tracked member of a guild's roster. There is at most
// one entry per (guild_id, user_id); archived entries are kept for history
// and can be re-activated.
type RosterEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GuildID     string             `bson:"guild_id" json:"guildId"`
	UserID      string             `bson:"user_id" json:"userId"`
	AddedBy     string             `bson:"added_by" json:"addedBy"`
	AddedAt     time.Time          `bson:"added_at" json:"addedAt"`
	DisplayName string             `bson:"display_name,omitempty" json:"displayName,omitempty"`
	HireDate    time.Time          `bson:"hire_date" json:"hireDate"`
	Archived    bool               `bson:"archived" json:"archived"`
	ArchivedAt  *time.Time         `bson:"archived_at,omitempty" json:"archivedAt,omitempty"`
	ArchivedBy  string             `bson:"archived_by,omitempty" json:"archivedBy,omitempty"`
}

package models

import "time"

// Strike is a disciplinary mark against a roster member. The StrikeID is a
// stable opaque id used for removal.
type Strike struct {
	StrikeID  string    `bson:"strike_id" json:"strikeId"`
	GuildID   string    `bson:"guild_id" json:"guildId"`
	UserID    string    `bson:"user_id" json:"userId"`
	IssuedBy  string    `bson:"issued_by" json:"issuedBy"`
	Reason    string    `bson:"reason" json:"reason"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

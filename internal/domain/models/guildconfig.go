package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Scope kinds for monitored scopes. A leaf scope matches only itself; a
// group scope also matches any scope whose parent it is.
const (
	ScopeKindLeaf  = "channel"
	ScopeKindGroup = "category"
)

// DefaultInactivityDays is the flagging threshold used when a guild has
// not configured one.
const DefaultInactivityDays = 7

// MonitoredScope is one tracked activity location in a guild. Scopes live
// in their own collection keyed by (guild_id, scope_id).
type MonitoredScope struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GuildID string             `bson:"guild_id" json:"guildId"`
	ScopeID string             `bson:"scope_id" json:"scopeId"`
	Kind    string             `bson:"kind" json:"kind"`
}

// GuildConfig holds per-guild settings. A guild with no stored config gets
// the defaults applied by the config store.
type GuildConfig struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GuildID        string             `bson:"guild_id" json:"guildId"`
	AlertChannelID string             `bson:"alert_channel_id,omitempty" json:"alertChannelId,omitempty"`
	InactivityDays int                `bson:"inactivity_days" json:"inactivityDays"`
	SyncRoleIDs    []string           `bson:"sync_role_ids,omitempty" json:"syncRoleIds,omitempty"`
	DashboardRoles []string           `bson:"dashboard_role_ids,omitempty" json:"dashboardRoleIds,omitempty"`
}

package chat

import (
	"time"
)

// Member is a platform account as seen within a guild.
type Member struct {
	ID       Snowflake `json:"id"`
	Username string    `json:"username"`
	Bot      bool      `json:"bot,omitempty"`
}

type Message struct {
	ID        Snowflake `json:"id"`
	GuildID   Snowflake `json:"guild_id"`
	ChannelID Snowflake `json:"channel_id"`
	Author    Member    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Channel struct {
	ID      Snowflake `json:"id"`
	GuildID Snowflake `json:"guild_id"`
	Name    string    `json:"name"`
}

type Role struct {
	ID      Snowflake `json:"id"`
	GuildID Snowflake `json:"guild_id"`
	Name    string    `json:"name"`
}

// BanRecord describes a ban as reported by the platform. The acting moderator
// is not included; it has to be recovered from the platform audit log.
type BanRecord struct {
	GuildID Snowflake `json:"guild_id"`
	User    Member    `json:"user"`
	Reason  string    `json:"reason,omitempty"`
}

// AuditAction enumerates the platform audit log action types this system
// queries for. Values are fixed by the platform wire protocol.
type AuditAction int

const (
	AuditChannelCreate AuditAction = 10
	AuditRoleCreate    AuditAction = 30
	AuditMemberBan     AuditAction = 22
)

func (a AuditAction) String() string {
	switch a {
	case AuditChannelCreate:
		return "channel_create"
	case AuditRoleCreate:
		return "role_create"
	case AuditMemberBan:
		return "member_ban"
	}
	return "unknown"
}

// AuditLogEntry is one record from the platform's own administrative audit
// log (distinct from the audit channel this system posts to).
type AuditLogEntry struct {
	ID       Snowflake   `json:"id"`
	Action   AuditAction `json:"action_type"`
	ActorID  Snowflake   `json:"user_id"`
	TargetID Snowflake   `json:"target_id"`
}

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/wardenbot/warden/chat"
)

// AuditEntry is one enforcement record destined for this system's audit
// channel (distinct from the platform's own audit log).
type AuditEntry struct {
	Time   time.Time
	Kind   VerdictKind
	Actor  MemberMeta
	Reason string
	// Detail carries context like a clipped copy of the offending message
	// body or the name of the reverted object.
	Detail string
}

func (e AuditEntry) String() string {
	out := fmt.Sprintf("[%s] %s by %s: %s", e.Time.UTC().Format(time.RFC3339), e.Kind, e.Actor, e.Reason)
	if e.Detail != "" {
		out += fmt.Sprintf(" (%s)", e.Detail)
	}
	return out
}

// AuditLogger appends enforcement records to the designated audit channel.
// Failures (eg, channel deleted, no permission) are swallowed by
// implementations; audit logging is never fatal to event handling.
type AuditLogger interface {
	LogEnforcement(ctx context.Context, entry AuditEntry) error
}

// ChannelAuditLogger posts entries as plain messages to a guild channel.
type ChannelAuditLogger struct {
	Client    chat.Client
	ChannelID chat.Snowflake
}

func (l *ChannelAuditLogger) LogEnforcement(ctx context.Context, entry AuditEntry) error {
	return l.Client.SendMessage(ctx, l.ChannelID, entry.String())
}

var _ AuditLogger = (*ChannelAuditLogger)(nil)

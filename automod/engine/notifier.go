package engine

import (
	"context"
	"fmt"

	"github.com/wardenbot/warden/chat"
)

// Notifier sends an advisory message directly to a principal. Delivery is
// best-effort: callers log failures to the console and move on, they never
// surface them to the audit channel or abort enforcement.
type Notifier interface {
	SendWarning(ctx context.Context, userID chat.Snowflake, reason string) error
}

// DirectMessageNotifier warns principals over platform DMs.
type DirectMessageNotifier struct {
	Client chat.Client
}

func (n *DirectMessageNotifier) SendWarning(ctx context.Context, userID chat.Snowflake, reason string) error {
	return n.Client.SendDirectMessage(ctx, userID, fmt.Sprintf("Your message was moderated: %s", reason))
}

var _ Notifier = (*DirectMessageNotifier)(nil)

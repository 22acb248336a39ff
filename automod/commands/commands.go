// Privileged administrative commands for managing the allow-list at runtime.
//
// Commands are plain chat messages with a "!" prefix; everything else passes
// through untouched. Both operations are restricted to the configured owner.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wardenbot/warden/automod/setstore"
	"github.com/wardenbot/warden/chat"
)

const Prefix = "!"

// Handler parses and executes administrative commands. Every message the
// dispatcher receives gets forwarded here after policy evaluation, regardless
// of verdict.
type Handler struct {
	Logger *slog.Logger
	Client chat.Client
	Sets   setstore.SetStore
	// The distinguished owner principal. Only the owner may mutate the
	// allow-list.
	Owner chat.Snowflake
	// Where allow-list changes get recorded.
	AuditChannelID chat.Snowflake
}

// HandleMessage parses a message as a command invocation, if it is one.
// Unknown commands are silently ignored; "not owner" and "missing arguments"
// are answered in-channel and are not errors. Anything else (eg, a failing
// store mutation) is posted to the audit channel with the command name and
// returned to the caller; the failure is fatal to this invocation only.
func (h *Handler) HandleMessage(ctx context.Context, msg *chat.Message) error {
	if !strings.HasPrefix(msg.Content, Prefix) {
		return nil
	}
	fields := strings.Fields(msg.Content)
	cmd := strings.TrimPrefix(fields[0], Prefix)

	switch cmd {
	case "whitelist", "unwhitelist":
	default:
		return nil
	}

	if msg.Author.ID != h.Owner {
		h.reply(ctx, msg, "owner only")
		return nil
	}
	if len(fields) < 2 {
		h.reply(ctx, msg, "missing arguments")
		return nil
	}
	target, err := ParseMention(fields[1])
	if err != nil {
		h.reply(ctx, msg, "missing arguments")
		return nil
	}

	if err := h.run(ctx, cmd, target); err != nil {
		h.auditLog(ctx, fmt.Sprintf("command %s failed: %v", cmd, err))
		return fmt.Errorf("command %s: %w", cmd, err)
	}

	h.reply(ctx, msg, fmt.Sprintf("%sed <@%s>", cmd, target))
	h.auditLog(ctx, fmt.Sprintf("%s: <@%s> by owner <@%s>", cmd, target, msg.Author.ID))
	h.Logger.Info("allowlist updated", "command", cmd, "target", target, "caller", msg.Author.ID)
	return nil
}

func (h *Handler) run(ctx context.Context, cmd string, target chat.Snowflake) error {
	switch cmd {
	case "whitelist":
		return h.Sets.AddToSet(ctx, setstore.AllowListSetName, target.String())
	case "unwhitelist":
		// removing a never-added principal is not an error
		return h.Sets.RemoveFromSet(ctx, setstore.AllowListSetName, target.String())
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

// reply answers in the invoking channel; delivery failure stays on the console.
func (h *Handler) reply(ctx context.Context, msg *chat.Message, text string) {
	if err := h.Client.SendMessage(ctx, msg.ChannelID, text); err != nil {
		h.Logger.Info("command reply not delivered", "err", err)
	}
}

// auditLog appends a line to the audit channel; failures are never fatal.
func (h *Handler) auditLog(ctx context.Context, text string) {
	line := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), text)
	if err := h.Client.SendMessage(ctx, h.AuditChannelID, line); err != nil {
		h.Logger.Debug("audit log append skipped", "err", err)
	}
}

// ParseMention extracts a principal identifier from a "<@123>" or "<@!123>"
// mention token, or a bare numeric identifier.
func ParseMention(tok string) (chat.Snowflake, error) {
	raw := strings.TrimSuffix(strings.TrimPrefix(tok, "<@"), ">")
	raw = strings.TrimPrefix(raw, "!")
	return chat.ParseSnowflake(raw)
}

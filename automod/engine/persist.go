package engine

import (
	"context"
	"time"

	"github.com/wardenbot/warden/automod/helpers"
)

// How much of an offending message body gets copied into the audit entry.
const auditDetailClip = 100

// applyMessageEffects executes the queued verdicts for a message event,
// strictly in enqueue order: delete, then timeout (if any), then DM warning,
// then audit entry, all for one verdict before the next verdict starts.
// Individual action failures are logged and skipped; they never abort the
// rest of the verdict or the event.
func (eng *Engine) applyMessageEffects(c *MessageContext) {
	ctx := c.Ctx
	msg := &c.Message
	for _, v := range c.effects.Verdicts {
		verdictCount.WithLabelValues(string(v.Kind)).Inc()
		switch v.Kind {
		case VerdictDeleteAndWarn, VerdictTimeoutAndWarn:
			if err := eng.Client.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
				actionFailureCount.WithLabelValues("delete-message").Inc()
				c.Logger.Warn("failed to delete message", "err", err)
			}
			if v.Kind == VerdictTimeoutAndWarn {
				if err := eng.Client.TimeoutMember(ctx, msg.GuildID, c.Actor.ID, v.Timeout, v.Reason); err != nil {
					actionFailureCount.WithLabelValues("timeout-member").Inc()
					c.Logger.Warn("failed to timeout member", "err", err)
				}
			}
			eng.warnActor(c, v.Reason)
			eng.logEnforcement(ctx, AuditEntry{
				Time:   time.Now(),
				Kind:   v.Kind,
				Actor:  c.Actor,
				Reason: v.Reason,
				Detail: helpers.TruncateText(msg.Content, auditDetailClip),
			})
		default:
			c.Logger.Error("unexpected verdict kind for message event", "kind", v.Kind)
			continue
		}
		eng.recordViolation(ctx, &c.ActorContext)
	}
	eng.sendNotifications(&c.ActorContext)
}

// applyStructuralEffects executes revert-and-ban verdicts: revert the
// structural change (nothing to revert for a ban event), ban the actor, log.
// No DM is sent to the banned actor in this path.
func (eng *Engine) applyStructuralEffects(c *ActionContext) {
	ctx := c.Ctx
	for _, v := range c.effects.Verdicts {
		verdictCount.WithLabelValues(string(v.Kind)).Inc()
		if v.Kind != VerdictRevertAndBan {
			c.Logger.Error("unexpected verdict kind for structural event", "kind", v.Kind)
			continue
		}
		var detail string
		switch {
		case c.Channel != nil:
			detail = "channel " + c.Channel.Name
			if err := eng.Client.DeleteChannel(ctx, c.Channel.ID); err != nil {
				actionFailureCount.WithLabelValues("delete-channel").Inc()
				c.Logger.Warn("failed to delete channel", "err", err)
			}
		case c.Role != nil:
			detail = "role " + c.Role.Name
			if err := eng.Client.DeleteRole(ctx, c.GuildID, c.Role.ID); err != nil {
				actionFailureCount.WithLabelValues("delete-role").Inc()
				c.Logger.Warn("failed to delete role", "err", err)
			}
		case c.Ban != nil:
			// NOTE: the original unauthorized ban is not reversed here; only
			// the unauthorized actor gets banned. Known policy gap, kept
			// as observed behavior.
			detail = "banned user " + c.Ban.User.ID.String()
		}
		if err := eng.Client.BanMember(ctx, c.GuildID, c.Actor.ID, v.Reason); err != nil {
			actionFailureCount.WithLabelValues("ban-member").Inc()
			c.Logger.Warn("failed to ban actor", "err", err)
		}
		eng.logEnforcement(ctx, AuditEntry{
			Time:   time.Now(),
			Kind:   v.Kind,
			Actor:  c.Actor,
			Reason: v.Reason,
			Detail: detail,
		})
		eng.recordViolation(ctx, &c.ActorContext)
	}
	eng.sendNotifications(&c.ActorContext)
}

// warnActor DMs the acting principal. Delivery failures stay on the console
// and never reach the audit channel.
func (eng *Engine) warnActor(c *MessageContext, reason string) {
	if eng.Notifier == nil {
		return
	}
	if err := eng.Notifier.SendWarning(c.Ctx, c.Actor.ID, reason); err != nil {
		c.Logger.Info("warning DM not delivered", "err", err)
	}
}

func (eng *Engine) logEnforcement(ctx context.Context, entry AuditEntry) {
	if eng.AuditLog == nil {
		return
	}
	if err := eng.AuditLog.LogEnforcement(ctx, entry); err != nil {
		// audit channel missing or unwritable is never fatal
		eng.Logger.Debug("audit log append skipped", "err", err)
	}
}

// recordViolation tallies one applied verdict against the acting principal.
// No policy consults these counts; they exist for operators.
func (eng *Engine) recordViolation(ctx context.Context, c *ActorContext) {
	if err := eng.Counters.Increment(ctx, "violations", c.Actor.ID.String()); err != nil {
		eng.Logger.Warn("failed to increment violation counter", "err", err)
	}
}

func (eng *Engine) sendNotifications(c *ActorContext) {
	if len(c.effects.Verdicts) == 0 {
		return
	}
	for _, srv := range helpers.DedupeStrings(c.effects.NotifyServices) {
		if srv != "slack" || eng.SlackWebhookURL == "" {
			continue
		}
		msg := slackBody("Warden enforcement\n", c.Actor, c.effects.Verdicts)
		if err := eng.SendSlackMsg(c.Ctx, msg); err != nil {
			eng.Logger.Error("sending slack webhook", "err", err)
		}
	}
}

func (eng *Engine) persistCounters(ctx context.Context, eff *Effects) error {
	for _, ref := range eff.CounterIncrements {
		if ref.Period != nil {
			if err := eng.Counters.IncrementPeriod(ctx, ref.Name, ref.Val, *ref.Period); err != nil {
				return err
			}
		} else {
			if err := eng.Counters.Increment(ctx, ref.Name, ref.Val); err != nil {
				return err
			}
		}
	}
	for _, ref := range eff.CounterDistinctIncrements {
		if err := eng.Counters.IncrementDistinct(ctx, ref.Name, ref.Bucket, ref.Val); err != nil {
			return err
		}
	}
	return nil
}

func (eng *Engine) canonicalLogLine(c *BaseContext, eventType string) {
	c.Logger.Info("event processed",
		"type", eventType,
		"verdicts", len(c.effects.Verdicts),
		"counterIncrements", len(c.effects.CounterIncrements),
	)
}

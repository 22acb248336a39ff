package engine

import (
	"context"
	"log/slog"

	"github.com/wardenbot/warden/automod/cachestore"
	"github.com/wardenbot/warden/automod/countstore"
	"github.com/wardenbot/warden/automod/setstore"
	"github.com/wardenbot/warden/chat"
)

// runtime for executing rules, managing state, and carrying out moderation actions.
//
// TODO: careful when initializing: several fields should not be null or zero, even though they are pointer type.
type Engine struct {
	Logger   *slog.Logger
	Client   chat.Client
	Rules    RuleSet
	Counters countstore.CountStore
	Sets     setstore.SetStore
	Cache    cachestore.CacheStore
	// Sends advisory DMs to moderated principals (optional)
	Notifier Notifier
	// Appends enforcement records to the audit channel (optional)
	AuditLog AuditLogger
	// The bot's own account; its messages are never evaluated
	SelfID          chat.Snowflake
	SlackWebhookURL string
}

// ProcessMessage evaluates one created message against the message policies
// and carries out any resulting enforcement. The author is the acting
// principal and is attached to the event itself, so no actor resolution
// happens here.
func (eng *Engine) ProcessMessage(ctx context.Context, msg *chat.Message) error {
	// similar to an HTTP server, we want to recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("message event execution exception", "err", r, "author", msg.Author.ID, "message", msg.ID)
		}
	}()
	eventProcessCount.WithLabelValues("message").Inc()

	if msg.Author.ID == eng.SelfID {
		return nil
	}

	actor := MemberMeta{
		ID:       msg.Author.ID,
		Username: msg.Author.Username,
		Bot:      msg.Author.Bot,
	}
	c := NewMessageContext(ctx, eng, actor, *msg)
	eng.Logger.Debug("processing message", "author", actor.ID, "channel", msg.ChannelID)
	if err := eng.Rules.CallMessageRules(&c); err != nil {
		eventErrorCount.WithLabelValues("message").Inc()
		return err
	}
	if c.Err != nil {
		// a failed state read (eg, allow-list lookup) must never escalate
		// to enforcement
		eventErrorCount.WithLabelValues("message").Inc()
		return c.Err
	}
	eng.canonicalLogLine(&c.BaseContext, "message")
	eng.applyMessageEffects(&c)
	return eng.persistCounters(ctx, c.effects)
}

func (eng *Engine) ProcessChannelCreate(ctx context.Context, ch *chat.Channel) error {
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("channel event execution exception", "err", r, "channel", ch.ID)
		}
	}()
	eventProcessCount.WithLabelValues("channel").Inc()

	actorID, ok := eng.resolveActor(ctx, ch.GuildID, chat.AuditChannelCreate)
	if !ok {
		eventActorUnresolvedCount.WithLabelValues("channel").Inc()
		return nil
	}
	c := NewActionContext(ctx, eng, eng.GetMemberMeta(ctx, ch.GuildID, actorID), ActionChannelCreate, ch.GuildID)
	c.Channel = ch
	return eng.runStructural(&c)
}

func (eng *Engine) ProcessRoleCreate(ctx context.Context, role *chat.Role) error {
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("role event execution exception", "err", r, "role", role.ID)
		}
	}()
	eventProcessCount.WithLabelValues("role").Inc()

	actorID, ok := eng.resolveActor(ctx, role.GuildID, chat.AuditRoleCreate)
	if !ok {
		eventActorUnresolvedCount.WithLabelValues("role").Inc()
		return nil
	}
	c := NewActionContext(ctx, eng, eng.GetMemberMeta(ctx, role.GuildID, actorID), ActionRoleCreate, role.GuildID)
	c.Role = role
	return eng.runStructural(&c)
}

func (eng *Engine) ProcessBan(ctx context.Context, ban *chat.BanRecord) error {
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("ban event execution exception", "err", r, "target", ban.User.ID)
		}
	}()
	eventProcessCount.WithLabelValues("ban").Inc()

	actorID, ok := eng.resolveActor(ctx, ban.GuildID, chat.AuditMemberBan)
	if !ok {
		eventActorUnresolvedCount.WithLabelValues("ban").Inc()
		return nil
	}
	c := NewActionContext(ctx, eng, eng.GetMemberMeta(ctx, ban.GuildID, actorID), ActionMemberBan, ban.GuildID)
	c.Ban = ban
	return eng.runStructural(&c)
}

func (eng *Engine) runStructural(c *ActionContext) error {
	if err := eng.Rules.CallStructuralRules(c); err != nil {
		eventErrorCount.WithLabelValues(string(c.Action)).Inc()
		return err
	}
	if c.Err != nil {
		eventErrorCount.WithLabelValues(string(c.Action)).Inc()
		return c.Err
	}
	eng.canonicalLogLine(&c.BaseContext, string(c.Action))
	eng.applyStructuralEffects(c)
	return eng.persistCounters(c.Ctx, c.effects)
}

// resolveActor recovers "who did this" for structural events, which carry no
// actor themselves, by querying the most recent matching platform audit log
// entry. The query races the triggering action; an empty result (or a failed
// query) means no actor resolved and the event is silently dropped.
func (eng *Engine) resolveActor(ctx context.Context, guildID chat.Snowflake, action chat.AuditAction) (chat.Snowflake, bool) {
	if eng.Client == nil {
		return 0, false
	}
	entries, err := eng.Client.AuditLog(ctx, guildID, action, 1)
	if err != nil {
		eng.Logger.Warn("audit log query failed", "guild", guildID, "action", action.String(), "err", err)
		return 0, false
	}
	if len(entries) == 0 {
		eng.Logger.Debug("no audit log entry for action, ignoring event", "guild", guildID, "action", action.String())
		return 0, false
	}
	return entries[0].ActorID, true
}

// checks if `val` is an element of set `name`
func (eng *Engine) InSet(name, val string) (bool, error) {
	return eng.Sets.InSet(context.TODO(), name, val)
}

func (eng *Engine) GetCount(name, val, period string) (int, error) {
	return eng.Counters.GetCount(context.TODO(), name, val, period)
}

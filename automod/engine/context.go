package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/wardenbot/warden/automod/setstore"
	"github.com/wardenbot/warden/chat"
)

// The primary interface exposed to rules. All other contexts derive from this
// "base" struct.
type BaseContext struct {
	// Actual golang "context.Context", if needed for timeouts etc
	Ctx context.Context
	// Any errors encountered while processing methods on this struct (or
	// sub-types) get rolled up in this nullable field
	Err error
	// slog logger handle, with event-specific structured fields pre-populated
	Logger *slog.Logger

	engine  *Engine
	effects *Effects
}

// Both a useful context on its own, and extended by the event context types.
type ActorContext struct {
	BaseContext

	Actor MemberMeta
}

// Represents a single created message being evaluated.
type MessageContext struct {
	ActorContext

	Message chat.Message
}

// StructuralAction tags which kind of guild-level change an ActionContext
// describes.
type StructuralAction string

const (
	ActionChannelCreate StructuralAction = "channel creation"
	ActionRoleCreate    StructuralAction = "role creation"
	ActionMemberBan     StructuralAction = "ban"
)

// Represents a structural change to the guild (channel/role creation, a ban)
// with the acting principal already resolved from the platform audit log.
// Exactly one of Channel/Role/Ban is set, matching Action.
type ActionContext struct {
	ActorContext

	Action  StructuralAction
	GuildID chat.Snowflake
	Channel *chat.Channel
	Role    *chat.Role
	Ban     *chat.BanRecord
}

// request external state via engine (indirect) ======

func (c *BaseContext) GetCount(name, val, period string) int {
	out, err := c.engine.Counters.GetCount(c.Ctx, name, val, period)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return 0
	}
	return out
}

func (c *BaseContext) GetCountDistinct(name, bucket, period string) int {
	out, err := c.engine.Counters.GetCountDistinct(c.Ctx, name, bucket, period)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return 0
	}
	return out
}

func (c *BaseContext) InSet(name, val string) bool {
	out, err := c.engine.Sets.InSet(c.Ctx, name, val)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return false
	}
	return out
}

// ActorAllowListed checks the acting principal against the allow-list as it
// stands right now; membership can change between events.
func (c *ActorContext) ActorAllowListed() bool {
	return c.InSet(setstore.AllowListSetName, c.Actor.ID.String())
}

// update effects (indirect) ======

func (c *BaseContext) Increment(name, val string) {
	c.effects.Increment(name, val)
}

func (c *BaseContext) IncrementPeriod(name, val string, period string) {
	c.effects.IncrementPeriod(name, val, period)
}

func (c *BaseContext) IncrementDistinct(name, bucket, val string) {
	c.effects.IncrementDistinct(name, bucket, val)
}

func (c *BaseContext) Notify(srv string) {
	c.effects.Notify(srv)
}

func (c *MessageContext) DeleteAndWarn(reason string) {
	c.effects.DeleteAndWarn(reason)
}

func (c *MessageContext) TimeoutAndWarn(reason string, d time.Duration) {
	c.effects.TimeoutAndWarn(reason, d)
}

func (c *ActionContext) RevertAndBan(reason string) {
	c.effects.RevertAndBan(reason)
}

// constructors ======

func NewActorContext(ctx context.Context, eng *Engine, actor MemberMeta) ActorContext {
	return ActorContext{
		BaseContext: BaseContext{
			Ctx:     ctx,
			Err:     nil,
			Logger:  eng.Logger.With("actor", actor.ID),
			engine:  eng,
			effects: &Effects{},
		},
		Actor: actor,
	}
}

func NewMessageContext(ctx context.Context, eng *Engine, actor MemberMeta, msg chat.Message) MessageContext {
	ac := NewActorContext(ctx, eng, actor)
	ac.BaseContext.Logger = ac.BaseContext.Logger.With("channel", msg.ChannelID, "message", msg.ID)
	return MessageContext{
		ActorContext: ac,
		Message:      msg,
	}
}

func NewActionContext(ctx context.Context, eng *Engine, actor MemberMeta, action StructuralAction, guildID chat.Snowflake) ActionContext {
	ac := NewActorContext(ctx, eng, actor)
	ac.BaseContext.Logger = ac.BaseContext.Logger.With("action", string(action), "guild", guildID)
	return ActionContext{
		ActorContext: ac,
		Action:       action,
		GuildID:      guildID,
	}
}

package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/wardenbot/warden/automod/cachestore"
	"github.com/wardenbot/warden/automod/countstore"
	"github.com/wardenbot/warden/automod/helpers"
	"github.com/wardenbot/warden/automod/setstore"
	"github.com/wardenbot/warden/chat"
)

// Principal identifiers used across test fixtures.
const (
	FixtureOwnerID chat.Snowflake = 800
	FixtureSelfID  chat.Snowflake = 1
	FixtureGuildID chat.Snowflake = 10
)

var _ MessageRuleFunc = simpleLinkRule

func simpleLinkRule(c *MessageContext) error {
	if helpers.ContainsURL(c.Message.Content) && !c.ActorAllowListed() {
		c.DeleteAndWarn("links not allowed")
	}
	return nil
}

var _ StructuralRuleFunc = simpleStructuralRule

func simpleStructuralRule(c *ActionContext) error {
	if !c.ActorAllowListed() {
		c.RevertAndBan("unauthorized " + string(c.Action))
	}
	return nil
}

// EngineTestFixture returns an engine wired to in-memory stores and a
// chat.MockClient, with the fixture owner seeded on the allow-list.
// Intentionally exported, for use in other packages' tests.
func EngineTestFixture() Engine {
	ctx := context.Background()
	mc := chat.NewMockClient()
	sets := setstore.NewMemSetStore()
	_ = sets.AddToSet(ctx, setstore.AllowListSetName, FixtureOwnerID.String())
	eng := Engine{
		Logger: slog.Default(),
		Client: mc,
		Rules: RuleSet{
			MessageRules: []MessageRuleFunc{simpleLinkRule},
			ChannelRules: []StructuralRuleFunc{simpleStructuralRule},
			RoleRules:    []StructuralRuleFunc{simpleStructuralRule},
			BanRules:     []StructuralRuleFunc{simpleStructuralRule},
		},
		Counters: countstore.NewMemCountStore(),
		Sets:     sets,
		Cache:    cachestore.NewMemCacheStore(10, time.Hour),
		Notifier: &DirectMessageNotifier{Client: mc},
		AuditLog: &ChannelAuditLogger{Client: mc, ChannelID: 999},
		SelfID:   FixtureSelfID,
	}
	return eng
}

// Helper to access the private effects field from a context. Intended for use
// in test code, *not* from rules.
func ExtractEffects(c *BaseContext) *Effects {
	return c.effects
}

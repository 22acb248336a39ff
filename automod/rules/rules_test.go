package rules

import (
	"context"
	"testing"

	"github.com/wardenbot/warden/automod/engine"
	"github.com/wardenbot/warden/chat"

	"github.com/stretchr/testify/assert"
)

func fixtureEngine() engine.Engine {
	eng := engine.EngineTestFixture()
	eng.Rules = DefaultRules()
	return eng
}

func fixtureMessage(author chat.Snowflake, content string) chat.Message {
	return chat.Message{
		ID:        500,
		GuildID:   engine.FixtureGuildID,
		ChannelID: 20,
		Author:    chat.Member{ID: author, Username: "somebody"},
		Content:   content,
	}
}

func TestLinkMessageRule(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := fixtureEngine()
	mc := eng.Client.(*chat.MockClient)

	fixtures := []struct {
		content string
		fires   bool
	}{
		{"plain message", false},
		{"go to http://example.com now", true},
		{"go to https://example.com now", true},
		{"check this out www.example.com", true},
		{"WWW.SHOUTING.EXAMPLE", true},
	}
	for _, fix := range fixtures {
		msg := fixtureMessage(123, fix.content)
		assert.NoError(eng.ProcessMessage(ctx, &msg))
		if fix.fires {
			assert.Contains(mc.CallOps(), "DeleteMessage", "content: %s", fix.content)
		} else {
			assert.Empty(mc.Calls(), "content: %s", fix.content)
		}
		mc.Reset()
	}

	// allow-listed author never triggers the link rule
	msg := fixtureMessage(engine.FixtureOwnerID, "http://example.com")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	assert.Empty(mc.Calls())
}

func TestMassMentionMessageRule(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := fixtureEngine()
	mc := eng.Client.(*chat.MockClient)

	msg := fixtureMessage(123, "hey @EVERYONE look")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	assert.Equal([]string{"DeleteMessage", "TimeoutMember", "SendDirectMessage", "SendMessage"}, mc.CallOps())

	// fixed 600 second timeout
	var timeoutCall chat.Call
	for _, call := range mc.Calls() {
		if call.Op == "TimeoutMember" {
			timeoutCall = call
		}
	}
	assert.Contains(timeoutCall.Text, "10m0s")
	assert.Contains(timeoutCall.Text, "mass mention violation")

	mc.Reset()
	msg = fixtureMessage(engine.FixtureOwnerID, "hey @everyone")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	assert.Empty(mc.Calls())
}

// A message with both a link and a mass mention triggers both rules; the link
// verdict's actions fully apply before the mention verdict's begin.
func TestBothMessageRulesFire(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := fixtureEngine()
	mc := eng.Client.(*chat.MockClient)

	msg := fixtureMessage(123, "@everyone go to http://example.com")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	assert.Equal([]string{
		// link verdict
		"DeleteMessage", "SendDirectMessage", "SendMessage",
		// mention verdict
		"DeleteMessage", "TimeoutMember", "SendDirectMessage", "SendMessage",
	}, mc.CallOps())
}

func TestUnauthorizedActionRule(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := fixtureEngine()
	mc := eng.Client.(*chat.MockClient)

	mc.Audit[chat.AuditRoleCreate] = []chat.AuditLogEntry{
		{ID: 1, Action: chat.AuditRoleCreate, ActorID: 123, TargetID: 66},
	}
	role := chat.Role{ID: 66, GuildID: engine.FixtureGuildID, Name: "rogue-role"}
	assert.NoError(eng.ProcessRoleCreate(ctx, &role))
	assert.Equal([]string{"DeleteRole", "BanMember", "SendMessage"}, mc.CallOps())
	assert.Contains(mc.Calls()[1].Text, "unauthorized role creation")
}

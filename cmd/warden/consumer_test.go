package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/wardenbot/warden/automod/commands"
	"github.com/wardenbot/warden/automod/engine"
	"github.com/wardenbot/warden/automod/setstore"
	"github.com/wardenbot/warden/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureServer() (*Server, *chat.MockClient, setstore.SetStore) {
	eng := engine.EngineTestFixture()
	mc := eng.Client.(*chat.MockClient)
	h := &commands.Handler{
		Logger:         slog.Default(),
		Client:         mc,
		Sets:           eng.Sets,
		Owner:          engine.FixtureOwnerID,
		AuditChannelID: 999,
	}
	s := &Server{
		logger:   slog.Default(),
		engine:   &eng,
		commands: h,
	}
	return s, mc, eng.Sets
}

// Messages authored by the bot's own account reach neither policy evaluation
// nor command parsing.
func TestConsumerIgnoresOwnMessages(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s, mc, sets := fixtureServer()
	cb := s.eventCallbacks()

	msg := chat.Message{
		ID:        500,
		GuildID:   engine.FixtureGuildID,
		ChannelID: 20,
		Author:    chat.Member{ID: engine.FixtureSelfID, Bot: true},
		Content:   "!whitelist <@123> http://example.com",
	}
	require.NoError(t, cb.MessageCreate(ctx, &msg))
	assert.Empty(mc.Calls())
	ok, err := sets.InSet(ctx, setstore.AllowListSetName, "123")
	assert.NoError(err)
	assert.False(ok)
}

// Ordinary messages get policy evaluation and then command parsing.
func TestConsumerForwardsCommands(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s, mc, sets := fixtureServer()
	cb := s.eventCallbacks()

	msg := chat.Message{
		ID:        501,
		GuildID:   engine.FixtureGuildID,
		ChannelID: 20,
		Author:    chat.Member{ID: engine.FixtureOwnerID},
		Content:   "!whitelist <@123>",
	}
	require.NoError(t, cb.MessageCreate(ctx, &msg))

	ok, err := sets.InSet(ctx, setstore.AllowListSetName, "123")
	assert.NoError(err)
	assert.True(ok)
	// ack in the invoking channel, then the audit entry
	assert.Equal([]string{"SendMessage", "SendMessage"}, mc.CallOps())
}

package commands

import (
	"context"
	"log/slog"
	"testing"

	"github.com/wardenbot/warden/automod/setstore"
	"github.com/wardenbot/warden/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID chat.Snowflake = 800
	auditID chat.Snowflake = 999
)

func fixtureHandler() (*Handler, *chat.MockClient, *setstore.MemSetStore) {
	mc := chat.NewMockClient()
	sets := setstore.NewMemSetStore()
	h := &Handler{
		Logger:         slog.Default(),
		Client:         mc,
		Sets:           sets,
		Owner:          ownerID,
		AuditChannelID: auditID,
	}
	return h, mc, sets
}

func command(author chat.Snowflake, content string) chat.Message {
	return chat.Message{
		ID:        600,
		ChannelID: 30,
		Author:    chat.Member{ID: author},
		Content:   content,
	}
}

func TestWhitelistCommand(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	h, mc, sets := fixtureHandler()

	msg := command(ownerID, "!whitelist <@123>")
	require.NoError(h.HandleMessage(ctx, &msg))

	ok, err := sets.InSet(ctx, setstore.AllowListSetName, "123")
	assert.NoError(err)
	assert.True(ok)

	// acknowledgment in the invoking channel, then an audit entry naming
	// owner and target
	calls := mc.Calls()
	require.Len(calls, 2)
	assert.Equal(chat.Snowflake(30), calls[0].Target)
	assert.Contains(calls[0].Text, "whitelisted")
	assert.Equal(auditID, calls[1].Target)
	assert.Contains(calls[1].Text, "<@123>")
	assert.Contains(calls[1].Text, "<@800>")
}

func TestUnwhitelistCommand(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	h, _, sets := fixtureHandler()

	_ = sets.AddToSet(ctx, setstore.AllowListSetName, "123")
	msg := command(ownerID, "!unwhitelist 123")
	assert.NoError(h.HandleMessage(ctx, &msg))

	ok, _ := sets.InSet(ctx, setstore.AllowListSetName, "123")
	assert.False(ok)

	// idempotent: removing again is fine
	assert.NoError(h.HandleMessage(ctx, &msg))
}

func TestNotOwner(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	h, mc, sets := fixtureHandler()

	msg := command(123, "!whitelist <@456>")
	require.NoError(h.HandleMessage(ctx, &msg))

	ok, _ := sets.InSet(ctx, setstore.AllowListSetName, "456")
	assert.False(ok)

	// "owner only" reply, and no audit entry
	calls := mc.Calls()
	require.Len(calls, 1)
	assert.Equal(chat.Snowflake(30), calls[0].Target)
	assert.Equal("owner only", calls[0].Text)
}

func TestMissingArguments(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	h, mc, _ := fixtureHandler()

	for _, content := range []string{"!whitelist", "!whitelist not-a-mention"} {
		msg := command(ownerID, content)
		require.NoError(h.HandleMessage(ctx, &msg))
		calls := mc.Calls()
		require.Len(calls, 1, "content: %s", content)
		assert.Equal("missing arguments", calls[0].Text)
		mc.Reset()
	}
}

func TestUnknownCommandIgnored(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	h, mc, _ := fixtureHandler()

	for _, content := range []string{"!frobnicate", "plain message", "!"} {
		msg := command(ownerID, content)
		assert.NoError(h.HandleMessage(ctx, &msg))
	}
	assert.Empty(mc.Calls())
}

func TestParseMention(t *testing.T) {
	assert := assert.New(t)

	for _, tok := range []string{"<@123>", "<@!123>", "123"} {
		id, err := ParseMention(tok)
		assert.NoError(err)
		assert.Equal(chat.Snowflake(123), id)
	}
	_, err := ParseMention("@nobody")
	assert.Error(err)
}

package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/wardenbot/warden/automod/setstore"
	"github.com/wardenbot/warden/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSetStore struct{}

var _ setstore.SetStore = (*failingSetStore)(nil)

func (s *failingSetStore) InSet(ctx context.Context, name, val string) (bool, error) {
	return false, fmt.Errorf("set store unavailable")
}

func (s *failingSetStore) AddToSet(ctx context.Context, name, val string) error {
	return fmt.Errorf("set store unavailable")
}

func (s *failingSetStore) RemoveFromSet(ctx context.Context, name, val string) error {
	return fmt.Errorf("set store unavailable")
}

func testMessage(author chat.Snowflake, content string) chat.Message {
	return chat.Message{
		ID:        500,
		GuildID:   FixtureGuildID,
		ChannelID: 20,
		Author:    chat.Member{ID: author, Username: "somebody"},
		Content:   content,
		Timestamp: time.Now(),
	}
}

func TestEngineMessageBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	mc := eng.Client.(*chat.MockClient)

	// clean message: no actions
	msg := testMessage(123, "some message blah")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	assert.Empty(mc.Calls())

	// link from a non-allow-listed author: delete, DM, audit entry, in order
	msg = testMessage(123, "check this out www.example.com")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	ops := mc.CallOps()
	assert.Equal([]string{"DeleteMessage", "SendDirectMessage", "SendMessage"}, ops)

	// the delete targets the message, in its channel
	del := mc.Calls()[0]
	assert.Equal(chat.Snowflake(20), del.Channel)
	assert.Equal(chat.Snowflake(500), del.Target)

	// audit entry clips the body and names the author
	last := mc.Calls()[len(mc.Calls())-1]
	assert.Equal(chat.Snowflake(999), last.Target)
	assert.Contains(last.Text, "links not allowed")
	assert.Contains(last.Text, "www.example.com")
}

func TestEngineMessageAllowListed(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	mc := eng.Client.(*chat.MockClient)

	msg := testMessage(FixtureOwnerID, "check this out www.example.com")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	assert.Empty(mc.Calls())
}

func TestEngineIgnoresSelf(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	mc := eng.Client.(*chat.MockClient)

	msg := testMessage(FixtureSelfID, "deleted message from http://example.com")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	assert.Empty(mc.Calls())
}

func TestEngineViolationCounter(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()

	msg := testMessage(123, "http://example.com")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	assert.NoError(eng.ProcessMessage(ctx, &msg))

	c, err := eng.GetCount("violations", "123", "total")
	assert.NoError(err)
	assert.Equal(2, c)
}

func TestEngineActionFailuresIsolated(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	mc := eng.Client.(*chat.MockClient)
	mc.Fail["DeleteMessage"] = true
	mc.Fail["SendDirectMessage"] = true

	// both primitives fail, but the audit entry still lands and processing
	// returns no error
	msg := testMessage(123, "http://example.com")
	assert.NoError(eng.ProcessMessage(ctx, &msg))
	assert.Equal([]string{"DeleteMessage", "SendDirectMessage", "SendMessage"}, mc.CallOps())
}

// A failed allow-list read is an event-processing error, never grounds for
// enforcement: the principal might be allow-listed.
func TestEngineSetStoreFailure(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Sets = &failingSetStore{}
	mc := eng.Client.(*chat.MockClient)

	msg := testMessage(FixtureOwnerID, "check this out http://example.com")
	assert.Error(eng.ProcessMessage(ctx, &msg))
	assert.Empty(mc.Calls())

	// structural events abort the same way
	mc.Audit[chat.AuditChannelCreate] = []chat.AuditLogEntry{
		{ID: 1, Action: chat.AuditChannelCreate, ActorID: FixtureOwnerID, TargetID: 55},
	}
	ch := chat.Channel{ID: 55, GuildID: FixtureGuildID, Name: "new-channel"}
	assert.Error(eng.ProcessChannelCreate(ctx, &ch))
	assert.Empty(mc.Calls())
}

func TestEngineStructuralEvents(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	mc := eng.Client.(*chat.MockClient)
	mc.Audit[chat.AuditChannelCreate] = []chat.AuditLogEntry{
		{ID: 1, Action: chat.AuditChannelCreate, ActorID: 123, TargetID: 55},
	}
	mc.Members[123] = chat.Member{ID: 123, Username: "intruder"}

	ch := chat.Channel{ID: 55, GuildID: FixtureGuildID, Name: "rogue"}
	require.NoError(eng.ProcessChannelCreate(ctx, &ch))

	// audit lookup, member hydration, then revert + ban + audit entry; no DM
	ops := mc.CallOps()
	assert.Equal([]string{"DeleteChannel", "BanMember", "SendMessage"}, ops)
	calls := mc.Calls()
	assert.Equal(chat.Snowflake(55), calls[0].Target)
	assert.Equal(chat.Snowflake(123), calls[1].Target)
	assert.Contains(calls[1].Text, "unauthorized channel creation")
	assert.NotContains(ops, "SendDirectMessage")
}

func TestEngineStructuralAllowListed(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	mc := eng.Client.(*chat.MockClient)
	mc.Audit[chat.AuditRoleCreate] = []chat.AuditLogEntry{
		{ID: 2, Action: chat.AuditRoleCreate, ActorID: FixtureOwnerID, TargetID: 66},
	}
	mc.Members[FixtureOwnerID] = chat.Member{ID: FixtureOwnerID, Username: "owner"}

	role := chat.Role{ID: 66, GuildID: FixtureGuildID, Name: "new-role"}
	assert.NoError(eng.ProcessRoleCreate(ctx, &role))
	assert.NotContains(mc.CallOps(), "DeleteRole")
	assert.NotContains(mc.CallOps(), "BanMember")
}

func TestEngineActorUnresolved(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	mc := eng.Client.(*chat.MockClient)
	// no audit entries configured

	ch := chat.Channel{ID: 55, GuildID: FixtureGuildID, Name: "rogue"}
	assert.NoError(eng.ProcessChannelCreate(ctx, &ch))
	assert.Empty(mc.Calls())

	// failed audit query is treated the same as an empty one
	mc.Fail["AuditLog"] = true
	ban := chat.BanRecord{GuildID: FixtureGuildID, User: chat.Member{ID: 77}}
	assert.NoError(eng.ProcessBan(ctx, &ban))
	assert.Empty(mc.Calls())
}

func TestEngineUnauthorizedBan(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	mc := eng.Client.(*chat.MockClient)
	mc.Audit[chat.AuditMemberBan] = []chat.AuditLogEntry{
		{ID: 3, Action: chat.AuditMemberBan, ActorID: 123, TargetID: 77},
	}

	ban := chat.BanRecord{GuildID: FixtureGuildID, User: chat.Member{ID: 77}}
	assert.NoError(eng.ProcessBan(ctx, &ban))

	// the actor is banned; the original target is not unbanned
	ops := mc.CallOps()
	assert.Equal([]string{"BanMember", "SendMessage"}, ops)
	assert.Equal(chat.Snowflake(123), mc.Calls()[0].Target)
}

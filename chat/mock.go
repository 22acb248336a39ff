package chat

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Call records one action invocation against the MockClient, in order.
type Call struct {
	Op      string
	Guild   Snowflake
	Channel Snowflake
	Target  Snowflake
	Text    string
}

// MockClient is an in-memory Client for testing. It records every action in
// order and serves configured members and audit log entries. Safe for
// concurrent use.
type MockClient struct {
	mu      sync.Mutex
	calls   []Call
	Members map[Snowflake]Member
	// Audit holds canned audit log entries per action type, newest first.
	Audit map[AuditAction][]AuditLogEntry
	// Fail marks op names whose invocations should return an error.
	Fail map[string]bool
}

func NewMockClient() *MockClient {
	return &MockClient{
		Members: make(map[Snowflake]Member),
		Audit:   make(map[AuditAction][]AuditLogEntry),
		Fail:    make(map[string]bool),
	}
}

func (m *MockClient) record(c Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	if m.Fail[c.Op] {
		return fmt.Errorf("mock failure for %s", c.Op)
	}
	return nil
}

// Reset drops all recorded calls.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Calls returns a copy of all recorded calls, in invocation order.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallOps returns just the op names, in invocation order.
func (m *MockClient) CallOps() []string {
	var out []string
	for _, c := range m.Calls() {
		out = append(out, c.Op)
	}
	return out
}

func (m *MockClient) SendMessage(ctx context.Context, channelID Snowflake, text string) error {
	return m.record(Call{Op: "SendMessage", Target: channelID, Text: text})
}

func (m *MockClient) SendDirectMessage(ctx context.Context, userID Snowflake, text string) error {
	return m.record(Call{Op: "SendDirectMessage", Target: userID, Text: text})
}

func (m *MockClient) DeleteMessage(ctx context.Context, channelID, messageID Snowflake) error {
	return m.record(Call{Op: "DeleteMessage", Channel: channelID, Target: messageID})
}

func (m *MockClient) DeleteChannel(ctx context.Context, channelID Snowflake) error {
	return m.record(Call{Op: "DeleteChannel", Target: channelID})
}

func (m *MockClient) DeleteRole(ctx context.Context, guildID, roleID Snowflake) error {
	return m.record(Call{Op: "DeleteRole", Guild: guildID, Target: roleID})
}

func (m *MockClient) BanMember(ctx context.Context, guildID, userID Snowflake, reason string) error {
	return m.record(Call{Op: "BanMember", Guild: guildID, Target: userID, Text: reason})
}

func (m *MockClient) TimeoutMember(ctx context.Context, guildID, userID Snowflake, d time.Duration, reason string) error {
	return m.record(Call{Op: "TimeoutMember", Guild: guildID, Target: userID, Text: fmt.Sprintf("%s: %s", d, reason)})
}

func (m *MockClient) GetMember(ctx context.Context, guildID, userID Snowflake) (*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mem, ok := m.Members[userID]; ok {
		return &mem, nil
	}
	return nil, fmt.Errorf("member not found: %s", userID)
}

func (m *MockClient) AuditLog(ctx context.Context, guildID Snowflake, action AuditAction, limit int) ([]AuditLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail["AuditLog"] {
		return nil, fmt.Errorf("mock failure for AuditLog")
	}
	entries := m.Audit[action]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]AuditLogEntry, len(entries))
	copy(out, entries)
	return out, nil
}

var _ Client = (*MockClient)(nil)

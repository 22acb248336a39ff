package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Client is the action-invocation surface of the platform, as consumed by the
// moderation engine and command handler. All methods are network calls; errors
// indicate the platform rejected or failed the call (permissions, entity gone,
// transport).
type Client interface {
	SendMessage(ctx context.Context, channelID Snowflake, text string) error
	SendDirectMessage(ctx context.Context, userID Snowflake, text string) error
	DeleteMessage(ctx context.Context, channelID, messageID Snowflake) error
	DeleteChannel(ctx context.Context, channelID Snowflake) error
	DeleteRole(ctx context.Context, guildID, roleID Snowflake) error
	BanMember(ctx context.Context, guildID, userID Snowflake, reason string) error
	TimeoutMember(ctx context.Context, guildID, userID Snowflake, d time.Duration, reason string) error
	GetMember(ctx context.Context, guildID, userID Snowflake) (*Member, error)
	// AuditLog returns the most recent entries for one action type, newest
	// first, at most limit entries. An empty slice is not an error.
	AuditLog(ctx context.Context, guildID Snowflake, action AuditAction, limit int) ([]AuditLogEntry, error)
}

// APIClient talks to the platform REST API. Requests are rate-limited
// client-side and retried on transient failures.
type APIClient struct {
	Host    string
	Token   string
	C       *http.Client
	Limiter *rate.Limiter
}

// RobustHTTPClient returns an HTTP client with retries and sane timeouts for
// calls against the platform API.
func RobustHTTPClient() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil
	client := retryClient.StandardClient()
	client.Timeout = 20 * time.Second
	return client
}

func NewAPIClient(host, token string, reqPerSec int) *APIClient {
	return &APIClient{
		Host:    host,
		Token:   token,
		C:       RobustHTTPClient(),
		Limiter: rate.NewLimiter(rate.Limit(reqPerSec), 1),
	}
}

// Me fetches the bot's own account, which both validates the credential and
// tells the engine which authored messages to skip.
func (c *APIClient) Me(ctx context.Context) (*Member, error) {
	var m Member
	if err := c.do(ctx, http.MethodGet, "/users/@me", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body any, out any) error {
	if err := c.Limiter.Wait(ctx); err != nil {
		return err
	}

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Host+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.Token)
	req.Header.Set("User-Agent", "warden/"+versioninfo.Short())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.C.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("platform API %s %s failed: status=%d body=%s", method, path, resp.StatusCode, string(raw))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("parsing platform API response: %w", err)
		}
	}
	return nil
}

type sendMessageBody struct {
	Content string `json:"content"`
}

func (c *APIClient) SendMessage(ctx context.Context, channelID Snowflake, text string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", channelID), sendMessageBody{Content: text}, nil)
}

// SendDirectMessage opens (or reuses) a DM channel with the user and posts to
// it. Delivery can fail if the user blocks DMs; callers decide whether that
// matters.
func (c *APIClient) SendDirectMessage(ctx context.Context, userID Snowflake, text string) error {
	var ch Channel
	if err := c.do(ctx, http.MethodPost, "/users/@me/channels", map[string]string{"recipient_id": userID.String()}, &ch); err != nil {
		return err
	}
	return c.SendMessage(ctx, ch.ID, text)
}

func (c *APIClient) DeleteMessage(ctx context.Context, channelID, messageID Snowflake) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), nil, nil)
}

func (c *APIClient) DeleteChannel(ctx context.Context, channelID Snowflake) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/channels/%s", channelID), nil, nil)
}

func (c *APIClient) DeleteRole(ctx context.Context, guildID, roleID Snowflake) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/guilds/%s/roles/%s", guildID, roleID), nil, nil)
}

type banBody struct {
	Reason string `json:"reason,omitempty"`
}

func (c *APIClient) BanMember(ctx context.Context, guildID, userID Snowflake, reason string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/guilds/%s/bans/%s", guildID, userID), banBody{Reason: reason}, nil)
}

type timeoutBody struct {
	Until  time.Time `json:"communication_disabled_until"`
	Reason string    `json:"reason,omitempty"`
}

func (c *APIClient) TimeoutMember(ctx context.Context, guildID, userID Snowflake, d time.Duration, reason string) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/guilds/%s/members/%s", guildID, userID),
		timeoutBody{Until: time.Now().UTC().Add(d), Reason: reason}, nil)
}

func (c *APIClient) GetMember(ctx context.Context, guildID, userID Snowflake) (*Member, error) {
	var m Member
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/guilds/%s/members/%s", guildID, userID), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *APIClient) AuditLog(ctx context.Context, guildID Snowflake, action AuditAction, limit int) ([]AuditLogEntry, error) {
	q := url.Values{}
	q.Set("action_type", fmt.Sprintf("%d", int(action)))
	q.Set("limit", fmt.Sprintf("%d", limit))
	var out struct {
		Entries []AuditLogEntry `json:"audit_log_entries"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/guilds/%s/audit-logs?%s", guildID, q.Encode()), nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

var _ Client = (*APIClient)(nil)


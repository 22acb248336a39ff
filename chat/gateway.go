package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/carlmjohnson/versioninfo"
	"github.com/gorilla/websocket"
)

// Gateway event type tags, as sent on the wire.
const (
	EventMessageCreate = "message_create"
	EventChannelCreate = "channel_create"
	EventRoleCreate    = "role_create"
	EventMemberBan     = "member_ban"
)

// GatewayEvent is the envelope for one event on the platform's websocket
// stream. Seq is monotonically increasing and can be passed back on
// resubscribe to resume.
type GatewayEvent struct {
	Seq  int64           `json:"seq"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EventCallbacks bundles per-event-type handlers for a gateway subscription.
// Nil callbacks mean that event type is skipped.
type EventCallbacks struct {
	MessageCreate func(ctx context.Context, msg *Message) error
	ChannelCreate func(ctx context.Context, ch *Channel) error
	RoleCreate    func(ctx context.Context, role *Role) error
	MemberBan     func(ctx context.Context, ban *BanRecord) error
}

// Dispatch decodes the envelope payload and invokes the matching callback.
// Unknown event types are ignored, not an error.
func (cb *EventCallbacks) Dispatch(ctx context.Context, evt *GatewayEvent) error {
	switch evt.Type {
	case EventMessageCreate:
		if cb.MessageCreate == nil {
			return nil
		}
		var msg Message
		if err := json.Unmarshal(evt.Data, &msg); err != nil {
			return fmt.Errorf("parsing %s payload: %w", evt.Type, err)
		}
		return cb.MessageCreate(ctx, &msg)
	case EventChannelCreate:
		if cb.ChannelCreate == nil {
			return nil
		}
		var ch Channel
		if err := json.Unmarshal(evt.Data, &ch); err != nil {
			return fmt.Errorf("parsing %s payload: %w", evt.Type, err)
		}
		return cb.ChannelCreate(ctx, &ch)
	case EventRoleCreate:
		if cb.RoleCreate == nil {
			return nil
		}
		var role Role
		if err := json.Unmarshal(evt.Data, &role); err != nil {
			return fmt.Errorf("parsing %s payload: %w", evt.Type, err)
		}
		return cb.RoleCreate(ctx, &role)
	case EventMemberBan:
		if cb.MemberBan == nil {
			return nil
		}
		var ban BanRecord
		if err := json.Unmarshal(evt.Data, &ban); err != nil {
			return fmt.Errorf("parsing %s payload: %w", evt.Type, err)
		}
		return cb.MemberBan(ctx, &ban)
	}
	return nil
}

// Gateway subscribes to the platform's websocket event stream.
type Gateway struct {
	Host   string
	Token  string
	Logger *slog.Logger
}

// Subscribe dials the gateway and pumps events until the context is cancelled
// or the connection drops. Each event is handled in its own goroutine, so a
// slow or hung handler stalls only its own event. onSeq (optional) is called
// with every envelope's sequence number, for cursor persistence.
func (g *Gateway) Subscribe(ctx context.Context, cursor int64, cb *EventCallbacks, onSeq func(int64)) error {
	u, err := url.Parse(g.Host)
	if err != nil {
		return fmt.Errorf("invalid gateway host URI: %w", err)
	}
	u.Path = "/gateway/events"
	if cursor != 0 {
		u.RawQuery = fmt.Sprintf("cursor=%d", cursor)
	}

	g.Logger.Info("subscribing to gateway event stream", "upstream", g.Host, "cursor", cursor)
	con, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), http.Header{
		"Authorization": []string{"Bot " + g.Token},
		"User-Agent":    []string{fmt.Sprintf("warden/%s", versioninfo.Short())},
	})
	if err != nil {
		return fmt.Errorf("subscribing to gateway failed (dialing): %w", err)
	}
	defer con.Close()

	// unblock ReadMessage when the context ends
	go func() {
		<-ctx.Done()
		con.Close()
	}()

	for {
		_, raw, err := con.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("gateway read failed: %w", err)
		}
		var evt GatewayEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			g.Logger.Warn("skipping malformed gateway frame", "err", err)
			continue
		}
		if onSeq != nil {
			onSeq(evt.Seq)
		}
		go func(evt GatewayEvent) {
			if err := cb.Dispatch(ctx, &evt); err != nil {
				g.Logger.Error("event handling failed", "type", evt.Type, "seq", evt.Seq, "err", err)
			}
		}(evt)
	}
}

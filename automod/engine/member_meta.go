package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wardenbot/warden/chat"
)

// MemberMeta is hydrated metadata about the principal an event is attributed
// to. The allow-list is intentionally not part of this struct: membership is
// mutable at runtime and gets checked live against the engine's set store.
type MemberMeta struct {
	ID       chat.Snowflake `json:"id"`
	Username string         `json:"username"`
	Bot      bool           `json:"bot,omitempty"`
}

func (m MemberMeta) String() string {
	if m.Username == "" {
		return m.ID.String()
	}
	return fmt.Sprintf("%s (%s)", m.Username, m.ID)
}

// GetMemberMeta hydrates member metadata from the platform API, going through
// the engine's cache. Lookup failure is not fatal: policy evaluation only
// needs the principal identifier, the rest is enrichment for audit lines.
func (eng *Engine) GetMemberMeta(ctx context.Context, guildID, userID chat.Snowflake) MemberMeta {

	logger := eng.Logger.With("user", userID)

	// fallback in case client wasn't configured (eg, testing)
	if eng.Client == nil {
		logger.Warn("skipping member meta hydration")
		return MemberMeta{ID: userID}
	}

	existing, err := eng.Cache.Get(ctx, "member", userID.String())
	if err != nil {
		logger.Warn("failed checking member meta cache", "err", err)
	} else if existing != "" {
		var mm MemberMeta
		if err := json.Unmarshal([]byte(existing), &mm); err == nil {
			return mm
		}
		logger.Warn("parsing MemberMeta from cache failed", "err", err)
	}

	memberMetaFetches.Inc()
	member, err := eng.Client.GetMember(ctx, guildID, userID)
	if err != nil {
		logger.Debug("member lookup failed", "err", err)
		return MemberMeta{ID: userID}
	}

	mm := MemberMeta{
		ID:       member.ID,
		Username: member.Username,
		Bot:      member.Bot,
	}
	if raw, err := json.Marshal(&mm); err == nil {
		if err := eng.Cache.Set(ctx, "member", userID.String(), string(raw)); err != nil {
			logger.Warn("writing member meta cache failed", "err", err)
		}
	}
	return mm
}

package rules

import (
	"time"

	"github.com/wardenbot/warden/automod/engine"
	"github.com/wardenbot/warden/automod/helpers"
)

var _ engine.MessageRuleFunc = MassMentionMessageRule

// How long mass-mention offenders are timed out for.
const MassMentionTimeout = 600 * time.Second

// MassMentionMessageRule times out principals outside the allow-list who ping
// the whole guild ("@everyone"/"@here", case-insensitive), deleting the
// message and warning the author. Runs independently of the link rule; both
// can fire on the same message.
func MassMentionMessageRule(c *engine.MessageContext) error {
	if !helpers.ContainsMassMention(c.Message.Content) {
		return nil
	}
	if c.ActorAllowListed() {
		return nil
	}
	c.TimeoutAndWarn("mass mention violation", MassMentionTimeout)
	return nil
}

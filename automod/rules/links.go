package rules

import (
	"github.com/wardenbot/warden/automod/engine"
	"github.com/wardenbot/warden/automod/helpers"
)

var _ engine.MessageRuleFunc = LinkMessageRule

// LinkMessageRule deletes messages containing link-looking substrings from
// principals outside the allow-list, and warns the author. Any matching
// substring anywhere in the body triggers it.
func LinkMessageRule(c *engine.MessageContext) error {
	if !helpers.ContainsURL(c.Message.Content) {
		return nil
	}
	if c.ActorAllowListed() {
		return nil
	}
	c.DeleteAndWarn("links not allowed")
	return nil
}

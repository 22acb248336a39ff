package rules

import (
	"fmt"

	"github.com/wardenbot/warden/automod/engine"
)

var _ engine.StructuralRuleFunc = UnauthorizedActionRule

// UnauthorizedActionRule reverts guild structural changes (channel creation,
// role creation, bans) performed by anyone outside the allow-list, and bans
// the actor. The same rule serves all three event families; the context
// carries which change happened.
//
// For an unauthorized ban there is nothing to revert: the actor gets banned
// but the original ban's target stays banned.
func UnauthorizedActionRule(c *engine.ActionContext) error {
	if c.ActorAllowListed() {
		return nil
	}
	c.RevertAndBan(fmt.Sprintf("unauthorized %s", c.Action))
	c.Notify("slack")
	return nil
}

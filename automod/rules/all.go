package rules

import (
	"github.com/wardenbot/warden/automod/engine"
)

// DefaultRules returns the full policy set. Message rule order matters: the
// link check runs before the mention check, and verdicts apply in that order
// when both fire for one message.
func DefaultRules() engine.RuleSet {
	rules := engine.RuleSet{
		MessageRules: []engine.MessageRuleFunc{
			LinkMessageRule,
			MassMentionMessageRule,
		},
		ChannelRules: []engine.StructuralRuleFunc{
			UnauthorizedActionRule,
		},
		RoleRules: []engine.StructuralRuleFunc{
			UnauthorizedActionRule,
		},
		BanRules: []engine.StructuralRuleFunc{
			UnauthorizedActionRule,
		},
	}
	return rules
}

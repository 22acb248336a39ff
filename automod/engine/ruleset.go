package engine

// Holds configuration of which rules of various types should be run, and
// helps dispatch events to those rules.
type RuleSet struct {
	MessageRules []MessageRuleFunc
	ChannelRules []StructuralRuleFunc
	RoleRules    []StructuralRuleFunc
	BanRules     []StructuralRuleFunc
}

// Executes all message rules, in order. Rules run to completion even when an
// earlier rule enqueued a verdict; both message policies can fire for one
// message, and their configured order is the order verdicts apply in.
func (r *RuleSet) CallMessageRules(c *MessageContext) error {
	for _, f := range r.MessageRules {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}

// Executes the structural rules for the context's action kind. Only
// dispatches execution, does no other pre/post processing.
func (r *RuleSet) CallStructuralRules(c *ActionContext) error {
	var rules []StructuralRuleFunc
	switch c.Action {
	case ActionChannelCreate:
		rules = r.ChannelRules
	case ActionRoleCreate:
		rules = r.RoleRules
	case ActionMemberBan:
		rules = r.BanRules
	}
	for _, f := range rules {
		if err := f(c); err != nil {
			return err
		}
	}
	return nil
}

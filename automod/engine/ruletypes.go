package engine

type MessageRuleFunc = func(c *MessageContext) error
type StructuralRuleFunc = func(c *ActionContext) error

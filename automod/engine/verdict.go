package engine

import (
	"time"
)

type VerdictKind string

const (
	// Delete the offending message, warn the author by DM, log.
	VerdictDeleteAndWarn VerdictKind = "delete-and-warn"
	// Delete the offending message, time the author out, warn by DM, log.
	VerdictTimeoutAndWarn VerdictKind = "timeout-and-warn"
	// Revert the structural change and ban the actor. No DM in this path.
	VerdictRevertAndBan VerdictKind = "revert-and-ban"
)

// Verdict is one enforcement decision produced by a rule. The targets (the
// message, the structural object, the acting principal) come from the event
// context the verdict was enqueued on.
type Verdict struct {
	Kind   VerdictKind
	Reason string
	// Timeout applies only to VerdictTimeoutAndWarn.
	Timeout time.Duration
}

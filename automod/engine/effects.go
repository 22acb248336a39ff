package engine

import (
	"time"
)

type CounterRef struct {
	Name   string
	Val    string
	Period *string
}

type CounterDistinctRef struct {
	Name   string
	Bucket string
	Val    string
}

// Mutable container for all the possible side-effects from rule execution.
//
// Verdicts are collected in rule-execution order and applied strictly in that
// order afterwards: all side effects of one verdict complete before the next
// verdict's begin. Counter increments and notifications are persisted in bulk
// at the end of event processing.
type Effects struct {
	// Enforcement decisions, in the order rules enqueued them.
	Verdicts []Verdict
	// Counters which should be incremented as part of processing this event.
	CounterIncrements []CounterRef
	// Similar to "CounterIncrements", but for "distinct" style counters.
	CounterDistinctIncrements []CounterDistinctRef
	// Notification services (eg "slack") which should receive a summary of
	// this event's enforcement, if configured.
	NotifyServices []string
}

// Enqueues a delete-and-warn verdict against the event's message and author.
func (e *Effects) DeleteAndWarn(reason string) {
	e.Verdicts = append(e.Verdicts, Verdict{Kind: VerdictDeleteAndWarn, Reason: reason})
}

// Enqueues a timeout-and-warn verdict against the event's message and author.
func (e *Effects) TimeoutAndWarn(reason string, d time.Duration) {
	e.Verdicts = append(e.Verdicts, Verdict{Kind: VerdictTimeoutAndWarn, Reason: reason, Timeout: d})
}

// Enqueues a revert-and-ban verdict against the event's structural change and
// resolved actor.
func (e *Effects) RevertAndBan(reason string) {
	e.Verdicts = append(e.Verdicts, Verdict{Kind: VerdictRevertAndBan, Reason: reason})
}

// Enqueues the named counter to be incremented at the end of all rule
// processing. Will automatically increment for all time periods.
func (e *Effects) Increment(name, val string) {
	e.CounterIncrements = append(e.CounterIncrements, CounterRef{Name: name, Val: val})
}

// Enqueues the named counter to be incremented at the end of all rule
// processing. Will only increment the indicated time period bucket.
func (e *Effects) IncrementPeriod(name, val string, period string) {
	e.CounterIncrements = append(e.CounterIncrements, CounterRef{Name: name, Val: val, Period: &period})
}

// Enqueues the named "distinct value" counter to be incremented at the end of
// all rule processing.
func (e *Effects) IncrementDistinct(name, bucket, val string) {
	e.CounterDistinctIncrements = append(e.CounterDistinctIncrements, CounterDistinctRef{Name: name, Bucket: bucket, Val: val})
}

// Enqueues a summary notification to the named service, sent after verdicts
// are applied.
func (e *Effects) Notify(srv string) {
	e.NotifyServices = append(e.NotifyServices, srv)
}

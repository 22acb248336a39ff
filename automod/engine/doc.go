// Moderation rules engine for guild chat events.
//
// This package contains a "rules engine" which evaluates batches of rules
// against novel events from the platform gateway: new messages, channel and
// role creation, and bans. Rules enqueue enforcement verdicts (delete a
// message and warn the author, time the author out, revert a structural
// change and ban the actor), which the engine applies in order after rule
// execution. The package also maintains caches and counters of relevant
// metadata so rules and audit entries have efficient access to it.
//
// See `cmd/warden` for the daemon built on this package.
package engine

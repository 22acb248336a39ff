package setstore

import (
	"context"
)

// SetStore holds named sets of strings consulted (and mutated) during rule
// execution. The allow-list of trusted principals is the set "allowlist".
//
// Implementations must support concurrent reads from many in-flight event
// handlers interleaved with occasional writes; no reader may observe a
// partially-applied mutation. All three operations are total: removing an
// absent value or checking an unknown set name is not an error.
type SetStore interface {
	InSet(ctx context.Context, name, val string) (bool, error)
	AddToSet(ctx context.Context, name, val string) error
	RemoveFromSet(ctx context.Context, name, val string) error
}

// AllowListSetName is the set of principals exempt from all enforcement
// policies. The configured owner is seeded into it at startup.
const AllowListSetName = "allowlist"

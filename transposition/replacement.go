package transposition

import (
	"fmt"

	"github.com/domino14/dory/config"
	"github.com/domino14/dory/searchstate"
)

// ReplacementPolicy decides whether incoming may overwrite the slot's
// current record. Both records carry their tiny hash.
type ReplacementPolicy func(current, incoming searchstate.Record) bool

// AlwaysReplace overwrites whatever is there.
func AlwaysReplace(current, incoming searchstate.Record) bool {
	return true
}

// DepthPreferred keeps a deeper record for the same position. Records for a
// different position are always replaced, so stale entries from old
// searches cannot pin a slot forever.
func DepthPreferred(current, incoming searchstate.Record) bool {
	if !current.Valid() || current.Hash != incoming.Hash {
		return true
	}
	return incoming.Depth >= current.Depth
}

func PolicyByName(name string) (ReplacementPolicy, error) {
	switch name {
	case config.ReplaceAlways:
		return AlwaysReplace, nil
	case config.ReplaceDepth:
		return DepthPreferred, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownPolicy, name)
}

// Package searchstate holds the record a transposition table stores for a
// searched position, and the rules for trusting it.
//
// A Record is a plain value. It is not safe for concurrent mutation of the
// same record without external coordination; the table that owns records
// decides how writers and readers are kept apart.
package searchstate

import (
	"github.com/domino14/dory/tinymove"
	"github.com/domino14/dory/zobrist"
)

// Bound classifies how a stored evaluation relates to the true value of
// the position.
type Bound uint8

const (
	// Invalid marks an empty slot. It is deliberately the zero value, so a
	// freshly allocated record is never mistaken for a result.
	Invalid Bound = iota
	// Exact: the evaluation is the minimax value at Depth.
	Exact
	// BetaCutoff: the node failed high; the evaluation is a lower bound.
	BetaCutoff
	// AlphaUnchanged: no move raised alpha; the evaluation is an upper bound.
	AlphaUnchanged
)

func (b Bound) String() string {
	switch b {
	case Invalid:
		return "invalid"
	case Exact:
		return "exact"
	case BetaCutoff:
		return "lower"
	case AlphaUnchanged:
		return "upper"
	}
	return "unknown"
}

// 12 bytes
type Record struct {
	Hash       zobrist.Tiny
	Evaluation int32
	Move       tinymove.TinyMove
	Depth      uint8
	Bound      Bound
}

// Empty returns a record holding no result.
func Empty() Record {
	return Record{Bound: Invalid}
}

func New(hash zobrist.Tiny, eval int32, mv tinymove.TinyMove, depth uint8, bound Bound) Record {
	return Record{Hash: hash, Evaluation: eval, Move: mv, Depth: depth, Bound: bound}
}

// Valid reports whether the record carries a result at all. Nothing else
// in an invalid record may be read.
func (r Record) Valid() bool {
	return r.Bound == Exact || r.Bound == BetaCutoff || r.Bound == AlphaUnchanged
}

// HintMove returns the stored move for ordering purposes. It may come from
// a shallower search than the caller's, so it is only a hint.
func (r Record) HintMove() tinymove.TinyMove {
	if !r.Valid() {
		return tinymove.Null
	}
	return r.Move
}

// Classify returns the bound for a node whose best score is best, searched
// with the window (alphaOrig, beta).
func Classify(best, alphaOrig, beta int32) Bound {
	if best <= alphaOrig {
		return AlphaUnchanged
	} else if best >= beta {
		return BetaCutoff
	}
	return Exact
}

// Window is the search window after consulting a record.
type Window struct {
	Alpha int32
	Beta  int32
	// Score is the value to return for the node when the probe resolved it.
	Score int32
}

// Probe applies the record to a search of the given depth with window
// (alpha, beta). If the second return value is true the node is resolved
// and Window.Score is its value. Otherwise the returned window is the
// (possibly narrowed) one to search with.
//
// A record only answers searches at its own depth or shallower. An exact
// record resolves outright; a lower bound can only raise alpha and an
// upper bound can only lower beta.
func (r Record) Probe(depth uint8, alpha, beta int32) (Window, bool) {
	w := Window{Alpha: alpha, Beta: beta}
	if !r.Valid() || r.Depth < depth {
		return w, false
	}
	switch r.Bound {
	case Exact:
		w.Score = r.Evaluation
		return w, true
	case BetaCutoff:
		w.Alpha = max(w.Alpha, r.Evaluation)
	case AlphaUnchanged:
		w.Beta = min(w.Beta, r.Evaluation)
	}
	if w.Alpha >= w.Beta {
		w.Score = r.Evaluation
		return w, true
	}
	return w, false
}

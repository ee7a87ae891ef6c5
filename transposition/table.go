// Package transposition is a fixed-size, preallocated table of search
// records keyed by zobrist hash.
package transposition

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/dory/config"
	"github.com/domino14/dory/searchstate"
	"github.com/domino14/dory/zobrist"
)

var entrySize = int(unsafe.Sizeof(searchstate.Record{}))

// The index uses the low bits of the hash and the record keeps the top 32.
// With at least 2^24 slots only the middle 8 bits go unchecked.
const minSizePowerOf2 = 24

const hashfullSample = 1000

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

type Stats struct {
	Created      uint64
	Lookups      uint64
	Hits         uint64
	T2Collisions uint64
	Rejected     uint64
}

type Table struct {
	TableLock
	table        []searchstate.Record
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	rejected     atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
	// "type 2" collisions. A type 2 collision happens when two positions share
	// the same lower bits. A type 1 collision happens when two positions share
	// the same overall tiny hash; we can't detect those, and accept them.
	t2collisions atomic.Uint64

	replace ReplacementPolicy
}

// New returns a table in single-threaded mode that always replaces. It has
// no slots until Reset; until then lookups miss and stores are rejected.
func New() *Table {
	t := &Table{replace: AlwaysReplace}
	t.SetSingleThreadedMode()
	return t
}

// NewFromConfig builds and sizes a table from cfg.
func NewFromConfig(cfg *config.Config) (*Table, error) {
	policy, err := PolicyByName(cfg.TTReplacement)
	if err != nil {
		return nil, err
	}
	t := New()
	t.SetReplacementPolicy(policy)
	if cfg.TTMultiThreaded {
		t.SetMultiThreadedMode()
	}
	if err := t.Reset(cfg.TTFractionOfMemory); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) SetSingleThreadedMode() {
	t.TableLock = &FakeLock{}
}

func (t *Table) SetMultiThreadedMode() {
	t.TableLock = new(sync.RWMutex)
}

func (t *Table) SetReplacementPolicy(p ReplacementPolicy) {
	t.replace = p
}

// Lookup returns the record for key, or an invalid record if the slot holds
// nothing or holds a different position.
func (t *Table) Lookup(key zobrist.Hash) searchstate.Record {
	t.RLock()
	defer t.RUnlock()
	t.lookups.Add(1)
	if len(t.table) == 0 {
		return searchstate.Empty()
	}
	idx := uint64(key) & t.sizeMask
	entry := t.table[idx]
	if !entry.Valid() {
		return searchstate.Empty()
	}
	if entry.Hash != key.Tiny() {
		// There is another unrelated node at this position.
		t.t2collisions.Add(1)
		return searchstate.Empty()
	}
	t.hits.Add(1)
	// otherwise, assume the same tiny hash is the same position. this fails
	// very, very rarely. but it could happen.
	return entry
}

// Store writes rec for key, subject to the replacement policy. rec.Hash is
// overwritten with the reduced key. It reports whether the write happened.
func (t *Table) Store(key zobrist.Hash, rec searchstate.Record) bool {
	idx := uint64(key) & t.sizeMask
	rec.Hash = key.Tiny()
	t.Lock()
	defer t.Unlock()
	if len(t.table) == 0 {
		t.rejected.Add(1)
		return false
	}
	if !t.replace(t.table[idx], rec) {
		t.rejected.Add(1)
		return false
	}
	t.table[idx] = rec
	t.created.Add(1)
	return true
}

// Reset sizes the table to the largest power of two that fits in
// fractionOfMemory of system memory (but never under 2^24 slots), and marks
// every slot invalid.
func (t *Table) Reset(fractionOfMemory float64) error {
	if fractionOfMemory <= 0 || fractionOfMemory > 1 {
		return fmt.Errorf("%w: got %v", config.ErrInvalidFraction, fractionOfMemory)
	}
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	sizePowerOf2 := max(minSizePowerOf2, int(math.Log2(desiredNElems)))
	t.resize(sizePowerOf2)

	log.Info().Int("num-elems", len(t.table)).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", len(t.table)*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
	return nil
}

func (t *Table) resize(sizePowerOf2 int) {
	t.Lock()
	defer t.Unlock()
	numElems := 1 << sizePowerOf2
	t.sizePowerOf2 = sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	if t.table != nil && len(t.table) == numElems {
		t.clear()
	} else {
		t.table = make([]searchstate.Record, numElems)
		// make zeroes the slots and the zero Bound is Invalid, but don't
		// lean on that.
		t.clear()
	}

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.rejected.Store(0)
	t.t2collisions.Store(0)
}

// Clear invalidates every slot without reallocating.
func (t *Table) Clear() {
	t.Lock()
	defer t.Unlock()
	t.clear()
}

// clear marks every slot invalid, splitting the table across CPUs.
func (t *Table) clear() {
	shards := runtime.GOMAXPROCS(0)
	shardSize := (len(t.table) + shards - 1) / shards
	g := errgroup.Group{}
	for start := 0; start < len(t.table); start += shardSize {
		shard := t.table[start:min(start+shardSize, len(t.table))]
		g.Go(func() error {
			empty := searchstate.Empty()
			for i := range shard {
				shard[i] = empty
			}
			return nil
		})
	}
	// the workers never fail.
	_ = g.Wait()
}

func (t *Table) Len() int {
	return len(t.table)
}

func (t *Table) Stats() Stats {
	return Stats{
		Created:      t.created.Load(),
		Lookups:      t.lookups.Load(),
		Hits:         t.hits.Load(),
		T2Collisions: t.t2collisions.Load(),
		Rejected:     t.rejected.Load(),
	}
}

// Hashfull estimates table occupancy in permille from the first slots, the
// way UCI engines report it.
func (t *Table) Hashfull() int {
	t.RLock()
	defer t.RUnlock()
	sample := t.table[:min(hashfullSample, len(t.table))]
	if len(sample) == 0 {
		return 0
	}
	used := lo.CountBy(sample, func(r searchstate.Record) bool { return r.Valid() })
	return used * 1000 / len(sample)
}

func (t *Table) LogStats() {
	s := t.Stats()
	log.Info().Uint64("created", s.Created).
		Uint64("lookups", s.Lookups).
		Uint64("hits", s.Hits).
		Uint64("t2-collisions", s.T2Collisions).
		Uint64("rejected", s.Rejected).
		Int("hashfull", t.Hashfull()).
		Msg("transposition-table-stats")
}

package bitboard

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// Bitboard is a set of squares. Bit i set means square i is a member.
type Bitboard uint64

const (
	Empty Bitboard = 0
	Full  Bitboard = ^Empty
)

// Count returns the number of squares in the set.
func Count(b Bitboard) int {
	return bits.OnesCount64(uint64(b))
}

// Set adds sq to b if activate is true, and removes it otherwise.
func Set(b *Bitboard, sq Square, activate bool) {
	if activate {
		*b |= 1 << sq
	} else {
		*b &^= 1 << sq
	}
}

// Get reports whether sq is a member of b.
func Get(b Bitboard, sq Square) bool {
	return uint64(b)>>sq&1 == 1
}

func FromSquare(sq Square) Bitboard {
	return 1 << sq
}

// ToSquare returns the lowest square in b. If b is empty it returns
// NoSquare; callers that can see an empty set must check for it.
func ToSquare(b Bitboard) Square {
	return Square(bits.TrailingZeros64(uint64(b)))
}

func (b Bitboard) With(sq Square) Bitboard {
	return b | 1<<sq
}

func (b Bitboard) Without(sq Square) Bitboard {
	return b &^ (1 << sq)
}

func (b Bitboard) Has(sq Square) bool {
	return Get(b, sq)
}

func (b Bitboard) Count() int {
	return Count(b)
}

// Squares yields the members of b in ascending order.
func (b Bitboard) Squares() iter.Seq[Square] {
	return func(yield func(Square) bool) {
		for x := b; x != 0; x &= x - 1 {
			sq := Square(bits.TrailingZeros64(uint64(x)))
			if !yield(sq) {
				return
			}
		}
	}
}

// String renders b as an 8x8 grid, rank 8 at the top. Each row is printed
// from the a-file to the h-file, i.e. least significant bit first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			if Get(b, Square(r*8+f)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
			if f != 7 {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Iterator enumerates a snapshot of a bitboard, lowest square first. It
// consumes its own copy; once exhausted it stays exhausted.
type Iterator struct {
	bb Bitboard
}

func Iterate(b Bitboard) Iterator {
	return Iterator{bb: b}
}

// Next removes and returns the lowest remaining square. The second return
// value is false once the iterator is exhausted.
func (it *Iterator) Next() (Square, bool) {
	if it.bb == 0 {
		return NoSquare, false
	}
	sq := Square(bits.TrailingZeros64(uint64(it.bb)))
	// Clear only the lowest set bit.
	it.bb &= it.bb - 1
	return sq, true
}

func (it *Iterator) Remaining() int {
	return Count(it.bb)
}

// Drain writes every remaining square into dst in ascending order and
// returns how many were written. dst must have room for Remaining()
// squares; a shorter dst is a programming error and panics.
func (it *Iterator) Drain(dst []Square) int {
	n := Count(it.bb)
	if len(dst) < n {
		panic(fmt.Sprintf("bitboard: drain needs %d squares, buffer holds %d", n, len(dst)))
	}
	for i := 0; i < n; i++ {
		dst[i] = Square(bits.TrailingZeros64(uint64(it.bb)))
		it.bb &= it.bb - 1
	}
	return n
}

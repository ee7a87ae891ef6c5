package zobrist

import (
	"math"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"

	"github.com/domino14/dory/bitboard"
)

// Hash is the full-width identity of a position.
type Hash uint64

// Tiny is the reduced identity kept inside a transposition record. Distinct
// positions can share a Tiny; that is an accepted risk, not corruption.
type Tiny uint32

// Tiny keeps the upper 32 bits. The lower bits are usually implied by the
// slot a record lives in, so the two halves together cover most of the hash.
func (h Hash) Tiny() Tiny {
	return Tiny(h >> 32)
}

// NumAux is the number of auxiliary keys: castling rights (4), en passant
// file (8), and a few spare slots for variants.
const NumAux = 16

// generate a zobrist hash for a bitboard position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	sideToMove uint64

	posTable [][bitboard.NumSquares]uint64
	auxTable [NumAux]uint64

	numPieces int
}

func (z *Zobrist) Initialize(numPieces int) {
	z.numPieces = numPieces
	z.posTable = make([][bitboard.NumSquares]uint64, numPieces)
	for i := 0; i < numPieces; i++ {
		for j := 0; j < bitboard.NumSquares; j++ {
			z.posTable[i][j] = randomKey()
		}
	}
	for i := 0; i < NumAux; i++ {
		z.auxTable[i] = randomKey()
	}
	z.sideToMove = randomKey()
}

// randomKey draws a non-zero key over the full 64 bits, so every bit of
// Hash (and Tiny) is live.
func randomKey() uint64 {
	return frand.Uint64n(math.MaxUint64) + 1
}

func (z *Zobrist) NumPieces() int {
	return z.numPieces
}

// Hash computes the key from scratch. boards holds one bitboard per piece
// kind, in the same order used for Initialize. aux lists the auxiliary key
// indices that are active.
func (z *Zobrist) Hash(boards []bitboard.Bitboard, sideToMove bool, aux []int) Hash {
	key := uint64(0)
	for piece, bb := range boards {
		it := bitboard.Iterate(bb)
		for sq, ok := it.Next(); ok; sq, ok = it.Next() {
			key ^= z.posTable[piece][sq]
		}
	}
	for _, a := range aux {
		key ^= z.auxTable[a]
	}
	if sideToMove {
		key ^= z.sideToMove
	}
	return Hash(key)
}

// Toggle adds or removes a piece on a square.
func (z *Zobrist) Toggle(key Hash, piece int, sq bitboard.Square) Hash {
	return key ^ Hash(z.posTable[piece][sq])
}

// Move relocates a piece. It does not flip the side to move.
func (z *Zobrist) Move(key Hash, piece int, from, to bitboard.Square) Hash {
	return key ^ Hash(z.posTable[piece][from]^z.posTable[piece][to])
}

func (z *Zobrist) FlipSide(key Hash) Hash {
	return key ^ Hash(z.sideToMove)
}

func (z *Zobrist) ToggleAux(key Hash, i int) Hash {
	return key ^ Hash(z.auxTable[i])
}

// FromString hashes a textual position description (e.g. a FEN). It is
// meant for debug tables keyed by text, not for incremental search.
func FromString(s string) Hash {
	return Hash(xxhash.Sum64String(s))
}

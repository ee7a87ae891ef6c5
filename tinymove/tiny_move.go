package tinymove

import (
	"github.com/domino14/dory/bitboard"
)

// TinyMove is a 16-bit representation of a move. It is made to be as small
// as possible to fit it in a transposition table record.
type TinyMove uint16

// Schema:
// 6 bits for the from square
// 6 bits for the to square
// 4 bits of flags
//
// If the move is null, the entire value is 0.
// 15   11    7    3
//  FFFF TTTT TTff ffff
//
// (f = from, T = to, F = flag)

const fromMask = 0b00000000_00111111
const toMask = 0b00001111_11000000
const toShift = 6
const flagShift = 12

// Null is the zero move. A record that has no best move stores Null.
const Null TinyMove = 0

type Flag uint8

const (
	Quiet Flag = iota
	DoublePush
	KingCastle
	QueenCastle
	Capture
	EnPassant
	_
	_
	KnightPromotion
	BishopPromotion
	RookPromotion
	QueenPromotion
	KnightPromotionCapture
	BishopPromotionCapture
	RookPromotionCapture
	QueenPromotionCapture
)

func New(from, to bitboard.Square, flag Flag) TinyMove {
	return TinyMove(from)&fromMask | TinyMove(to)<<toShift&toMask | TinyMove(flag)<<flagShift
}

func (tm TinyMove) From() bitboard.Square {
	return bitboard.Square(tm & fromMask)
}

func (tm TinyMove) To() bitboard.Square {
	return bitboard.Square(tm & toMask >> toShift)
}

func (tm TinyMove) Flag() Flag {
	return Flag(tm >> flagShift)
}

func (tm TinyMove) IsNull() bool {
	return tm == Null
}

func (tm TinyMove) IsCapture() bool {
	return tm.Flag()&Capture != 0
}

func (tm TinyMove) IsPromotion() bool {
	return tm.Flag()&KnightPromotion != 0
}

// Squares returns the from and to squares as a bitboard, handy for
// updating occupancy with a single xor.
func (tm TinyMove) Squares() bitboard.Bitboard {
	return bitboard.FromSquare(tm.From()) | bitboard.FromSquare(tm.To())
}

var promotionSuffix = [4]byte{'n', 'b', 'r', 'q'}

// String returns the move in coordinate notation, e.g. "e2e4" or "e7e8q".
func (tm TinyMove) String() string {
	if tm.IsNull() {
		return "0000"
	}
	s := tm.From().String() + tm.To().String()
	if tm.IsPromotion() {
		s += string(promotionSuffix[tm.Flag()&0b11])
	}
	return s
}

package bitboard

// Square indexes a board cell. a1 is 0, h1 is 7, h8 is 63.
type Square uint8

const (
	NumSquares = 64
	// NoSquare is returned where no square exists, e.g. the lowest member
	// of an empty set.
	NoSquare Square = NumSquares
)

func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (sq Square) File() int { return int(sq) % 8 }
func (sq Square) Rank() int { return int(sq) / 8 }

func (sq Square) Valid() bool {
	return sq < NoSquare
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare parses algebraic notation such as "e4". It returns NoSquare
// for anything else.
func ParseSquare(s string) Square {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1'))
}

package bitboard

import (
	"strings"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

func randomBoards(n int) []Bitboard {
	bbs := []Bitboard{Empty, Full, 1, 1 << 63, 0b1011, 0x8100000000000081}
	for i := 0; i < n; i++ {
		bbs = append(bbs, Bitboard(frand.Uint64n(1<<63))|Bitboard(frand.Intn(2))<<63)
	}
	return bbs
}

func TestCountMatchesMembership(t *testing.T) {
	is := is.New(t)
	for _, b := range randomBoards(200) {
		members := 0
		for sq := Square(0); sq < NumSquares; sq++ {
			if Get(b, sq) {
				members++
			}
		}
		is.Equal(Count(b), members)
	}
	is.Equal(Count(Empty), 0)
	is.Equal(Count(Full), 64)
}

func TestSetRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, b := range randomBoards(50) {
		for sq := Square(0); sq < NumSquares; sq++ {
			c := b
			Set(&c, sq, true)
			is.True(Get(c, sq))
			Set(&c, sq, false)
			is.True(!Get(c, sq))
			is.Equal(c, b.Without(sq))
		}
	}
}

func TestSetIdempotent(t *testing.T) {
	is := is.New(t)
	b := Bitboard(0b1011)
	once := b
	Set(&once, 2, true)
	twice := once
	Set(&twice, 2, true)
	is.Equal(once, twice)
	is.Equal(once, Bitboard(0b1111))

	Set(&twice, 2, false)
	Set(&twice, 2, false)
	is.Equal(twice, b)
	is.Equal(b.With(2).With(2), once)
}

func TestFromSquare(t *testing.T) {
	is := is.New(t)
	for sq := Square(0); sq < NumSquares; sq++ {
		b := FromSquare(sq)
		is.True(Get(b, sq))
		is.Equal(Count(b), 1)
		is.Equal(ToSquare(b), sq)
	}
}

func TestToSquareLowest(t *testing.T) {
	is := is.New(t)
	for _, b := range randomBoards(100) {
		if b == Empty {
			is.Equal(ToSquare(b), NoSquare)
			continue
		}
		lowest := NoSquare
		for sq := Square(0); sq < NumSquares; sq++ {
			if Get(b, sq) {
				lowest = sq
				break
			}
		}
		is.Equal(ToSquare(b), lowest)
	}
}

func TestIteratorOrder(t *testing.T) {
	is := is.New(t)
	b := Bitboard(0b1011)
	is.Equal(Count(b), 3)

	it := Iterate(b)
	var got []Square
	for {
		sq, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, sq)
	}
	is.Equal(got, []Square{0, 1, 3})

	// Exhausted iterators stay exhausted.
	sq, ok := it.Next()
	is.True(!ok)
	is.Equal(sq, NoSquare)
	is.Equal(it.Remaining(), 0)
}

func TestIteratorReconstructs(t *testing.T) {
	is := is.New(t)
	for _, b := range randomBoards(200) {
		it := Iterate(b)
		var rebuilt Bitboard
		n := 0
		last := -1
		for sq, ok := it.Next(); ok; sq, ok = it.Next() {
			is.True(int(sq) > last)
			is.True(Get(b, sq))
			last = int(sq)
			rebuilt |= FromSquare(sq)
			n++
		}
		is.Equal(n, Count(b))
		is.Equal(rebuilt, b)
	}
}

func TestIteratorSnapshot(t *testing.T) {
	is := is.New(t)
	b := Bitboard(0b110)
	it := Iterate(b)
	Set(&b, 0, true)
	Set(&b, 2, false)

	sq, ok := it.Next()
	is.True(ok)
	is.Equal(sq, Square(1))
	sq, ok = it.Next()
	is.True(ok)
	is.Equal(sq, Square(2))
	_, ok = it.Next()
	is.True(!ok)
}

func TestDrain(t *testing.T) {
	is := is.New(t)
	b := Bitboard(0x8000000000010301)
	it := Iterate(b)
	first, _ := it.Next()
	is.Equal(first, Square(0))

	var buf [NumSquares]Square
	n := it.Drain(buf[:])
	is.Equal(n, 4)
	is.Equal(buf[:n], []Square{8, 9, 16, 63})
	is.Equal(it.Remaining(), 0)
	is.Equal(it.Drain(nil), 0)
}

func TestDrainShortBufferPanics(t *testing.T) {
	is := is.New(t)
	defer func() {
		r := recover()
		is.True(r != nil)
		is.True(strings.Contains(r.(string), "drain needs 3"))
	}()
	it := Iterate(0b111)
	buf := make([]Square, 2)
	it.Drain(buf)
}

func TestSquaresSeq(t *testing.T) {
	is := is.New(t)
	var got []Square
	for sq := range Bitboard(0x8000000000000005).Squares() {
		got = append(got, sq)
	}
	is.Equal(got, []Square{0, 2, 63})

	// The sequence can be ranged more than once.
	seq := Bitboard(0b1011).Squares()
	for range 2 {
		var again []Square
		for sq := range seq {
			again = append(again, sq)
		}
		is.Equal(again, []Square{0, 1, 3})
	}

	// Early break.
	got = got[:0]
	for sq := range Full.Squares() {
		if sq == 3 {
			break
		}
		got = append(got, sq)
	}
	is.Equal(got, []Square{0, 1, 2})
}

func TestString(t *testing.T) {
	is := is.New(t)
	b := FromSquare(NewSquare(0, 0)) | FromSquare(NewSquare(7, 7)) | FromSquare(NewSquare(4, 3))
	rows := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	is.Equal(len(rows), 8)

	marks := make([]string, 8)
	for i, row := range rows {
		marks[i] = strings.Join(strings.Fields(row), "")
	}
	is.Equal(marks[0], "00000001") // rank 8, h8 set
	is.Equal(marks[4], "00001000") // rank 4, e4 set
	is.Equal(marks[7], "10000000") // rank 1, a1 set
	is.Equal(strings.Count(b.String(), "1"), 3)
}

func TestSquareNotation(t *testing.T) {
	is := is.New(t)
	is.Equal(ParseSquare("a1"), Square(0))
	is.Equal(ParseSquare("h8"), Square(63))
	is.Equal(ParseSquare("e4").String(), "e4")
	is.Equal(ParseSquare("i9"), NoSquare)
	is.Equal(NoSquare.String(), "-")
	sq := ParseSquare("c7")
	is.Equal(sq.File(), 2)
	is.Equal(sq.Rank(), 6)
}

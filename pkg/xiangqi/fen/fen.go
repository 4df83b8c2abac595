// Package fen contains utilities for reading and writing xiangqi positions
// in FEN notation: 9 files by 10 ranks, no castling or en passant fields.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/felicity-egtb/felicity/pkg/xiangqi"
)

const (
	Initial = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w 0 1"
)

// Decode returns a new position and game status from a FEN description.
func Decode(fen string) (*xiangqi.Position, xiangqi.Side, int, int, error) {
	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 4 {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of sections in FEN: '%v'", fen)
	}

	// (1) Piece placement, from black's perspective (rank 9 first) down to
	// red's back rank (rank 0), each rank left (file a) to right (file i).

	var pieces []xiangqi.Placement

	sq := xiangqi.ZeroSquare
	for _, r := range []rune(parts[0]) {
		switch {
		case r == '/':
			// Cosmetic rank separator.

		case unicode.IsDigit(r):
			sq += xiangqi.Square(r - '0')

		case unicode.IsLetter(r):
			side, piece, ok := parsePiece(r)
			if !ok {
				return nil, 0, 0, 0, fmt.Errorf("invalid piece '%v' in FEN: '%v'", r, fen)
			}
			pieces = append(pieces, xiangqi.Placement{Square: sq, Side: side, Piece: piece})
			sq++

		default:
			return nil, 0, 0, 0, fmt.Errorf("invalid character in FEN: '%v'", fen)
		}
	}
	if sq != xiangqi.NumSquares {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of squares in FEN: '%v'", fen)
	}

	// (2) Active side. "w" (red moves next, following the original source's
	// Side::white label for red) or "b" (black).

	active, ok := parseSide(parts[1])
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("invalid active side in FEN: '%v'", fen)
	}

	// (3) Halfmove clock since the last capture.

	np, err := strconv.Atoi(parts[2])
	if err != nil || np < 0 {
		return nil, 0, 0, 0, fmt.Errorf("invalid halfmove in FEN: '%v'", fen)
	}

	// (4) Fullmove number.

	fm, err := strconv.Atoi(parts[3])
	if err != nil || fm < 0 {
		return nil, 0, 0, 0, fmt.Errorf("invalid full moves in FEN: '%v'", fen)
	}

	pos, err := xiangqi.NewPosition(pieces)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("invalid position in FEN: '%v': %w", fen, err)
	}
	return pos, active, np, fm, nil
}

// Encode encodes the position and game data in FEN notation.
func Encode(pos *xiangqi.Position, side xiangqi.Side, noprogress, fullmoves int) string {
	var sb strings.Builder
	for r := int(xiangqi.NumRanks) - 1; r >= 0; r-- {
		blanks := 0
		for f := 0; f < int(xiangqi.NumFiles); f++ {
			s, piece, ok := pos.Square(xiangqi.NewSquare(xiangqi.File(f), xiangqi.Rank(r)))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(s, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > 0 {
			sb.WriteString("/")
		}
	}

	return fmt.Sprintf("%v %v %v %v", sb.String(), printSide(side), noprogress, fullmoves)
}

func parseSide(str string) (xiangqi.Side, bool) {
	switch str {
	case "w", "W":
		return xiangqi.Red, true
	case "b", "B":
		return xiangqi.Black, true
	default:
		return 0, false
	}
}

func printSide(s xiangqi.Side) string {
	if s == xiangqi.Red {
		return "w"
	}
	return "b"
}

func parsePiece(r rune) (xiangqi.Side, xiangqi.Piece, bool) {
	side := xiangqi.Black
	if unicode.IsUpper(r) {
		side = xiangqi.Red
	}
	piece, ok := xiangqi.ParsePiece(unicode.ToLower(r))
	return side, piece, ok
}

func printPiece(s xiangqi.Side, p xiangqi.Piece) rune {
	str := p.String()
	if s == xiangqi.Red {
		str = strings.ToUpper(str)
	}
	return []rune(str)[0]
}

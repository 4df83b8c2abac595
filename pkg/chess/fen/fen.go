// Package fen contains utilities for read and writing positions in FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/felicity-egtb/felicity/pkg/chess"
)

const (
	Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Decode returns a new position and game status from a FEN description.
//
// Example:
//   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string) (*chess.Position, chess.Color, int, int, error) {
	// A FEN record contains six fields. The separator between fields is a
	// space. The fields are:

	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 6 {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of sections in FEN: '%v'", fen)
	}

	// (1) Piece placement (from white's perspective). Each rank is described,
	// starting with rank 8 and ending with rank 1; within each rank, the
	// contents of each square are described from file a through file h.

	var pieces []chess.Placement

	sq := chess.A8
	for _, r := range []rune(parts[0]) {
		switch {
		case r == '/':
			// "/" separate ranks. Cosmetic.

		case unicode.IsDigit(r):
			// Blank squares are noted using digits 1 through 8 (the number of blank squares).

			sq -= chess.Square(r - '0')

		case unicode.IsLetter(r):
			// Following the Standard Algebraic Notation (SAN), each piece is -
			// identified by a single letter taken from the standard English names -
			// (pawn = "P", knight = "N", bishop = "B", rook = "R", queen = "Q" and -
			// king = "K")[1]. White pieces are designated using upper-case letters -
			// ("PNBRQK") while Black take lowercase ("pnbrqk").

			color, piece, ok := parsePiece(r)
			if !ok {
				return nil, 0, 0, 0, fmt.Errorf("invalid piece '%v' in FEN: '%v'", r, fen)
			}
			pieces = append(pieces, chess.Placement{Square: sq, Color: color, Piece: piece})
			sq--

		default:
			return nil, 0, 0, 0, fmt.Errorf("invalid character in FEN: '%v'", fen)
		}
	}
	if sq+1 != chess.H1 {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of squares in FEN: '%v'", fen)
	}

	// (2) Active color. "w" means white moves next, "b" means black.

	active, ok := parseColor(parts[1])
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("invalid active color in FEN: '%v'", fen)
	}

	// (3) Castling availability. If neither side can castle, this is
	// "-". Otherwise, this has one or more letters: "K" (White can castle
	// kingside), "Q" (White can castle queenside), "k" (Black can castle
	// kingside), and/or "q" (Black can castle queenside).

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("invalid castling in FEN: '%v'", fen)
	}

	// (4) En passant target square in algebraic notation. If there's no en
	// passant target square, this is "-". If a pawn has just made a
	// 2-square move, this is the position "behind" the pawn.

	var ep chess.Square
	if parts[3] != "-" {
		sq, err := chess.ParseSquareStr(parts[3])
		if err != nil {
			return nil, 0, 0, 0, fmt.Errorf("invalid en passant in FEN: '%v'", fen)
		}
		ep = sq
	}

	// (5) Halfmove clock: This is the number of halfmoves since the last pawn
	// advance or capture. This is used to determine if a draw can be
	// claimed under the fifty move rule.

	np, err := strconv.Atoi(parts[4])
	if err != nil || np < 0 {
		return nil, 0, 0, 0, fmt.Errorf("invalid halfmove in FEN: '%v'", fen)
	}

	// (6) Fullmove number: The number of the full move. It starts at 1, and is
	// incremented after Black's move.

	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 0 {
		return nil, 0, 0, 0, fmt.Errorf("invalid full moves in FEN: '%v'", fen)
	}

	pos, err := chess.NewPosition(pieces, castling, ep)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("invalid position in FEN: '%v': %v", fen, err)
	}
	wk, bk := pos.Piece(chess.White, chess.King), pos.Piece(chess.Black, chess.King)
	if wk.PopCount() != 1 || bk.PopCount() != 1 {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of kings in FEN: '%v'", fen)
	}
	if chess.KingAttackboard(wk.LastPopSquare())&bk != 0 {
		return nil, 0, 0, 0, fmt.Errorf("kings cannot be adjacent in FEN: '%v'", fen)
	}
	return pos, active, np, fm, nil
}

// Encode encodes the position and game data in FEN notation.
func Encode(pos *chess.Position, c chess.Color, noprogress, fullmoves int) string {
	var sb strings.Builder
	for r := chess.ZeroRank; r < chess.NumRanks; r++ {
		blanks := 0
		for f := chess.ZeroFile; f < chess.NumFiles; f++ {
			color, piece, ok := pos.Square(chess.NewSquare(chess.NumFiles-f-1, chess.NumRanks-r-1))
			if !ok {
				blanks++
				continue
			}

			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}

			sb.WriteRune(printPiece(color, piece))
		}

		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
			blanks = 0
		}

		if r < chess.NumRanks-1 {
			sb.WriteString("/")
		}
	}

	turn := printColor(c)
	castling := printCastling(pos.Castling())

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, castling, ep, noprogress, fullmoves)
}

func parseCastling(str string) (chess.Castling, bool) {
	var ret chess.Castling

	if str == "-" {
		return ret, true
	}
	for _, r := range []rune(str) {
		switch r {
		case 'K':
			ret |= chess.WhiteKingSideCastle
		case 'Q':
			ret |= chess.WhiteQueenSideCastle
		case 'k':
			ret |= chess.BlackKingSideCastle
		case 'q':
			ret |= chess.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c chess.Castling) string {
	if c == 0 {
		return "-"
	}

	ret := ""
	if c.IsAllowed(chess.WhiteKingSideCastle) {
		ret += "K"
	}
	if c.IsAllowed(chess.WhiteQueenSideCastle) {
		ret += "Q"
	}
	if c.IsAllowed(chess.BlackKingSideCastle) {
		ret += "k"
	}
	if c.IsAllowed(chess.BlackQueenSideCastle) {
		ret += "q"
	}
	return ret
}

func parseColor(str string) (chess.Color, bool) {
	switch str {
	case "w", "W":
		return chess.White, true
	case "b", "B":
		return chess.Black, true
	default:
		return 0, false
	}
}

func printColor(c chess.Color) string {
	if c == chess.White {
		return "w"
	}
	return "b"
}

func parsePiece(r rune) (chess.Color, chess.Piece, bool) {
	switch r {
	case 'P':
		return chess.White, chess.Pawn, true
	case 'B':
		return chess.White, chess.Bishop, true
	case 'N':
		return chess.White, chess.Knight, true
	case 'R':
		return chess.White, chess.Rook, true
	case 'Q':
		return chess.White, chess.Queen, true
	case 'K':
		return chess.White, chess.King, true

	case 'p':
		return chess.Black, chess.Pawn, true
	case 'b':
		return chess.Black, chess.Bishop, true
	case 'n':
		return chess.Black, chess.Knight, true
	case 'r':
		return chess.Black, chess.Rook, true
	case 'q':
		return chess.Black, chess.Queen, true
	case 'k':
		return chess.Black, chess.King, true

	default:
		return 0, 0, false
	}
}

func printPiece(c chess.Color, p chess.Piece) rune {
	if c == chess.White {
		switch p {
		case chess.Pawn:
			return 'P'
		case chess.Bishop:
			return 'B'
		case chess.Knight:
			return 'N'
		case chess.Rook:
			return 'R'
		case chess.Queen:
			return 'Q'
		case chess.King:
			return 'K'
		default:
			return '?'
		}
	}

	switch p {
	case chess.Pawn:
		return 'p'
	case chess.Bishop:
		return 'b'
	case chess.Knight:
		return 'n'
	case chess.Rook:
		return 'r'
	case chess.Queen:
		return 'q'
	case chess.King:
		return 'k'
	default:
		return '?'
	}
}

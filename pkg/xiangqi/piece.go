package xiangqi

// Piece represents a xiangqi piece kind, colorless. 3 bits.
type Piece uint8

const (
	NoPiece Piece = iota
	King
	Advisor
	Elephant
	Horse
	Cannon
	Rook
	Pawn
)

const (
	ZeroPiece Piece = King
	NumPieces Piece = Pawn + 1
)

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'k', 'K':
		return King, true
	case 'a', 'A':
		return Advisor, true
	case 'b', 'B', 'e', 'E':
		return Elephant, true
	case 'n', 'N', 'h', 'H':
		return Horse, true
	case 'c', 'C':
		return Cannon, true
	case 'r', 'R':
		return Rook, true
	case 'p', 'P':
		return Pawn, true
	default:
		return NoPiece, false
	}
}

func (p Piece) IsValid() bool {
	return King <= p && p <= Pawn
}

// String renders the piece using the "b/n" (bishop/elephant, knight/horse)
// ASCII letters common to Western transliterations of xiangqi FEN.
func (p Piece) String() string {
	switch p {
	case NoPiece:
		return " "
	case King:
		return "k"
	case Advisor:
		return "a"
	case Elephant:
		return "b"
	case Horse:
		return "n"
	case Cannon:
		return "c"
	case Rook:
		return "r"
	case Pawn:
		return "p"
	default:
		return "?"
	}
}

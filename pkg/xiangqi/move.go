package xiangqi

import "fmt"

// MoveType indicates the type of move. Xiangqi has no promotion and no
// castling; a move is either quiet or a capture.
type MoveType uint8

const (
	Normal MoveType = iota
	Capture
)

// Move represents a not-necessarily legal move along with contextual metadata.
type Move struct {
	Type     MoveType
	From, To Square
	Capture  Piece // captured piece, if any
}

// IsCapture returns true iff the move captures a piece.
func (m Move) IsCapture() bool {
	return m.Type == Capture
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To
}

// ParseMove parses a move in pure coordinate notation, such as "a0a1". The
// parsed move carries no contextual information (capture, check).
func ParseMove(str string) (Move, error) {
	runes := []rune(str)
	if len(runes) != 4 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: '%v': %v", str, err)
	}
	return Move{From: from, To: to}, nil
}

func (m Move) String() string {
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// Package capability defines the game-agnostic board surface that the EGTB
// core (material naming, index codec, generator, perpetual classifier,
// probe) is built against. Board representation, move generation, check
// detection and FEN I/O are collaborator concerns: each game supplies its
// own concrete implementation (see pkg/chess and pkg/xiangqi) and the core
// never type-switches on the variant.
package capability

import "fmt"

// Variant identifies the game a Board implementation plays.
type Variant uint8

const (
	Chess Variant = iota
	Xiangqi
)

func (v Variant) String() string {
	switch v {
	case Chess:
		return "chess"
	case Xiangqi:
		return "xiangqi"
	default:
		return "?"
	}
}

// Side is the playing side. Kept distinct from a game's own Color/Side type
// so the core never needs to know which game it is looking at.
type Side int8

const (
	SideNone Side = iota
	SideA         // strong/first side, e.g. White or Red
	SideB         // weak/second side, e.g. Black
)

func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "-"
	}
}

// Square is a 0-based cell index: 0..63 for chess, 0..89 for xiangqi.
type Square int32

const NoSquare Square = -1

// Kind is a game-specific piece kind. Zero is always "no piece" (empty).
type Kind int8

const NoKind Kind = 0

// Piece is a (Kind, Side) pair. The empty piece is (NoKind, SideNone).
type Piece struct {
	Kind Kind
	Side Side
}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	return fmt.Sprintf("%v%v", p.Side, p.Kind)
}

// MoveFlag classifies a Move beyond its from/to squares.
type MoveFlag uint8

const (
	Normal MoveFlag = iota
	Capture
	DoublePush // chess: pawn two-square jump
	EnPassant
	CastleKingSide
	CastleQueenSide
	Promotion
	CapturePromotion
)

// Move is a not-necessarily-legal move with contextual metadata, shared
// across both games.
type Move struct {
	From, To  Square
	Promotion Kind // desired piece on promotion, if any
	Capture   Kind // captured piece kind, if any
	Flag      MoveFlag
}

func (m Move) IsCapture() bool {
	return m.Flag == Capture || m.Flag == CapturePromotion || m.Flag == EnPassant
}

func (m Move) IsPromotion() bool {
	return m.Flag == Promotion || m.Flag == CapturePromotion
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// FlipMode is a board symmetry transform the index codec may request to
// bring a position into its canonical orbit (§4.C).
type FlipMode uint8

const (
	FlipNone FlipMode = iota
	FlipHorizontal
	FlipVertical
	FlipRotate180
	FlipVH // chess only: diagonal flip a1-h8
	FlipHV // chess only: diagonal flip a8-h1
	FlipRotate90
	FlipRotate270
)

// HistEntry is opaque to the core: enough information for the owning Board
// to unmake exactly one move. Never escapes the Board that produced it.
type HistEntry interface{}

// Board is the capability surface the EGTB core programs against. Chess and
// Xiangqi each supply one concrete implementation. Implementations are not
// required to be safe for concurrent use; the generator gives each worker
// its own Board (see generator.Config.Workers).
type Board interface {
	Variant() Variant

	// NewGame resets the board from the starting position (fen == "") or
	// parses fen. Returns InvalidFen on syntax or semantic error.
	NewGame(fen string) error

	NumSquares() int
	Turn() Side
	SetTurn(s Side)

	PieceAt(sq Square) Piece
	SetPiece(sq Square, p Piece) // only used by FEN load and retrograde reconstruction

	LegalMoves(side Side) []Move
	Make(m Move) HistEntry
	Unmake(h HistEntry)

	InCheck(side Side) bool
	FindKing(side Side) Square

	// HasAttackers is true iff any non-king piece remains for either side.
	// Xiangqi treats advisors and elephants as non-attackers.
	HasAttackers() bool
	// PieceListIsDraw is true iff there are no attackers on either side and
	// the remaining material is theoretically drawn.
	PieceListIsDraw() bool

	// LegalPosition reports whether the current placement is legal: valid
	// piece counts, valid pawn ranks, at most one check, the side not to
	// move not in check, and (xiangqi) kings not facing each other.
	LegalPosition() bool

	Flip(mode FlipMode)

	// Clone returns an independent copy for scratch use (e.g. one per
	// generator worker, or one per chase-classifier recursion).
	Clone() Board

	String() string
}

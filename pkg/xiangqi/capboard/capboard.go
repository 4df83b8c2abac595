// Package capboard adapts pkg/xiangqi to the capability.Board interface the
// EGTB core (index codec, generator, probe) programs against.
package capboard

import (
	"fmt"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/ferr"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/xiangqi"
	"github.com/felicity-egtb/felicity/pkg/xiangqi/fen"
)

func kindOf(p xiangqi.Piece) capability.Kind {
	switch p {
	case xiangqi.King:
		return material.XqKing
	case xiangqi.Rook:
		return material.XqRook
	case xiangqi.Cannon:
		return material.XqCannon
	case xiangqi.Horse:
		return material.XqHorse
	case xiangqi.Pawn:
		return material.XqPawn
	case xiangqi.Advisor:
		return material.XqAdvisor
	case xiangqi.Elephant:
		return material.XqElephant
	default:
		return capability.NoKind
	}
}

func pieceOf(k capability.Kind) xiangqi.Piece {
	switch k {
	case material.XqKing:
		return xiangqi.King
	case material.XqRook:
		return xiangqi.Rook
	case material.XqCannon:
		return xiangqi.Cannon
	case material.XqHorse:
		return xiangqi.Horse
	case material.XqPawn:
		return xiangqi.Pawn
	case material.XqAdvisor:
		return xiangqi.Advisor
	case material.XqElephant:
		return xiangqi.Elephant
	default:
		return xiangqi.NoPiece
	}
}

func sideOf(s xiangqi.Side) capability.Side {
	if s == xiangqi.Red {
		return capability.SideA
	}
	return capability.SideB
}

func xqSideOf(s capability.Side) xiangqi.Side {
	if s == capability.SideB {
		return xiangqi.Black
	}
	return xiangqi.Red
}

// PieceKind converts a capability.Kind produced by this package's Board
// back to the native xiangqi.Piece it represents, for callers outside this
// package that need to reason about board contents in native terms (e.g.
// the chase classifier's retrograde integration, which needs xiangqi.Piece
// values to build chase.ChaseEvent).
func PieceKind(k capability.Kind) xiangqi.Piece {
	return pieceOf(k)
}

// NativeSide converts a capability.Side to the xiangqi.Side it represents.
func NativeSide(s capability.Side) xiangqi.Side {
	return xqSideOf(s)
}

func moveOf(m xiangqi.Move) capability.Move {
	flag := capability.Normal
	if m.Type == xiangqi.Capture {
		flag = capability.Capture
	}
	return capability.Move{
		From:    capability.Square(m.From),
		To:      capability.Square(m.To),
		Capture: kindOf(m.Capture),
		Flag:    flag,
	}
}

func xqMoveOf(m capability.Move) xiangqi.Move {
	t := xiangqi.Normal
	if m.Flag == capability.Capture {
		t = xiangqi.Capture
	}
	return xiangqi.Move{Type: t, From: xiangqi.Square(m.From), To: xiangqi.Square(m.To), Capture: pieceOf(m.Capture)}
}

type histEntry struct {
	pos  *xiangqi.Position
	turn xiangqi.Side
}

// Board adapts pkg/xiangqi.Position to capability.Board. Not safe for
// concurrent use; the generator gives each worker its own instance.
type Board struct {
	pos  *xiangqi.Position
	turn xiangqi.Side
}

// New returns a Board positioned at the standard starting array.
func New() *Board {
	b := &Board{}
	_ = b.NewGame("")
	return b
}

func (b *Board) Variant() capability.Variant { return capability.Xiangqi }

func (b *Board) NewGame(fenStr string) error {
	if fenStr == "" {
		fenStr = fen.Initial
	}
	pos, turn, _, _, err := fen.Decode(fenStr)
	if err != nil {
		return ferr.Wrap(ferr.InvalidFen, err, "capboard: %q", fenStr)
	}
	b.pos = pos
	b.turn = turn
	return nil
}

// ResetEmpty clears the board to no pieces, red to move. Used by retrograde
// reconstruction, which places pieces one at a time via SetPiece.
func (b *Board) ResetEmpty() {
	b.pos = xiangqi.NewEmptyPosition()
	b.turn = xiangqi.Red
}

func (b *Board) NumSquares() int { return int(xiangqi.NumSquares) }

func (b *Board) Turn() capability.Side     { return sideOf(b.turn) }
func (b *Board) SetTurn(s capability.Side) { b.turn = xqSideOf(s) }

func (b *Board) PieceAt(sq capability.Square) capability.Piece {
	s, p, ok := b.pos.Square(xiangqi.Square(sq))
	if !ok {
		return capability.Piece{}
	}
	return capability.Piece{Kind: kindOf(p), Side: sideOf(s)}
}

func (b *Board) SetPiece(sq capability.Square, p capability.Piece) {
	if p.IsEmpty() {
		b.pos.SetSquare(xiangqi.Square(sq), xiangqi.Red, xiangqi.NoPiece)
		return
	}
	b.pos.SetSquare(xiangqi.Square(sq), xqSideOf(p.Side), pieceOf(p.Kind))
}

func (b *Board) LegalMoves(side capability.Side) []capability.Move {
	moves := b.pos.LegalMoves(xqSideOf(side))
	out := make([]capability.Move, len(moves))
	for i, m := range moves {
		out[i] = moveOf(m)
	}
	return out
}

func (b *Board) Make(m capability.Move) capability.HistEntry {
	prior := histEntry{pos: b.pos, turn: b.turn}
	next, ok := b.pos.Move(xqMoveOf(m))
	if !ok {
		panic(fmt.Sprintf("capboard: illegal move %v in position %v", m, b.pos))
	}
	b.pos = next
	b.turn = b.turn.Opponent()
	return prior
}

func (b *Board) Unmake(h capability.HistEntry) {
	prior := h.(histEntry)
	b.pos = prior.pos
	b.turn = prior.turn
}

func (b *Board) InCheck(side capability.Side) bool {
	return b.pos.IsChecked(xqSideOf(side))
}

func (b *Board) FindKing(side capability.Side) capability.Square {
	return capability.Square(b.pos.King(xqSideOf(side)))
}

func (b *Board) HasAttackers() bool {
	return b.pos.HasAttackers()
}

// PieceListIsDraw reports bare kings (plus advisors/elephants, which cannot
// deliver mate): the xiangqi analogue of chess's insufficient material,
// except xiangqi has no stalemate draw to compose it with.
func (b *Board) PieceListIsDraw() bool {
	return !b.pos.HasAttackers()
}

func (b *Board) LegalPosition() bool {
	return !b.pos.IsChecked(b.turn.Opponent())
}

// Flip applies a pure geometric board-symmetry transform. It does not swap
// side colors; the index codec applies FlipVertical together with its own
// color relabel when the strong material sits on black. Only FlipHorizontal,
// FlipVertical and FlipRotate180 move pieces; the diagonal and quarter-turn
// modes leave every square unchanged.
func (b *Board) Flip(mode capability.FlipMode) {
	if mode == capability.FlipNone {
		return
	}
	type placement struct {
		sq capability.Square
		p  capability.Piece
	}
	var placements []placement
	for sq := xiangqi.ZeroSquare; sq < xiangqi.NumSquares; sq++ {
		if _, _, ok := b.pos.Square(sq); ok {
			placements = append(placements, placement{capability.Square(sq), b.PieceAt(capability.Square(sq))})
		}
	}
	for _, pl := range placements {
		b.SetPiece(pl.sq, capability.Piece{})
	}
	for _, pl := range placements {
		b.SetPiece(flipSquare(pl.sq, mode), pl.p)
	}
}

func flipSquare(sq capability.Square, mode capability.FlipMode) capability.Square {
	f, r := int(xiangqi.Square(sq).File()), int(xiangqi.Square(sq).Rank())
	switch mode {
	case capability.FlipHorizontal:
		f = 8 - f
	case capability.FlipVertical:
		r = 9 - r
	case capability.FlipRotate180:
		f, r = 8-f, 9-r
	}
	return capability.Square(xiangqi.NewSquare(xiangqi.File(f), xiangqi.Rank(r)))
}

func (b *Board) Clone() capability.Board {
	cp := *b.pos
	return &Board{pos: &cp, turn: b.turn}
}

func (b *Board) String() string {
	return fmt.Sprintf("%v %v to move", b.pos, b.turn)
}

package xiangqi_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/xiangqi"
	"github.com/felicity-egtb/felicity/pkg/xiangqi/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialPositionLegalMoveCount(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	require.Equal(t, xiangqi.Red, turn)

	moves := pos.LegalMoves(turn)
	assert.Equal(t, 44, len(moves))
}

func TestCannonNeedsScreenToCapture(t *testing.T) {
	// Red cannon on e4, red rook as a screen on e6, black king on e9: the
	// cannon may capture over the rook but cannot land on the rook itself.
	pos, err := xiangqi.NewPosition([]xiangqi.Placement{
		{Square: xiangqi.NewSquare(xiangqi.FileE, 0), Side: xiangqi.Red, Piece: xiangqi.King},
		{Square: xiangqi.NewSquare(xiangqi.FileE, 4), Side: xiangqi.Red, Piece: xiangqi.Cannon},
		{Square: xiangqi.NewSquare(xiangqi.FileE, 6), Side: xiangqi.Red, Piece: xiangqi.Rook},
		{Square: xiangqi.NewSquare(xiangqi.FileE, 9), Side: xiangqi.Black, Piece: xiangqi.King},
	})
	require.NoError(t, err)

	moves := pos.PseudoLegalMoves(xiangqi.Red)

	var capturesKing, capturesRook bool
	for _, m := range moves {
		if m.From != xiangqi.NewSquare(xiangqi.FileE, 4) {
			continue
		}
		if m.To == xiangqi.NewSquare(xiangqi.FileE, 9) {
			capturesKing = true
		}
		if m.To == xiangqi.NewSquare(xiangqi.FileE, 6) {
			capturesRook = true
		}
	}
	assert.True(t, capturesKing, "cannon should be able to hop the rook and capture the king")
	assert.False(t, capturesRook, "cannon cannot land on its own screen")
}

func TestKingsCannotFaceEachOther(t *testing.T) {
	_, err := xiangqi.NewPosition([]xiangqi.Placement{
		{Square: xiangqi.NewSquare(xiangqi.FileE, 0), Side: xiangqi.Red, Piece: xiangqi.King},
		{Square: xiangqi.NewSquare(xiangqi.FileE, 9), Side: xiangqi.Black, Piece: xiangqi.King},
	})
	assert.Error(t, err)
}

func TestKingConfinedToPalace(t *testing.T) {
	pos, err := xiangqi.NewPosition([]xiangqi.Placement{
		{Square: xiangqi.NewSquare(xiangqi.FileD, 0), Side: xiangqi.Red, Piece: xiangqi.King},
		{Square: xiangqi.NewSquare(xiangqi.FileE, 9), Side: xiangqi.Black, Piece: xiangqi.King},
	})
	require.NoError(t, err)

	for _, m := range pos.PseudoLegalMoves(xiangqi.Red) {
		assert.True(t, m.To.File() >= xiangqi.FileD && m.To.File() <= xiangqi.FileF)
		assert.True(t, m.To.Rank() <= 2)
	}
}

func TestHorseLegBlock(t *testing.T) {
	pos, err := xiangqi.NewPosition([]xiangqi.Placement{
		{Square: xiangqi.NewSquare(xiangqi.FileE, 0), Side: xiangqi.Red, Piece: xiangqi.King},
		{Square: xiangqi.NewSquare(xiangqi.FileE, 9), Side: xiangqi.Black, Piece: xiangqi.King},
		{Square: xiangqi.NewSquare(xiangqi.FileE, 4), Side: xiangqi.Red, Piece: xiangqi.Horse},
		{Square: xiangqi.NewSquare(xiangqi.FileE, 5), Side: xiangqi.Red, Piece: xiangqi.Pawn}, // blocks the leg going north
	})
	require.NoError(t, err)

	from := xiangqi.NewSquare(xiangqi.FileE, 4)
	blocked := xiangqi.NewSquare(xiangqi.FileD, 6)
	for _, m := range pos.PseudoLegalMoves(xiangqi.Red) {
		if m.From == from {
			assert.NotEqual(t, blocked, m.To, "leg is blocked so the horse cannot jump north")
		}
	}
}

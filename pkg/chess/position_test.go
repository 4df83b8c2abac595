package chess_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/felicity-egtb/felicity/pkg/chess"
	"github.com/felicity-egtb/felicity/pkg/chess/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPseudoLegalMoves(t *testing.T) {

	t.Run("pawns", func(t *testing.T) {
		tests := []struct {
			turn      chess.Color
			pieces    []chess.Placement
			enpassant chess.Square
			expected  []chess.Move
		}{
			{ // Empty board
				chess.White,
				nil,
				chess.ZeroSquare,
				nil,
			},
			{ // Pawn @ E2,G5
				chess.White,
				[]chess.Placement{
					{chess.E2, chess.White, chess.Pawn},
					{chess.G5, chess.White, chess.Pawn},
				},
				chess.ZeroSquare,
				[]chess.Move{
					{Type: chess.Push, From: chess.E2, To: chess.E3},
					{Type: chess.Jump, From: chess.E2, To: chess.E4},
					{Type: chess.Push, From: chess.G5, To: chess.G6},
				},
			},
			{ // Pawn @ D7 -- promotions
				chess.White,
				[]chess.Placement{
					{chess.D7, chess.White, chess.Pawn},
				},
				chess.ZeroSquare,
				[]chess.Move{
					{Type: chess.Promotion, From: chess.D7, To: chess.D8, Promotion: chess.Queen},
					{Type: chess.Promotion, From: chess.D7, To: chess.D8, Promotion: chess.Rook},
					{Type: chess.Promotion, From: chess.D7, To: chess.D8, Promotion: chess.Bishop},
					{Type: chess.Promotion, From: chess.D7, To: chess.D8, Promotion: chess.Knight},
				},
			},
			{ // Pawn @ C4,E4,F4 -- en passant against D4
				chess.Black,
				[]chess.Placement{
					{chess.C4, chess.Black, chess.Pawn},
					{chess.D4, chess.White, chess.Pawn},
					{chess.E4, chess.Black, chess.Pawn},
					{chess.F4, chess.Black, chess.Pawn},
				},
				chess.D3,
				[]chess.Move{
					{Type: chess.Push, From: chess.F4, To: chess.F3},
					{Type: chess.Push, From: chess.E4, To: chess.E3},
					{Type: chess.EnPassant, From: chess.E4, To: chess.D3, Capture: chess.Pawn},
					{Type: chess.Push, From: chess.C4, To: chess.C3},
					{Type: chess.EnPassant, From: chess.C4, To: chess.D3, Capture: chess.Pawn},
				},
			},
		}

		for _, tt := range tests {
			pos, err := chess.NewPosition(tt.pieces, 0, tt.enpassant)
			require.NoError(t, err)

			actual := pos.PseudoLegalMoves(tt.turn)
			assertSameMoves(t, tt.expected, actual)
		}
	})

	t.Run("officers", func(t *testing.T) {
		tests := []struct {
			pieces   []chess.Placement
			expected []chess.Move
		}{
			{ // King @ A3, cornered
				[]chess.Placement{
					{chess.A3, chess.White, chess.King},
					{chess.B3, chess.Black, chess.Rook},
					{chess.A2, chess.Black, chess.Bishop},
				},
				[]chess.Move{
					{Type: chess.Normal, From: chess.A3, To: chess.B2},
					{Type: chess.Normal, From: chess.A3, To: chess.B4},
					{Type: chess.Normal, From: chess.A3, To: chess.A4},
					{Type: chess.Capture, From: chess.A3, To: chess.A2, Capture: chess.Bishop},
					{Type: chess.Capture, From: chess.A3, To: chess.B3, Capture: chess.Rook},
				},
			},
			{ // Knight @ A3
				[]chess.Placement{
					{chess.A3, chess.White, chess.Knight},
					{chess.B1, chess.Black, chess.Rook},
					{chess.B2, chess.Black, chess.Bishop},
					{chess.C2, chess.Black, chess.Queen},
				},
				[]chess.Move{
					{Type: chess.Normal, From: chess.A3, To: chess.C4},
					{Type: chess.Normal, From: chess.A3, To: chess.B5},
					{Type: chess.Capture, From: chess.A3, To: chess.B1, Capture: chess.Rook},
					{Type: chess.Capture, From: chess.A3, To: chess.C2, Capture: chess.Queen},
				},
			},
		}

		for _, tt := range tests {
			pos, err := chess.NewPosition(tt.pieces, 0, 0)
			require.NoError(t, err)

			actual := pos.PseudoLegalMoves(chess.White)
			assertSameMoves(t, tt.expected, actual)
		}
	})

	t.Run("castling", func(t *testing.T) {
		tests := []struct {
			turn     chess.Color
			pieces   []chess.Placement
			castling chess.Castling
			expected []chess.Move
		}{
			{ // No rights
				chess.White,
				[]chess.Placement{
					{chess.E1, chess.White, chess.King},
					{chess.H1, chess.White, chess.Rook},
					{chess.A1, chess.White, chess.Rook},
				},
				0,
				nil,
			},
			{ // Full rights.
				chess.White,
				[]chess.Placement{
					{chess.E1, chess.White, chess.King},
					{chess.H1, chess.White, chess.Rook},
					{chess.A1, chess.White, chess.Rook},
				},
				chess.FullCastingRights,
				[]chess.Move{
					{Type: chess.KingSideCastle, From: chess.E1, To: chess.G1},
					{Type: chess.QueenSideCastle, From: chess.E1, To: chess.C1},
				},
			},
			{ // Obstructed king-side.
				chess.Black,
				[]chess.Placement{
					{chess.E8, chess.Black, chess.King},
					{chess.H8, chess.Black, chess.Rook},
					{chess.G8, chess.White, chess.Bishop},
					{chess.A8, chess.Black, chess.Rook},
				},
				chess.FullCastingRights,
				[]chess.Move{
					{Type: chess.QueenSideCastle, From: chess.E8, To: chess.C8},
				},
			},
		}

		for _, tt := range tests {
			pos, err := chess.NewPosition(tt.pieces, tt.castling, 0)
			require.NoError(t, err)

			actual := filterMoves(pos.PseudoLegalMoves(tt.turn), func(m chess.Move) bool {
				return m.Type == chess.KingSideCastle || m.Type == chess.QueenSideCastle
			})
			assertSameMoves(t, tt.expected, actual)
		}
	})
}

func TestMoveRejectsSelfCheck(t *testing.T) {
	// White king on e1 is in check from a black rook on e8 with nothing blocking the
	// file: stepping off the e-file escapes, staying on it is rejected.
	pos, err := chess.NewPosition([]chess.Placement{
		{chess.E1, chess.White, chess.King},
		{chess.E8, chess.Black, chess.Rook},
		{chess.A1, chess.Black, chess.King},
	}, 0, 0)
	require.NoError(t, err)

	_, ok := pos.Move(chess.Move{Type: chess.Normal, From: chess.E1, To: chess.D1})
	assert.True(t, ok, "sideways off the file is legal")

	for _, to := range []chess.Square{chess.D2, chess.F2} {
		_, ok := pos.Move(chess.Move{Type: chess.Normal, From: chess.E1, To: to})
		assert.True(t, ok)
	}

	_, ok = pos.Move(chess.Move{Type: chess.Normal, From: chess.E1, To: chess.E2})
	assert.False(t, ok, "staying on the e-file leaves the king in check")
}

func TestPerft1InitialPosition(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	moves := pos.LegalMoves(turn)
	assert.Equal(t, 20, len(moves))
}

func TestPerft2InitialPosition(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	var nodes int
	for _, m := range pos.LegalMoves(turn) {
		next, ok := pos.Move(m)
		require.True(t, ok)
		nodes += len(next.LegalMoves(turn.Opponent()))
	}
	assert.Equal(t, 400, nodes)
}

func filterMoves(ms []chess.Move, fn func(m chess.Move) bool) []chess.Move {
	var list []chess.Move
	for _, m := range ms {
		if fn(m) {
			list = append(list, m)
		}
	}
	return list
}

func printMoves(ms []chess.Move) []string {
	var list []string
	for _, m := range ms {
		list = append(list, m.String()+"/"+movesKey(m))
	}
	sort.Strings(list)
	return list
}

func movesKey(m chess.Move) string {
	return strings.Join([]string{fmt.Sprint(m.Type), m.Capture.String(), m.Promotion.String()}, ",")
}

func assertSameMoves(t *testing.T, expected, actual []chess.Move) {
	t.Helper()
	assert.Equal(t, printMoves(expected), printMoves(actual))
}

package chess_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/chess"
	"github.com/stretchr/testify/assert"
)

func TestBitboard(t *testing.T) {

	t.Run("popcount", func(t *testing.T) {
		tests := []struct {
			bb       chess.Bitboard
			expected int
		}{
			{chess.EmptyBitboard, 0},
			{chess.BitMask(chess.G4), 1},
			{chess.BitMask(chess.G3) | chess.BitMask(chess.G4), 2},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.bb.PopCount(), tt.expected)
		}
	})

	t.Run("string", func(t *testing.T) {
		tests := []struct {
			bb       chess.Bitboard
			expected string
		}{
			{chess.EmptyBitboard, "--------/--------/--------/--------/--------/--------/--------/--------"},
			{chess.BitMask(chess.H1), "--------/--------/--------/--------/--------/--------/--------/-------X"},
			{chess.BitMask(chess.G3) | chess.BitMask(chess.G4), "--------/--------/--------/--------/------X-/------X-/--------/--------"},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.bb.String(), tt.expected)
		}
	})

	t.Run("king", func(t *testing.T) {
		tests := []struct {
			sq       chess.Square
			expected string
		}{
			{chess.H1, "--------/--------/--------/--------/--------/--------/------XX/------X-"},
			{chess.D1, "--------/--------/--------/--------/--------/--------/--XXX---/--X-X---"},
			{chess.D3, "--------/--------/--------/--------/--XXX---/--X-X---/--XXX---/--------"},
			{chess.A3, "--------/--------/--------/--------/XX------/-X------/XX------/--------"},
			{chess.B7, "XXX-----/X-X-----/XXX-----/--------/--------/--------/--------/--------"},
			{chess.A8, "-X------/XX------/--------/--------/--------/--------/--------/--------"},
			{chess.H8, "------X-/------XX/--------/--------/--------/--------/--------/--------"},
		}

		for _, tt := range tests {
			assert.Equal(t, chess.KingAttackboard(tt.sq).String(), tt.expected)
		}
	})

	t.Run("knight", func(t *testing.T) {
		tests := []struct {
			sq       chess.Square
			expected string
		}{
			{chess.H1, "--------/--------/--------/--------/--------/------X-/-----X--/--------"},
			{chess.D1, "--------/--------/--------/--------/--------/--X-X---/-X---X--/--------"},
			{chess.D3, "--------/--------/--------/--X-X---/-X---X--/--------/-X---X--/--X-X---"},
			{chess.A3, "--------/--------/--------/-X------/--X-----/--------/--X-----/-X------"},
			{chess.B7, "---X----/--------/---X----/X-X-----/--------/--------/--------/--------"},
			{chess.A8, "--------/--X-----/-X------/--------/--------/--------/--------/--------"},
			{chess.H8, "--------/-----X--/------X-/--------/--------/--------/--------/--------"},
		}

		for _, tt := range tests {
			assert.Equal(t, chess.KnightAttackboard(tt.sq).String(), tt.expected)
		}
	})

	t.Run("rook", func(t *testing.T) {
		tests := []struct {
			bb       chess.Bitboard
			sq       chess.Square
			expected string
		}{
			{chess.EmptyBitboard, chess.H1, "-------X/-------X/-------X/-------X/-------X/-------X/-------X/XXXXXXX-"},
			{chess.EmptyBitboard, chess.D3, "---X----/---X----/---X----/---X----/---X----/XXX-XXXX/---X----/---X----"},
			{chess.EmptyBitboard, chess.A6, "X-------/X-------/-XXXXXXX/X-------/X-------/X-------/X-------/X-------"},

			{chess.BitMask(chess.H2), chess.H1, "--------/--------/--------/--------/--------/--------/-------X/XXXXXXX-"},
			{chess.BitRank(chess.Rank2), chess.H1, "--------/--------/--------/--------/--------/--------/-------X/XXXXXXX-"},
			{chess.BitMask(chess.H2) | chess.BitMask(chess.D1), chess.H1, "--------/--------/--------/--------/--------/--------/-------X/---XXXX-"},
			{chess.BitMask(chess.B4) | chess.BitMask(chess.G4), chess.E4, "----X---/----X---/----X---/----X---/-XXX-XX-/----X---/----X---/----X---"},
			{chess.BitMask(chess.E2) | chess.BitMask(chess.E7), chess.E4, "--------/----X---/----X---/----X---/XXXX-XXX/----X---/----X---/--------"},
		}

		for _, tt := range tests {
			assert.Equal(t, chess.RookAttackboard(chess.NewRotatedBitboard(tt.bb), tt.sq).String(), tt.expected)
		}
	})

}

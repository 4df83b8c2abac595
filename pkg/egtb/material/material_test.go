package material_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameCanonicalOrderChess(t *testing.T) {
	sig := material.Of(capability.Chess,
		[]capability.Kind{material.ChessKing, material.ChessRook},
		[]capability.Kind{material.ChessKing, material.ChessQueen},
	)
	// Queen outweighs rook, so the queen side is named first.
	assert.Equal(t, "kqkr", sig.Name())
}

func TestNameCanonicalOrderWithinSide(t *testing.T) {
	// Pawn listed before rook in the input must still print rook before pawn.
	sig := material.Of(capability.Chess,
		[]capability.Kind{material.ChessKing, material.ChessPawn, material.ChessRook},
		[]capability.Kind{material.ChessKing},
	)
	assert.Equal(t, "krpk", sig.Name())
}

func TestNameXiangqi(t *testing.T) {
	sig := material.Of(capability.Xiangqi,
		[]capability.Kind{material.XqKing, material.XqRook},
		[]capability.Kind{material.XqKing, material.XqAdvisor, material.XqAdvisor},
	)
	assert.Equal(t, "krkaa", sig.Name())
}

func TestHashStableUnderInputOrder(t *testing.T) {
	a := material.Of(capability.Chess,
		[]capability.Kind{material.ChessKing, material.ChessRook, material.ChessPawn},
		[]capability.Kind{material.ChessKing},
	)
	b := material.Of(capability.Chess,
		[]capability.Kind{material.ChessKing, material.ChessPawn, material.ChessRook},
		[]capability.Kind{material.ChessKing},
	)
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, a.Name(), b.Name())
}

func TestHashDistinguishesSidesAndVariant(t *testing.T) {
	kr := material.Of(capability.Chess,
		[]capability.Kind{material.ChessKing, material.ChessRook},
		[]capability.Kind{material.ChessKing},
	)
	krXq := material.Of(capability.Xiangqi,
		[]capability.Kind{material.XqKing, material.XqRook},
		[]capability.Kind{material.XqKing},
	)
	assert.NotEqual(t, kr.Hash(), krXq.Hash())

	flipped := material.Of(capability.Chess,
		[]capability.Kind{material.ChessKing},
		[]capability.Kind{material.ChessKing, material.ChessRook},
	)
	// Same configuration regardless of which slice it's passed in as.
	assert.Equal(t, kr.Hash(), flipped.Hash())
	assert.Equal(t, kr.Name(), flipped.Name())
}

func TestParseRoundTripsWithName(t *testing.T) {
	for _, name := range []string{"kqkr", "krpkp", "kk", "kqqkr"} {
		sig, err := material.Parse(capability.Chess, name)
		require.NoError(t, err)
		assert.Equal(t, name, sig.Name())
	}
}

func TestParseXiangqi(t *testing.T) {
	sig, err := material.Parse(capability.Xiangqi, "krkaa")
	require.NoError(t, err)
	assert.Equal(t, "krkaa", sig.Name())
	assert.Equal(t, capability.Xiangqi, sig.Variant)
}

func TestParseRejectsMissingSecondKing(t *testing.T) {
	_, err := material.Parse(capability.Chess, "kqr")
	assert.Error(t, err)
}

func TestParseRejectsUnknownLetter(t *testing.T) {
	_, err := material.Parse(capability.Chess, "kzk")
	assert.Error(t, err)
}

func TestParseRejectsNameNotStartingWithKing(t *testing.T) {
	_, err := material.Parse(capability.Chess, "qkk")
	assert.Error(t, err)
}

package chess_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/chess"
	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	assert.True(t, chess.Rank1.IsValid())
	assert.True(t, chess.Rank3.IsValid())
	assert.True(t, chess.Rank8.IsValid())
	assert.False(t, chess.Rank(8).IsValid())

	assert.Equal(t, chess.Rank1.String(), "1")
	assert.Equal(t, chess.Rank7.String(), "7")
	assert.Equal(t, chess.Rank(4).String(), "5")
}

func TestFile(t *testing.T) {
	assert.True(t, chess.FileA.IsValid())
	assert.True(t, chess.FileB.IsValid())
	assert.True(t, chess.FileH.IsValid())
	assert.False(t, chess.File(8).IsValid())

	assert.Equal(t, chess.FileA.String(), "A")
	assert.Equal(t, chess.FileG.String(), "G")
	assert.Equal(t, chess.File(3).String(), "E")
}

func TestSquare(t *testing.T) {
	assert.Equal(t, chess.C2, chess.NewSquare(chess.FileC, chess.Rank2))
	assert.Equal(t, chess.G5, chess.NewSquare(chess.FileG, chess.Rank5))

	assert.True(t, chess.H1.IsValid())
	assert.True(t, chess.D4.IsValid())
	assert.True(t, chess.A8.IsValid())
	assert.False(t, chess.Square(64).IsValid())

	assert.Equal(t, chess.H1.String(), "H1")
	assert.Equal(t, chess.A1.String(), "A1")
	assert.Equal(t, chess.Square(3).String(), "E1")
}

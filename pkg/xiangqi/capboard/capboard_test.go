package capboard_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/xiangqi/capboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsStandardArray(t *testing.T) {
	b := capboard.New()
	assert.Equal(t, capability.Xiangqi, b.Variant())
	assert.Equal(t, capability.SideA, b.Turn())
	assert.NotEmpty(t, b.LegalMoves(b.Turn()))
}

func TestNewGameInvalidFen(t *testing.T) {
	b := capboard.New()
	assert.Error(t, b.NewGame("not a fen"))
}

func TestOfBoardMatchesKRK(t *testing.T) {
	b := capboard.New()
	require.NoError(t, b.NewGame("4k4/9/9/9/9/9/9/9/9/R2K5 w 0 1"))

	sig := material.OfBoard(b)
	assert.Equal(t, "krk", sig.Name())
}

func TestMakeUnmakeRestoresPosition(t *testing.T) {
	b := capboard.New()
	before := b.String()

	moves := b.LegalMoves(b.Turn())
	require.NotEmpty(t, moves)
	h := b.Make(moves[0])
	assert.NotEqual(t, before, b.String())

	b.Unmake(h)
	assert.Equal(t, before, b.String())
}

func TestFlipHorizontalRoundTrips(t *testing.T) {
	b := capboard.New()
	require.NoError(t, b.NewGame("4k4/9/9/9/9/9/9/9/9/R2K5 w 0 1"))
	before := material.OfBoard(b)

	b.Flip(capability.FlipHorizontal)
	b.Flip(capability.FlipHorizontal)

	assert.Equal(t, before.Name(), material.OfBoard(b).Name())
}

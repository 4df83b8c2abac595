package capboard_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/chess/capboard"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsStandardArray(t *testing.T) {
	b := capboard.New()
	assert.Equal(t, capability.Chess, b.Variant())
	assert.Equal(t, capability.SideA, b.Turn())
	assert.Len(t, b.LegalMoves(b.Turn()), 20)
}

func TestNewGameInvalidFen(t *testing.T) {
	b := capboard.New()
	assert.Error(t, b.NewGame("not a fen"))
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

func TestOfBoardMatchesKQvK(t *testing.T) {
	b := capboard.New()
	require.NoError(t, b.NewGame("8/8/8/4k3/8/8/4Q3/4K3 w - - 0 1"))

	sig := material.OfBoard(b)
	assert.Equal(t, "kqk", sig.Name())
}

func TestCloneIsIndependent(t *testing.T) {
	b := capboard.New()
	clone := b.Clone()

	moves := b.LegalMoves(b.Turn())
	require.NotEmpty(t, moves)
	b.Make(moves[0])

	assert.NotEqual(t, b.String(), clone.String())
}

func TestFlipRotate180RoundTrips(t *testing.T) {
	b := capboard.New()
	require.NoError(t, b.NewGame("8/8/8/4k3/8/8/4Q3/4K3 w - - 0 1"))
	before := material.OfBoard(b)

	b.Flip(capability.FlipRotate180)
	b.Flip(capability.FlipRotate180)

	assert.Equal(t, before.Name(), material.OfBoard(b).Name())
}

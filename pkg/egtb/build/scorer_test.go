package build_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/chess/capboard"
	"github.com/felicity-egtb/felicity/pkg/egtb/build"
	"github.com/felicity-egtb/felicity/pkg/egtb/codec"
	"github.com/felicity-egtb/felicity/pkg/egtb/generator"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
)

func TestChildScoreSameMaterialReadsSelfTable(t *testing.T) {
	ctx := context.Background()
	var c codec.Codec

	b := capboard.New()
	require.NoError(t, b.NewGame("8/8/8/4k3/8/8/4Q3/4K3 w - - 0 1"))
	sig := material.OfBoard(b)

	idx, side, err := c.Encode(b, sig)
	require.NoError(t, err)

	var m capability.Move
	var found bool
	for _, cand := range b.LegalMoves(side) {
		if cand.Capture == capability.NoKind {
			m, found = cand, true
			break
		}
	}
	require.True(t, found)

	self := generator.NewTable(sig, codec.BuildSpace(sig))
	h := b.Make(m)
	childSig := material.OfBoard(b)
	childIdx, childSide, err := c.Encode(b, childSig)
	require.NoError(t, err)
	b.Unmake(h)
	require.Equal(t, sig.Hash(), childSig.Hash())

	cells := self.A
	if childSide == capability.SideB {
		cells = self.B
	}
	cells[childIdx] = score.Win(7)

	scorer := build.Scorer{Codec: c}
	got, err := scorer.ChildScore(ctx, b, sig, idx, side, m, self, generator.NewSubTableSet())
	require.NoError(t, err)
	assert.Equal(t, score.Win(7), got)
}

func TestChildScoreCaptureProbesSubTable(t *testing.T) {
	ctx := context.Background()
	var c codec.Codec

	b := capboard.New()
	require.NoError(t, b.NewGame("8/8/8/4Q3/4k3/8/8/K7 b - - 0 1"))
	sig := material.OfBoard(b)
	assert.Equal(t, "kqk", sig.Name())

	idx, side, err := c.Encode(b, sig)
	require.NoError(t, err)

	var capture capability.Move
	var found bool
	for _, cand := range b.LegalMoves(side) {
		if cand.Capture == material.ChessQueen {
			capture, found = cand, true
			break
		}
	}
	require.True(t, found)

	kkSig, err := material.Parse(capability.Chess, "kk")
	require.NoError(t, err)
	kkTable := generator.NewTable(kkSig, codec.BuildSpace(kkSig))
	generator.Classify(ctx, capboard.New(), c, kkTable)

	sub := generator.NewSubTableSet()
	sub.Register(generator.CellTable{Sig: kkSig, A: kkTable.A, B: kkTable.B})

	self := generator.NewTable(sig, codec.BuildSpace(sig))
	scorer := build.Scorer{Codec: c}
	got, err := scorer.ChildScore(ctx, b, sig, idx, side, capture, self, sub)
	require.NoError(t, err)
	assert.Equal(t, score.DrawChess, got)
}

func TestChildScoreMissingSubTableReturnsMissing(t *testing.T) {
	ctx := context.Background()
	var c codec.Codec

	b := capboard.New()
	require.NoError(t, b.NewGame("8/8/8/4Q3/4k3/8/8/K7 b - - 0 1"))
	sig := material.OfBoard(b)

	idx, side, err := c.Encode(b, sig)
	require.NoError(t, err)

	var capture capability.Move
	var found bool
	for _, cand := range b.LegalMoves(side) {
		if cand.Capture == material.ChessQueen {
			capture, found = cand, true
			break
		}
	}
	require.True(t, found)

	self := generator.NewTable(sig, codec.BuildSpace(sig))
	scorer := build.Scorer{Codec: c}
	got, err := scorer.ChildScore(ctx, b, sig, idx, side, capture, self, generator.NewSubTableSet())
	require.NoError(t, err)
	assert.Equal(t, score.Missing, got)
}

package codec_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/chess/capboard"
	"github.com/felicity-egtb/felicity/pkg/egtb/codec"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	xqcapboard "github.com/felicity-egtb/felicity/pkg/xiangqi/capboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChessKQKEncodeDecodeRoundTrip(t *testing.T) {
	b := capboard.New()
	require.NoError(t, b.NewGame("8/8/8/4k3/8/8/4Q3/4K3 w - - 0 1"))
	sig := material.OfBoard(b)

	var c codec.Codec
	idx, side, err := c.Encode(b, sig)
	require.NoError(t, err)

	got := capboard.New()
	ok := c.Reconstruct(got, sig, idx, side)
	require.True(t, ok)

	idx2, side2, err := c.Encode(got, sig)
	require.NoError(t, err)
	assert.Equal(t, idx, idx2)
	assert.Equal(t, side, side2)
}

func TestChessEncodeRejectsMismatchedMaterial(t *testing.T) {
	b := capboard.New()
	require.NoError(t, b.NewGame("8/8/8/4k3/8/8/4Q3/4K3 w - - 0 1"))

	other, err := material.Parse(capability.Chess, "krk")
	require.NoError(t, err)

	var c codec.Codec
	_, _, err = c.Encode(b, other)
	assert.Error(t, err)
}

func TestXiangqiKRKEncodeDecodeRoundTrip(t *testing.T) {
	b := xqcapboard.New()
	require.NoError(t, b.NewGame("4k4/9/9/9/9/9/9/9/9/R2K5 w 0 1"))
	sig := material.OfBoard(b)

	var c codec.Codec
	idx, side, err := c.Encode(b, sig)
	require.NoError(t, err)

	got := xqcapboard.New()
	ok := c.Reconstruct(got, sig, idx, side)
	require.True(t, ok)

	idx2, side2, err := c.Encode(got, sig)
	require.NoError(t, err)
	assert.Equal(t, idx, idx2)
	assert.Equal(t, side, side2)
}

func TestBuildSpaceCardinalityPositive(t *testing.T) {
	sig, err := material.Parse(capability.Chess, "kqk")
	require.NoError(t, err)

	space := codec.BuildSpace(sig)
	assert.Greater(t, space.Size(), int64(0))
}

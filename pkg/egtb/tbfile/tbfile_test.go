package tbfile_test

import (
	"context"
	"testing"

	"github.com/felicity-egtb/felicity/pkg/egtb/score"
	"github.com/felicity-egtb/felicity/pkg/egtb/tbfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h, err := tbfile.NewHeader("krkp", 45, 3, tbfile.FlagSideA|tbfile.FlagCompressed)
	require.NoError(t, err)
	h.SetCopyright("felicity tablebases")
	h.Checksum = 0xdeadbeef

	buf, err := h.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, buf, tbfile.HeaderSize)

	var got tbfile.Header
	require.NoError(t, got.UnmarshalBinary(buf))
	assert.Equal(t, "krkp", got.MaterialName())
	assert.True(t, got.Flags.Has(tbfile.FlagSideA))
	assert.True(t, got.Flags.Has(tbfile.FlagCompressed))
	assert.False(t, got.Flags.Has(tbfile.FlagSideB))
	assert.Equal(t, uint8(45), got.DTMMax)
	assert.Equal(t, uint64(0xdeadbeef), got.Checksum)
}

func TestHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, tbfile.HeaderSize)
	var h tbfile.Header
	assert.Error(t, h.UnmarshalBinary(buf))
}

func TestBlockIndexMarshalRoundTrip32(t *testing.T) {
	idx := tbfile.BlockIndex{Offsets: []uint64{0, 100, 250, 250}}
	idx.SetBlockEnd(2, 250, true)

	buf := idx.Marshal()
	got := tbfile.UnmarshalBlockIndex(buf, len(idx.Offsets), false)

	start, end, uncompressed := got.BlockSpan(0)
	assert.Equal(t, uint64(0), start)
	assert.Equal(t, uint64(100), end)
	assert.False(t, uncompressed)

	start, end, uncompressed = got.BlockSpan(2)
	assert.Equal(t, uint64(250), start)
	assert.Equal(t, uint64(250), end)
	assert.True(t, uncompressed)
}

func TestEncodeBlocksRoundTripsThroughDecode(t *testing.T) {
	cells := make([]score.Score, tbfile.BlockCells+17)
	for i := range cells {
		cells[i] = score.Win(i % 100)
	}
	payload, idx := tbfile.EncodeBlocks(cells, false, false)
	assert.Equal(t, 2, idx.BlockCount())

	side := tbfile.NewCompressedSide(payload, idx, false, 0x1234, false)
	ctx := context.Background()
	for _, i := range []int{0, 37, tbfile.BlockCells, tbfile.BlockCells + 16} {
		got, err := side.Cell(ctx, tbfile.Tiny, int64(i))
		require.NoError(t, err)
		assert.Equal(t, cells[i], got)
	}
}

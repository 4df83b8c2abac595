package tbfile

import "encoding/binary"

// BlockCells is the number of tablebase cells per decoded block.
const BlockCells = 4096

// uncompressedBit32/40 mark a block index entry whose payload is stored
// raw rather than passed through the compressor, per §4.D.
const (
	uncompressedBit32 uint64 = 1 << 31
	uncompressedBit40 uint64 = 1 << 39
)

// BlockIndex is the per-side list of cumulative byte offsets into the
// compressed payload region, one entry per block boundary (block_count+1
// entries so that offset deltas give each block's compressed length).
// entries[i] with the uncompressed bit set means the i-th block was stored
// without compression and must be read directly.
type BlockIndex struct {
	Large   bool // true selects 40-bit offsets (LargeCompressTable flag)
	Offsets []uint64
}

func (b BlockIndex) entrySize() int {
	if b.Large {
		return 5
	}
	return 4
}

func (b BlockIndex) uncompressedBit() uint64 {
	if b.Large {
		return uncompressedBit40
	}
	return uncompressedBit32
}

// BlockCount returns the number of decoded blocks the index describes.
func (b BlockIndex) BlockCount() int {
	if len(b.Offsets) == 0 {
		return 0
	}
	return len(b.Offsets) - 1
}

// Marshal encodes the offset table to its on-disk packed form.
func (b BlockIndex) Marshal() []byte {
	sz := b.entrySize()
	buf := make([]byte, sz*len(b.Offsets))
	for i, off := range b.Offsets {
		putUintN(buf[i*sz:(i+1)*sz], off, sz)
	}
	return buf
}

// UnmarshalBlockIndex decodes a packed offset table of the given entry
// count and width.
func UnmarshalBlockIndex(buf []byte, count int, large bool) BlockIndex {
	idx := BlockIndex{Large: large, Offsets: make([]uint64, count)}
	sz := idx.entrySize()
	for i := 0; i < count; i++ {
		idx.Offsets[i] = getUintN(buf[i*sz:(i+1)*sz], sz)
	}
	return idx
}

// BlockSpan returns the byte range [start,end) within the compressed
// payload for block i, and whether it is stored uncompressed.
func (b BlockIndex) BlockSpan(i int) (start, end uint64, uncompressed bool) {
	bit := b.uncompressedBit()
	start = b.Offsets[i] &^ bit
	raw := b.Offsets[i+1]
	uncompressed = raw&bit != 0
	end = raw &^ bit
	return start, end, uncompressed
}

// SetBlockEnd records block i's end offset (cumulative, i.e. Offsets[i+1]),
// marking it uncompressed if requested.
func (b *BlockIndex) SetBlockEnd(i int, end uint64, uncompressed bool) {
	if uncompressed {
		end |= b.uncompressedBit()
	}
	b.Offsets[i+1] = end
}

func putUintN(dst []byte, v uint64, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	copy(dst, buf[:n])
}

func getUintN(src []byte, n int) uint64 {
	var buf [8]byte
	copy(buf[:], src)
	return binary.LittleEndian.Uint64(buf[:])
}

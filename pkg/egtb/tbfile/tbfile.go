package tbfile

import (
	"context"
	"fmt"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/s2"
	"github.com/seekerror/logw"

	"github.com/felicity-egtb/felicity/pkg/egtb/score"
)

// LoadMode selects how eagerly a Side's payload is decoded into memory.
type LoadMode int

const (
	// Tiny pages blocks on demand and keeps only the block index resident.
	Tiny LoadMode = iota
	// All decodes the needed block on every Cell call and does not store it
	// in the shared block cache; nothing is decoded at load time and no
	// decoded copy of the side is kept.
	All
	// Smart behaves as All when the decoded size is under smartThreshold,
	// as Tiny otherwise.
	Smart
)

// smartThreshold is Smart's All/Tiny cutover point (§4.D: 120 MiB).
const smartThreshold = 120 * 1024 * 1024

func (m LoadMode) resolve(decodedSize int64) LoadMode {
	if m != Smart {
		return m
	}
	if decodedSize < smartThreshold {
		return All
	}
	return Tiny
}

// blockCache is the optional process-wide decoded-block cache shared by
// every Side opened in Tiny/Smart mode, avoiding repeated decompression of
// hot blocks across successive probes.
var blockCache *ristretto.Cache[cacheKey, []score.Score]

type cacheKey struct {
	sig  uint32
	side bool
	blk  int
}

func init() {
	c, err := ristretto.NewCache(&ristretto.Config[cacheKey, []score.Score]{
		NumCounters: 1e6,
		MaxCost:     64 << 20,
		BufferItems: 64,
	})
	if err == nil {
		blockCache = c
	}
}

// Side holds one side's payload: either raw cells (TwoBytes selects the
// cell width) or a compressed block index plus compressed bytes.
type Side struct {
	mu         sync.Mutex
	twoBytes   bool
	compressed bool
	index      BlockIndex
	payload    []byte // compressed bytes, or raw cells if !compressed
	sig        uint32
	isB        bool
}

func (s *Side) cellSize() int {
	if s.twoBytes {
		return 2
	}
	return 1
}

// decodedSize is the fully-decoded in-memory size of this side's payload.
func (s *Side) decodedSize() int64 {
	if !s.compressed {
		return int64(len(s.payload))
	}
	return int64(s.index.BlockCount() * BlockCells * s.cellSize())
}

// NewRawSide builds an uncompressed Side from packed cell bytes.
func NewRawSide(payload []byte, twoBytes bool, sig uint32, isB bool) *Side {
	return &Side{payload: payload, twoBytes: twoBytes, sig: sig, isB: isB}
}

// NewCompressedSide builds a Side from a compressed payload and its block
// index, as produced by EncodeBlocks.
func NewCompressedSide(payload []byte, idx BlockIndex, twoBytes bool, sig uint32, isB bool) *Side {
	return &Side{payload: payload, index: idx, compressed: true, twoBytes: twoBytes, sig: sig, isB: isB}
}

// Cell returns the decoded score at the given cell index within this side.
func (s *Side) Cell(ctx context.Context, mode LoadMode, cell int64) (score.Score, error) {
	if !s.compressed {
		return s.readRaw(cell), nil
	}

	block := int(cell) / BlockCells
	offset := int(cell) % BlockCells

	resolved := mode.resolve(s.decodedSize())
	if blockCache != nil {
		key := cacheKey{sig: s.sig, side: s.isB, blk: block}
		if v, ok := blockCache.Get(key); ok {
			return v[offset], nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	decoded, err := s.decodeBlock(block)
	if err != nil {
		return score.Unset, err
	}
	if blockCache != nil && resolved != All {
		blockCache.Set(cacheKey{sig: s.sig, side: s.isB, blk: block}, decoded, int64(len(decoded)))
	}
	logw.Debugf(ctx, "tbfile: decoded block %d (%d cells)", block, len(decoded))
	return decoded[offset], nil
}

func (s *Side) readRaw(cell int64) score.Score {
	sz := s.cellSize()
	off := int(cell) * sz
	if sz == 1 {
		return codeToScore(int(s.payload[off]), byte1RunLen)
	}
	code := int(uint16(s.payload[off]) | uint16(s.payload[off+1])<<8)
	return codeToScore(code, byte2RunLen)
}

func (s *Side) decodeBlock(block int) ([]score.Score, error) {
	start, end, uncompressed := s.index.BlockSpan(block)
	raw := s.payload[start:end]
	if uncompressed {
		return unpackCells(raw, s.twoBytes), nil
	}
	dec, err := s2.Decode(nil, raw)
	if err != nil {
		return nil, fmt.Errorf("tbfile: decode block %d: %w", block, err)
	}
	return unpackCells(dec, s.twoBytes), nil
}

// Cells never store a raw Score: Score is a signed 32-bit value centered on
// Mate (itself 1<<15), so a plain byte or uint16 truncation both loses
// magnitude and (for the negative perpetual codes) loses sign. Instead both
// cell widths pack a closed vocabulary into a dense unsigned codeword: the
// bookkeeping sentinels and four xiangqi perpetual markers first, then a
// win-distance run and a loss-distance run sized to fill the remaining
// width. Distances beyond a run are clamped to its deepest representable
// value; 1-byte mode's much smaller run is why a deep material needs
// 2-byte cells (TablebaseFile's FlagTwoBytes selects between the two).
const (
	codeIllegal       = 0
	codeUnset         = 1
	codeMissing       = 2
	codeDrawChess     = 3
	codeDrawXiangqi   = 4
	codePerpCheckWin  = 5
	codePerpCheckLoss = 6
	codePerpChaseWin  = 7
	codePerpChaseLoss = 8
	codeSentinelCount = 9

	byte1RunLen = 123 // (256 - codeSentinelCount) / 2, symmetric win/loss runs
	byte2RunLen = 32763 // (65536 - codeSentinelCount) / 2, ample for any real DTM
)

func scoreToCode(s score.Score, runLen int) int {
	switch s {
	case score.Illegal:
		return codeIllegal
	case score.Unset:
		return codeUnset
	case score.Missing:
		return codeMissing
	case score.DrawChess:
		return codeDrawChess
	case score.DrawXiangqi:
		return codeDrawXiangqi
	case score.PerpetualCheckWin:
		return codePerpCheckWin
	case score.PerpetualCheckLoss:
		return codePerpCheckLoss
	case score.PerpetualChaseWin:
		return codePerpChaseWin
	case score.PerpetualChaseLoss:
		return codePerpChaseLoss
	}
	d := score.Distance(s)
	if d >= runLen {
		d = runLen - 1
	}
	if s > score.Mate {
		return codeSentinelCount + d
	}
	return codeSentinelCount + runLen + d
}

func codeToScore(code int, runLen int) score.Score {
	switch code {
	case codeIllegal:
		return score.Illegal
	case codeUnset:
		return score.Unset
	case codeMissing:
		return score.Missing
	case codeDrawChess:
		return score.DrawChess
	case codeDrawXiangqi:
		return score.DrawXiangqi
	case codePerpCheckWin:
		return score.PerpetualCheckWin
	case codePerpCheckLoss:
		return score.PerpetualCheckLoss
	case codePerpChaseWin:
		return score.PerpetualChaseWin
	case codePerpChaseLoss:
		return score.PerpetualChaseLoss
	}
	n := code - codeSentinelCount
	if n < runLen {
		return score.Win(n)
	}
	return score.Loss(n - runLen)
}

func unpackCells(buf []byte, twoBytes bool) []score.Score {
	if !twoBytes {
		out := make([]score.Score, len(buf))
		for i, b := range buf {
			out[i] = codeToScore(int(b), byte1RunLen)
		}
		return out
	}
	out := make([]score.Score, len(buf)/2)
	for i := range out {
		code := int(uint16(buf[2*i]) | uint16(buf[2*i+1])<<8)
		out[i] = codeToScore(code, byte2RunLen)
	}
	return out
}

// EncodeBlocks compresses cells into BlockCells-sized blocks, returning the
// concatenated compressed payload and its block index. A block is stored
// uncompressed when compression would not shrink it.
func EncodeBlocks(cells []score.Score, twoBytes bool, large bool) ([]byte, BlockIndex) {
	idx := BlockIndex{Large: large, Offsets: []uint64{0}}
	var payload []byte

	bit := idx.uncompressedBit()
	for start := 0; start < len(cells); start += BlockCells {
		end := start + BlockCells
		if end > len(cells) {
			end = len(cells)
		}
		raw := packCells(cells[start:end], twoBytes)
		comp := s2.Encode(nil, raw)

		uncompressed := len(comp) >= len(raw)
		chunk := comp
		if uncompressed {
			chunk = raw
		}
		payload = append(payload, chunk...)

		next := uint64(len(payload))
		if uncompressed {
			next |= bit
		}
		idx.Offsets = append(idx.Offsets, next)
	}
	return payload, idx
}

func packCells(cells []score.Score, twoBytes bool) []byte {
	if !twoBytes {
		out := make([]byte, len(cells))
		for i, c := range cells {
			out[i] = byte(scoreToCode(c, byte1RunLen))
		}
		return out
	}
	out := make([]byte, len(cells)*2)
	for i, c := range cells {
		code := uint16(scoreToCode(c, byte2RunLen))
		out[2*i] = byte(code)
		out[2*i+1] = byte(code >> 8)
	}
	return out
}

// File is the full in-memory record for one material signature: a header
// and up to two independently loadable Side payloads (§4.D's merge
// semantics: one record per material, two side slots).
type File struct {
	Header Header
	Sig    uint32
	A, B   *Side
}

// LogMemoryBudget logs, in human-readable form, the summed decoded size of
// the sides whose mode resolves to All. All keeps no decoded copy, so this
// is the size a full decode would take, not memory the file holds.
func (f *File) LogMemoryBudget(ctx context.Context, mode LoadMode) {
	var total int64
	for _, s := range []*Side{f.A, f.B} {
		if s == nil {
			continue
		}
		resolved := mode.resolve(s.decodedSize())
		if resolved == All {
			total += s.decodedSize()
		}
	}
	logw.Infof(ctx, "tbfile: %s resident budget %s", f.Header.MaterialName(), humanize.Bytes(uint64(total)))
}

// Merge combines two partial files for the same material (one per side)
// by OR-ing their side-present flags and keeping each file's own Side
// slot, per §4.D's merge semantics.
func Merge(a, b *File) (*File, error) {
	if a.Sig != b.Sig {
		return nil, fmt.Errorf("tbfile: cannot merge different material signatures %d and %d", a.Sig, b.Sig)
	}
	out := &File{Header: a.Header, Sig: a.Sig}
	out.Header.Flags |= b.Header.Flags

	out.A = a.A
	if out.A == nil {
		out.A = b.A
	}
	out.B = a.B
	if out.B == nil {
		out.B = b.B
	}
	return out, nil
}

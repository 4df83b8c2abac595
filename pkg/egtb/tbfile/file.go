package tbfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/felicity-egtb/felicity/pkg/egtb/ferr"
)

// sideHeader is the small file-level preamble written once per present
// side, ahead of its block index and payload: enough to reconstruct a
// Side without re-deriving anything from the cell data itself.
type sideHeader struct {
	blockCount uint32
	payloadLen uint64
}

func writeSide(w io.Writer, s *Side) error {
	var bc uint32
	if s.compressed {
		bc = uint32(len(s.index.Offsets))
	}
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:4], bc)
	binary.LittleEndian.PutUint64(hdr[4:12], uint64(len(s.payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if s.compressed {
		if _, err := w.Write(s.index.Marshal()); err != nil {
			return err
		}
	}
	_, err := w.Write(s.payload)
	return err
}

func readSide(r io.Reader, sig uint32, isB, compressed, twoBytes, large bool) (*Side, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, ferr.Wrap(ferr.IoError, err, "tbfile: read side header")
	}
	blockCount := binary.LittleEndian.Uint32(hdr[0:4])
	payloadLen := binary.LittleEndian.Uint64(hdr[4:12])

	var idx BlockIndex
	if compressed {
		entrySize := 4
		if large {
			entrySize = 5
		}
		buf := make([]byte, int(blockCount)*entrySize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, ferr.Wrap(ferr.IoError, err, "tbfile: read block index")
		}
		idx = UnmarshalBlockIndex(buf, int(blockCount), large)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, ferr.Wrap(ferr.IoError, err, "tbfile: read side payload")
	}

	if compressed {
		return NewCompressedSide(payload, idx, twoBytes, sig, isB), nil
	}
	return NewRawSide(payload, twoBytes, sig, isB), nil
}

// checksum hashes both sides' payload bytes (not their preambles or block
// indexes), used to populate and later verify Header.Checksum (§7:
// CorruptFile on mismatch).
func checksum(f *File) uint64 {
	h := xxhash.New()
	for _, s := range []*Side{f.A, f.B} {
		if s == nil {
			continue
		}
		_, _ = h.Write(s.payload)
	}
	return h.Sum64()
}

// WriteFile serialises f to w: the fixed 128-byte header, then each
// present side (A before B) as a small preamble, optional block index,
// and payload. Header.Checksum is recomputed from the current side data
// before the header is written, so callers need not set it themselves.
func WriteFile(w io.Writer, f *File) error {
	f.Header.Checksum = checksum(f)
	if f.A != nil {
		f.Header.Flags |= FlagSideA
	}
	if f.B != nil {
		f.Header.Flags |= FlagSideB
	}

	hdrBytes, err := f.Header.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(hdrBytes); err != nil {
		return err
	}
	if f.A != nil {
		if err := writeSide(w, f.A); err != nil {
			return fmt.Errorf("tbfile: write side A: %w", err)
		}
	}
	if f.B != nil {
		if err := writeSide(w, f.B); err != nil {
			return fmt.Errorf("tbfile: write side B: %w", err)
		}
	}
	return nil
}

// ReadFile deserialises a File previously written by WriteFile, verifying
// the header signature and checksum. sig is the caller's already-computed
// material.Signature.Hash for the file being opened (the file itself only
// records the human-readable material name, per §6's header layout), used
// to key the decoded-block cache.
func ReadFile(r io.Reader, sig uint32) (*File, error) {
	hdrBytes := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, hdrBytes); err != nil {
		return nil, ferr.Wrap(ferr.IoError, err, "tbfile: read header")
	}
	var h Header
	if err := h.UnmarshalBinary(hdrBytes); err != nil {
		return nil, ferr.Wrap(ferr.CorruptFile, err, "tbfile: header")
	}

	f := &File{Header: h, Sig: sig}
	compressed := h.Flags.Has(FlagCompressed)
	twoBytes := h.Flags.Has(FlagTwoBytes)

	if h.Flags.Has(FlagSideA) {
		s, err := readSide(r, f.Sig, false, compressed, twoBytes, h.Flags.Has(FlagLargeCompressTableA))
		if err != nil {
			return nil, err
		}
		f.A = s
	}
	if h.Flags.Has(FlagSideB) {
		s, err := readSide(r, f.Sig, true, compressed, twoBytes, h.Flags.Has(FlagLargeCompressTableB))
		if err != nil {
			return nil, err
		}
		f.B = s
	}

	if got := checksum(f); got != h.Checksum {
		return nil, ferr.New(ferr.CorruptFile, "tbfile: checksum mismatch: got %d, want %d", got, h.Checksum)
	}
	return f, nil
}

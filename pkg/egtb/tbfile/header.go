// Package tbfile implements the on-disk tablebase file format (§4.D,
// header layout §6): a fixed 128-byte header, an optional compressed block
// index per side, and tiny/all/smart load modes.
package tbfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed on-disk header length in bytes.
const HeaderSize = 128

// signature is the magic little-endian uint32 every header starts with
// (§6's header byte table).
const signature uint32 = 556682

// Flag is a bit in the header's 4-byte property-flags field (offset 4).
type Flag uint32

const (
	FlagSideA               Flag = 1 << 0
	FlagSideB               Flag = 1 << 1
	FlagCompressed          Flag = 1 << 2
	FlagTwoBytes            Flag = 1 << 3
	FlagLargeCompressTableA Flag = 1 << 4
	FlagLargeCompressTableB Flag = 1 << 5
	FlagCompressOptimized   Flag = 1 << 6
	FlagNew                 Flag = 1 << 7
)

// Header is the fixed 128-byte tablebase file header, laid out exactly per
// §6's byte-offset table:
//
//	off  size  field
//	0    4     signature = 556682 (little-endian)
//	4    4     property flags
//	8    1     DTM max (1-byte cell mode)
//	9    1     reserved
//	10   12    reserved
//	22   2     factor-order vector id
//	24   20    canonical material name, NUL-padded
//	44   64    copyright
//	108  8     checksum
//	116  12    reserved
type Header struct {
	Flags         Flag
	DTMMax        uint8
	FactorOrderID uint16
	Name          [20]byte
	Copyright     [64]byte
	Checksum      uint64
}

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// NewHeader builds a header for the given canonical material name and
// factor-order vector id (§6: the enum tag identifying which King-pair /
// identical-piece factor layout this material uses, e.g. KK_8 vs KK_2).
func NewHeader(name string, dtmMax uint8, factorOrderID uint16, flags Flag) (Header, error) {
	if len(name) > 20 {
		return Header{}, fmt.Errorf("tbfile: material name %q exceeds 20 bytes", name)
	}
	var h Header
	h.Flags = flags
	h.DTMMax = dtmMax
	h.FactorOrderID = factorOrderID
	copy(h.Name[:], name)
	return h, nil
}

// MaterialName returns the NUL-trimmed canonical material name.
func (h Header) MaterialName() string {
	return string(bytes.TrimRight(h.Name[:], "\x00"))
}

// SetCopyright stores a copyright/provenance string, truncated to 64 bytes.
func (h *Header) SetCopyright(s string) {
	var buf [64]byte
	copy(buf[:], s)
	h.Copyright = buf
}

// MarshalBinary encodes the header to its fixed 128-byte wire form.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], signature)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.Flags))
	buf[8] = h.DTMMax
	// buf[9:22] stays zero (reserved).
	binary.LittleEndian.PutUint16(buf[22:24], h.FactorOrderID)
	copy(buf[24:44], h.Name[:])
	copy(buf[44:108], h.Copyright[:])
	binary.LittleEndian.PutUint64(buf[108:116], h.Checksum)
	// buf[116:128] stays zero (reserved).
	return buf, nil
}

// UnmarshalBinary decodes a 128-byte header, validating the magic.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) != HeaderSize {
		return fmt.Errorf("tbfile: header must be %d bytes, got %d", HeaderSize, len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf[0:4]); got != signature {
		return fmt.Errorf("tbfile: bad signature %d, want %d", got, signature)
	}
	h.Flags = Flag(binary.LittleEndian.Uint32(buf[4:8]))
	h.DTMMax = buf[8]
	h.FactorOrderID = binary.LittleEndian.Uint16(buf[22:24])
	copy(h.Name[:], buf[24:44])
	copy(h.Copyright[:], buf[44:108])
	h.Checksum = binary.LittleEndian.Uint64(buf[108:116])
	return nil
}

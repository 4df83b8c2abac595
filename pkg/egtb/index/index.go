// Package index implements the bijective codec between a board position
// (for a fixed material signature) and a dense tablebase cell index (§4.C):
// a product decoder over per-group factors (king pair, identical-piece
// combinations, pawn squares), plus the king-pair symmetry tables and
// combinatorial ranking that back it.
package index

import (
	"fmt"

	"github.com/felicity-egtb/felicity/pkg/capability"
)

// ChessPawnDomain is the 48 squares a chess pawn may occupy (ranks 2..7):
// a pawn never stands on its own back rank and promotes on reaching the
// far one, so ranks 1 and 8 are excluded.
const ChessPawnDomain = 48

// XiangqiPawnDomain is the 55 squares a xiangqi pawn may legally occupy:
// the 45 cells past the river on all nine files, plus the ten cells on a
// pawn's own side (its two ranks nearest the river on the five pawn files).
const XiangqiPawnDomain = 55

// Factor is one term of the product decoder: idx = Σ factor_i * mult_i.
type Factor struct {
	Name        string
	Cardinality int64
}

// Space is the ordered list of factors for one material signature, most
// significant first. Combined cardinality is the product of every factor's
// cardinality and must not overflow a 64-bit tablebase index.
type Space struct {
	Variant capability.Variant
	Factors []Factor
}

// Size returns the total number of distinct indices this space encodes.
func (s Space) Size() int64 {
	var total int64 = 1
	for _, f := range s.Factors {
		total *= f.Cardinality
	}
	return total
}

// multipliers returns, for each factor, the product of the cardinalities of
// every factor after it — the per-factor weight in the product decoder.
func (s Space) multipliers() []int64 {
	mults := make([]int64, len(s.Factors))
	var running int64 = 1
	for i := len(s.Factors) - 1; i >= 0; i-- {
		mults[i] = running
		running *= s.Factors[i].Cardinality
	}
	return mults
}

// Encode composes one code per factor (already rank-encoded by the caller,
// e.g. via KingPairTable.Rank or RankCombination) into a single tablebase
// index.
func (s Space) Encode(codes []int64) (int64, error) {
	if len(codes) != len(s.Factors) {
		return 0, fmt.Errorf("index: expected %d factor codes, got %d", len(s.Factors), len(codes))
	}
	mults := s.multipliers()
	var idx int64
	for i, c := range codes {
		if c < 0 || c >= s.Factors[i].Cardinality {
			return 0, fmt.Errorf("index: factor %q code %d out of range [0,%d)", s.Factors[i].Name, c, s.Factors[i].Cardinality)
		}
		idx += c * mults[i]
	}
	return idx, nil
}

// Decode splits a tablebase index back into its per-factor codes, the
// inverse of Encode.
func (s Space) Decode(idx int64) ([]int64, error) {
	if idx < 0 || idx >= s.Size() {
		return nil, fmt.Errorf("index: %d out of range [0,%d)", idx, s.Size())
	}
	mults := s.multipliers()
	codes := make([]int64, len(s.Factors))
	rem := idx
	for i := range s.Factors {
		codes[i] = rem / mults[i]
		rem = rem % mults[i]
	}
	return codes, nil
}

// ChessPawnSquareToDomain maps a chess square (file + rank*8, rank 1..6
// zero-based i.e. ranks 2..7) to its [0,48) domain slot.
func ChessPawnSquareToDomain(file, rank int) (int, bool) {
	if rank < 1 || rank > 6 {
		return 0, false
	}
	return (rank-1)*8 + file, true
}

// ChessPawnDomainToSquare is the inverse of ChessPawnSquareToDomain.
func ChessPawnDomainToSquare(d int) (file, rank int) {
	return d % 8, d/8 + 1
}

// XiangqiPawnSquareToDomain maps a red-side pawn square (file 0..8, rank
// 0..9) to its [0,55) legal-pawn-square domain slot. A pawn starts on one
// of 5 files at rank 3 and can stand at rank 3 or 4 only on those same 5
// files before crossing the river (10 squares); once past the river (rank
// 5..9) it may stand on any of the 9 files (45 squares), for 55 total. A
// black-side pawn is mapped through the same domain by the owning Board
// adapter after mirroring its rank (9-rank), since the rule is symmetric.
func XiangqiPawnSquareToDomain(file, rank int) (int, bool) {
	if file < 0 || file > 8 || rank < 0 || rank > 9 {
		return 0, false
	}
	switch {
	case rank == 3 || rank == 4:
		if file%2 != 0 {
			return 0, false
		}
		base := 0
		if rank == 4 {
			base = 5
		}
		return base + file/2, true
	case rank >= 5 && rank <= 9:
		return 10 + (rank-5)*9 + file, true
	default:
		return 0, false
	}
}

// XiangqiPawnDomainToSquare is the inverse of XiangqiPawnSquareToDomain.
func XiangqiPawnDomainToSquare(d int) (file, rank int) {
	if d < 10 {
		rank := 3
		if d >= 5 {
			rank = 4
			d -= 5
		}
		return d * 2, rank
	}
	d -= 10
	return d % 9, d/9 + 5
}

// Package material implements the canonical naming and signature hashing of
// a material configuration (§4.B): the textual stem used as a tablebase
// file name, and a 32-bit signature hash used as its in-memory lookup key.
package material

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/felicity-egtb/felicity/pkg/capability"
)

// Canonical per-variant kind orderings (§4.B): chess factors are ordered
// kings -> queens -> rooks -> bishops -> knights -> pawns; xiangqi factors
// are ordered king -> rooks -> cannons -> horses -> pawns -> advisors ->
// elephants, so the advisors and elephants are not grouped with the king
// but come last. The capability.Board adapter for each variant assigns
// capability.Kind values matching these tables.
const (
	ChessKing capability.Kind = iota + 1
	ChessQueen
	ChessRook
	ChessBishop
	ChessKnight
	ChessPawn
)

var chessOrder = []capability.Kind{ChessKing, ChessQueen, ChessRook, ChessBishop, ChessKnight, ChessPawn}
var chessLetter = map[capability.Kind]byte{
	ChessKing: 'k', ChessQueen: 'q', ChessRook: 'r', ChessBishop: 'b', ChessKnight: 'n', ChessPawn: 'p',
}

// ChessWeight approximates relative material strength for strong/weak side ordering.
var chessWeight = map[capability.Kind]int{
	ChessQueen: 9, ChessRook: 5, ChessBishop: 3, ChessKnight: 3, ChessPawn: 1, ChessKing: 0,
}

const (
	XqKing capability.Kind = iota + 1
	XqRook
	XqCannon
	XqHorse
	XqPawn
	XqAdvisor
	XqElephant
)

var xqOrder = []capability.Kind{XqKing, XqRook, XqCannon, XqHorse, XqPawn, XqAdvisor, XqElephant}
var xqLetter = map[capability.Kind]byte{
	XqKing: 'k', XqRook: 'r', XqCannon: 'c', XqHorse: 'n', XqPawn: 'p', XqAdvisor: 'a', XqElephant: 'e',
}
var xqWeight = map[capability.Kind]int{
	XqRook: 9, XqCannon: 5, XqHorse: 4, XqPawn: 2, XqAdvisor: 1, XqElephant: 1, XqKing: 0,
}

func orderFor(v capability.Variant) []capability.Kind {
	if v == capability.Xiangqi {
		return xqOrder
	}
	return chessOrder
}

func letterFor(v capability.Variant) map[capability.Kind]byte {
	if v == capability.Xiangqi {
		return xqLetter
	}
	return chessLetter
}

func weightFor(v capability.Variant) map[capability.Kind]int {
	if v == capability.Xiangqi {
		return xqWeight
	}
	return chessWeight
}

// Signature is a canonicalised material configuration: an ordered multiset
// of piece kinds per side, stronger side first.
type Signature struct {
	Variant capability.Variant
	Strong  []capability.Kind // canonical type order, king included
	Weak    []capability.Kind
}

// Of builds the canonicalised Signature from the raw (non-ordered) piece
// kind lists of each side, choosing the stronger side first by total
// material weight and breaking ties by the name's textual order.
func Of(variant capability.Variant, sideA, sideB []capability.Kind) Signature {
	a := canonicalize(variant, sideA)
	b := canonicalize(variant, sideB)

	wa, wb := weightOf(variant, sideA), weightOf(variant, sideB)
	switch {
	case wa > wb:
		return Signature{Variant: variant, Strong: a, Weak: b}
	case wb > wa:
		return Signature{Variant: variant, Strong: b, Weak: a}
	default:
		na, nb := nameOfSide(variant, a), nameOfSide(variant, b)
		if na <= nb {
			return Signature{Variant: variant, Strong: a, Weak: b}
		}
		return Signature{Variant: variant, Strong: b, Weak: a}
	}
}

func canonicalize(variant capability.Variant, kinds []capability.Kind) []capability.Kind {
	order := orderFor(variant)
	rank := make(map[capability.Kind]int, len(order))
	for i, k := range order {
		rank[k] = i
	}
	out := append([]capability.Kind(nil), kinds...)
	sort.SliceStable(out, func(i, j int) bool { return rank[out[i]] < rank[out[j]] })
	return out
}

func weightOf(variant capability.Variant, kinds []capability.Kind) int {
	w := weightFor(variant)
	total := 0
	for _, k := range kinds {
		total += w[k]
	}
	return total
}

func nameOfSide(variant capability.Variant, kinds []capability.Kind) string {
	letter := letterFor(variant)
	var sb strings.Builder
	for _, k := range kinds {
		sb.WriteByte(letter[k])
	}
	return sb.String()
}

// Name returns the canonical textual name, e.g. "kqkr", "krpkp". This is
// the tablebase file's name stem.
func (s Signature) Name() string {
	return nameOfSide(s.Variant, s.Strong) + nameOfSide(s.Variant, s.Weak)
}

// Hash computes the 32-bit signature hash used as the in-memory lookup key,
// derived from the sorted per-side piece kind counts so it is independent
// of any particular enumeration order.
func (s Signature) Hash() uint32 {
	counts := make(map[capability.Kind]int)
	for _, k := range s.Strong {
		counts[k]++
	}
	for _, k := range s.Weak {
		counts[k] -= 1 << 8 // distinguish strong-side counts from weak-side counts in the digest
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%d:%d;", k, counts[capability.Kind(k)])
	}
	fmt.Fprintf(&sb, "v%d", s.Variant)

	sum := xxhash.Sum64String(sb.String())
	return uint32(sum) ^ uint32(sum>>32)
}

func (s Signature) String() string {
	return s.Name()
}

// Parse decodes a canonical material name (e.g. "kqkr") back into a
// Signature, the inverse of Name. The name must start with a king and
// contain exactly two king letters, marking the strong/weak side split.
func Parse(variant capability.Variant, name string) (Signature, error) {
	order := orderFor(variant)
	king := order[0]
	letter := letterFor(variant)
	kingByte := letter[king]

	rev := make(map[byte]capability.Kind, len(letter))
	for k, b := range letter {
		rev[b] = k
	}

	if len(name) == 0 || name[0] != kingByte {
		return Signature{}, fmt.Errorf("material: name %q must start with a king", name)
	}
	second := strings.IndexByte(name[1:], kingByte)
	if second < 0 {
		return Signature{}, fmt.Errorf("material: name %q must contain two kings", name)
	}
	second++ // index within name, not name[1:]

	strongKinds, err := decodeLetters(rev, name[:second])
	if err != nil {
		return Signature{}, fmt.Errorf("material: %q: %w", name, err)
	}
	weakKinds, err := decodeLetters(rev, name[second:])
	if err != nil {
		return Signature{}, fmt.Errorf("material: %q: %w", name, err)
	}
	return Of(variant, strongKinds, weakKinds), nil
}

func decodeLetters(rev map[byte]capability.Kind, s string) ([]capability.Kind, error) {
	out := make([]capability.Kind, 0, len(s))
	for i := 0; i < len(s); i++ {
		k, ok := rev[s[i]]
		if !ok {
			return nil, fmt.Errorf("unknown piece letter %q", s[i])
		}
		out = append(out, k)
	}
	return out, nil
}

// OfBoard derives the canonicalised Signature of board's current piece
// placement, the same way Of does for explicit kind lists. Used both by
// the generator to classify a move's child material and by the probe
// layer to look up a live position's tablebase file.
func OfBoard(board capability.Board) Signature {
	var a, b []capability.Kind
	for sq := 0; sq < board.NumSquares(); sq++ {
		p := board.PieceAt(capability.Square(sq))
		if p.IsEmpty() {
			continue
		}
		if p.Side == capability.SideA {
			a = append(a, p.Kind)
		} else {
			b = append(b, p.Kind)
		}
	}
	return Of(board.Variant(), a, b)
}

package generator

import (
	"golang.org/x/exp/slices"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
)

// TopologicalOrder sorts materials by ascending total piece count, then
// (chess only) by ascending pawn count: every capture strictly reduces the
// piece count, and a chess promotion keeps it but removes a pawn, so this
// order guarantees every sub-table a material needs is built before it
// (given that the sub-material is in sigs at all). Remaining ties are
// ordered by name for determinism.
func TopologicalOrder(sigs []material.Signature) []material.Signature {
	pawns := func(s material.Signature) int {
		n := 0
		for _, k := range append(append([]capability.Kind(nil), s.Strong...), s.Weak...) {
			if s.Variant == capability.Chess && k == material.ChessPawn {
				n++
			}
		}
		return n
	}
	out := append([]material.Signature(nil), sigs...)
	slices.SortFunc(out, func(a, b material.Signature) int {
		na, nb := len(a.Strong)+len(a.Weak), len(b.Strong)+len(b.Weak)
		if na != nb {
			return na - nb
		}
		if pa, pb := pawns(a), pawns(b); pa != pb {
			return pa - pb
		}
		if a.Name() < b.Name() {
			return -1
		}
		if a.Name() > b.Name() {
			return 1
		}
		return 0
	})
	return out
}

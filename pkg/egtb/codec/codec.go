// Package codec implements the board<->index bijection (§4.C) generically
// over capability.Board, so one implementation serves both the chess and
// xiangqi builds. It provides the encode direction probing needs (Encode)
// and the decode direction the generator needs (Reconstruct, satisfying
// generator.Reconstructor structurally without importing that package).
package codec

import (
	"fmt"
	"sort"
	"sync"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/index"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
)

// Codec is stateless; its methods only close over the package-level king
// pair table cache.
type Codec struct{}

func numSquaresFor(v capability.Variant) int {
	if v == capability.Xiangqi {
		return 90
	}
	return 64
}

func pawnKindFor(v capability.Variant) capability.Kind {
	if v == capability.Xiangqi {
		return material.XqPawn
	}
	return material.ChessPawn
}

func pawnDomainFor(v capability.Variant) int {
	if v == capability.Xiangqi {
		return index.XiangqiPawnDomain
	}
	return index.ChessPawnDomain
}

func hasPawn(sig material.Signature) bool {
	pk := pawnKindFor(sig.Variant)
	for _, k := range sig.Strong {
		if k == pk {
			return true
		}
	}
	for _, k := range sig.Weak {
		if k == pk {
			return true
		}
	}
	return false
}

var (
	kingTableOnce     sync.Once
	kingTableNoPawn   *index.KingPairTable
	kingTableWithPawn *index.KingPairTable
)

func kingTable(withPawn bool) *index.KingPairTable {
	kingTableOnce.Do(func() {
		kingTableNoPawn = index.BuildKingPairTable(false)
		kingTableWithPawn = index.BuildKingPairTable(true)
	})
	if withPawn {
		return kingTableWithPawn
	}
	return kingTableNoPawn
}

// pieceGroup is one run of identical-kind pieces on one side, in canonical
// type order, king excluded (the king is always factor 0, handled
// separately from the rest of the product decoder).
type pieceGroup struct {
	kind  capability.Kind
	count int
	weak  bool // false = strong side, true = weak side
}

func groups(sig material.Signature) []pieceGroup {
	var out []pieceGroup
	for _, side := range []struct {
		kinds []capability.Kind
		weak  bool
	}{{sig.Strong, false}, {sig.Weak, true}} {
		kinds := side.kinds
		i := 1 // kinds[0] is always the king (§4.B canonical order)
		for i < len(kinds) {
			j := i
			for j < len(kinds) && kinds[j] == kinds[i] {
				j++
			}
			out = append(out, pieceGroup{kind: kinds[i], count: j - i, weak: side.weak})
			i = j
		}
	}
	return out
}

// BuildSpace assembles the product-decoder factor list for sig: the king
// pair first, then one combinadic factor per remaining identical-piece run
// in canonical order (strong side before weak side), pawns ranked over the
// fixed pawn domain and every other kind ranked over the squares not yet
// claimed by an earlier non-pawn group or either king.
func BuildSpace(sig material.Signature) index.Space {
	var kingCard int64
	if sig.Variant == capability.Xiangqi {
		kingCard = index.PalaceKingPairCardinality
	} else {
		kingCard = int64(kingTable(hasPawn(sig)).Cardinality())
	}
	factors := []index.Factor{{Name: "king", Cardinality: kingCard}}

	remaining := numSquaresFor(sig.Variant) - 2
	pawnKind := pawnKindFor(sig.Variant)
	pawnDomain := pawnDomainFor(sig.Variant)
	for gi, g := range groups(sig) {
		label := "strong"
		if g.weak {
			label = "weak"
		}
		if g.kind == pawnKind {
			factors = append(factors, index.Factor{
				Name:        fmt.Sprintf("%s-pawn-%d", label, gi),
				Cardinality: index.Binomial(pawnDomain, g.count),
			})
			continue
		}
		factors = append(factors, index.Factor{
			Name:        fmt.Sprintf("%s-%d-%d", label, g.kind, gi),
			Cardinality: index.Binomial(remaining, g.count),
		})
		remaining -= g.count
	}
	return index.Space{Variant: sig.Variant, Factors: factors}
}

// --- generic square/file/rank helpers, kept local so this package never
// imports pkg/chess or pkg/xiangqi directly (it only knows capability.Board).

func fileRank(sq capability.Square, width int) (file, row int) {
	return int(sq) % width, int(sq) / width
}

func squareOf(file, row, width int) capability.Square {
	return capability.Square(row*width + file)
}

// xqFileRank/xqSquareOf convert between capability.Square and xiangqi's own
// (file, rank) convention (rank 0 = red's back rank), which is the
// convention index.PalaceIndex/index.XiangqiPawnSquareToDomain expect. The
// xiangqi capability.Board numbers squares row-major from black's back rank
// (pkg/xiangqi/square.go), i.e. row 0 == xiangqi rank 9, so the two are
// related by rank = (NumRanks-1) - row.
func xqFileRank(sq capability.Square) (file, rank int) {
	file, row := fileRank(sq, 9)
	return file, 9 - row
}

func xqSquareOf(file, rank int) capability.Square {
	return squareOf(file, 9-rank, 9)
}

func palaceIdxOf(side capability.Side, sq capability.Square) int {
	file, rank := xqFileRank(sq)
	rankInPalace := rank
	if side == capability.SideB {
		rankInPalace = rank - 7
	}
	return index.PalaceIndex(file-3, rankInPalace)
}

func palaceAbsSquare(side capability.Side, idx int) capability.Square {
	fileInPalace, rankInPalace := index.PalaceSquare(idx)
	rank := rankInPalace
	if side == capability.SideB {
		rank = rankInPalace + 7
	}
	return xqSquareOf(fileInPalace+3, rank)
}

func pawnSquareToDomain(variant capability.Variant, side capability.Side, sq capability.Square) (int, bool) {
	if variant == capability.Xiangqi {
		file, rank := xqFileRank(sq)
		if side == capability.SideB {
			rank = 9 - rank // mirror black's pawn into red's domain frame, per XiangqiPawnSquareToDomain's doc comment
		}
		return index.XiangqiPawnSquareToDomain(file, rank)
	}
	file, rank := fileRank(sq, 8)
	return index.ChessPawnSquareToDomain(file, rank)
}

func pawnDomainToSquare(variant capability.Variant, side capability.Side, d int) capability.Square {
	if variant == capability.Xiangqi {
		file, rank := index.XiangqiPawnDomainToSquare(d)
		if side == capability.SideB {
			rank = 9 - rank
		}
		return xqSquareOf(file, rank)
	}
	file, rank := index.ChessPawnDomainToSquare(d)
	return squareOf(file, rank, 8)
}

func collectKinds(board capability.Board, side capability.Side) []capability.Kind {
	var out []capability.Kind
	for sq := 0; sq < board.NumSquares(); sq++ {
		p := board.PieceAt(capability.Square(sq))
		if p.Side == side {
			out = append(out, p.Kind)
		}
	}
	return out
}

func collectSquares(board capability.Board, side capability.Side, kind capability.Kind) []capability.Square {
	var out []capability.Square
	for sq := 0; sq < board.NumSquares(); sq++ {
		s := capability.Square(sq)
		p := board.PieceAt(s)
		if p.Side == side && p.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func sortedKinds(ks []capability.Kind) []capability.Kind {
	out := append([]capability.Kind(nil), ks...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equalKinds(a, b []capability.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// assignSides determines which concrete side of board carries sig's strong
// material and which carries the weak material, by matching each side's
// live piece-kind multiset against sig.Strong/sig.Weak. Returns an error if
// neither assignment matches, i.e. board's material does not belong to sig.
func assignSides(board capability.Board, sig material.Signature) (strong, weak capability.Side, err error) {
	a := sortedKinds(collectKinds(board, capability.SideA))
	b := sortedKinds(collectKinds(board, capability.SideB))
	strongWant := sortedKinds(sig.Strong)
	weakWant := sortedKinds(sig.Weak)

	if equalKinds(a, strongWant) && equalKinds(b, weakWant) {
		return capability.SideA, capability.SideB, nil
	}
	if equalKinds(a, weakWant) && equalKinds(b, strongWant) {
		return capability.SideB, capability.SideA, nil
	}
	return capability.SideNone, capability.SideNone, fmt.Errorf("codec: board material does not match signature %v", sig)
}

func relabelColors(board capability.Board) {
	for sq := 0; sq < board.NumSquares(); sq++ {
		s := capability.Square(sq)
		p := board.PieceAt(s)
		if p.IsEmpty() {
			continue
		}
		p.Side = p.Side.Opponent()
		board.SetPiece(s, p)
	}
}

// allSquaresExcept lists every square of board in ascending order except a
// and b (the two king squares), the domain non-pawn officer groups rank
// over.
func allSquaresExcept(board capability.Board, a, b capability.Square) []capability.Square {
	out := make([]capability.Square, 0, board.NumSquares()-2)
	for sq := 0; sq < board.NumSquares(); sq++ {
		s := capability.Square(sq)
		if s == a || s == b {
			continue
		}
		out = append(out, s)
	}
	return out
}

func removeFromUniverse(universe []capability.Square, remove []capability.Square) []capability.Square {
	rm := make(map[capability.Square]bool, len(remove))
	for _, s := range remove {
		rm[s] = true
	}
	out := make([]capability.Square, 0, len(universe)-len(remove))
	for _, s := range universe {
		if !rm[s] {
			out = append(out, s)
		}
	}
	return out
}

func positionOf(universe []capability.Square, sq capability.Square) int {
	for i, s := range universe {
		if s == sq {
			return i
		}
	}
	return -1
}

// Encode computes the product-decoder index and canonical side-to-move for
// board's current placement under sig. The returned side is relative to a
// canonical frame where sig.Strong always sits on capability.SideA — the
// same frame Reconstruct builds and generator.Table's two cell arrays are
// keyed by — not board's own Turn() when board's actual strong material
// happens to sit on SideB. That case is handled, for both variants, by an
// explicit logical color swap paired with a vertical mirror (FlipVertical),
// so pawns keep their direction of travel and xiangqi kings stay in their
// own palaces.
func (Codec) Encode(board capability.Board, sig material.Signature) (int64, capability.Side, error) {
	strongSide, _, err := assignSides(board, sig)
	if err != nil {
		return 0, capability.SideNone, err
	}

	work := board.Clone()
	swapped := strongSide != capability.SideA
	side := board.Turn()
	if swapped {
		relabelColors(work)
		work.Flip(capability.FlipVertical)
		side = side.Opponent()
	}
	// From here on, sig.Strong always lives on SideA of work and sig.Weak on
	// SideB, regardless of which concrete color held them on the caller's board.

	var kingCode int64
	if sig.Variant == capability.Xiangqi {
		rIdx := palaceIdxOf(capability.SideA, work.FindKing(capability.SideA))
		bIdx := palaceIdxOf(capability.SideB, work.FindKing(capability.SideB))
		kingCode = int64(index.RankPalaceKingPair(rIdx, bIdx))
	} else {
		tbl := kingTable(hasPawn(sig))
		code, mode, ok := tbl.Rank(int(work.FindKing(capability.SideA)), int(work.FindKing(capability.SideB)))
		if !ok {
			return 0, capability.SideNone, fmt.Errorf("codec: illegal king placement for %v", sig)
		}
		kingCode = int64(code)
		work.Flip(capability.FlipMode(mode))
	}

	strongKingSq := work.FindKing(capability.SideA)
	weakKingSq := work.FindKing(capability.SideB)
	if strongKingSq == weakKingSq {
		return 0, capability.SideNone, fmt.Errorf("codec: coincident kings")
	}
	universe := allSquaresExcept(work, strongKingSq, weakKingSq)

	pawnKind := pawnKindFor(sig.Variant)
	codes := make([]int64, 1, 1+len(groups(sig)))
	codes[0] = kingCode
	for _, g := range groups(sig) {
		groupSide := capability.SideA
		if g.weak {
			groupSide = capability.SideB
		}
		squares := collectSquares(work, groupSide, g.kind)
		if len(squares) != g.count {
			return 0, capability.SideNone, fmt.Errorf("codec: expected %d of kind %v on %v side, found %d", g.count, g.kind, groupSide, len(squares))
		}
		if g.kind == pawnKind {
			dom := make([]int, len(squares))
			for i, sq := range squares {
				d, ok := pawnSquareToDomain(sig.Variant, groupSide, sq)
				if !ok {
					return 0, capability.SideNone, fmt.Errorf("codec: square %v is not a legal pawn square", sq)
				}
				dom[i] = d
			}
			sort.Ints(dom)
			codes = append(codes, index.RankCombination(dom))
			continue
		}
		positions := make([]int, len(squares))
		for i, sq := range squares {
			p := positionOf(universe, sq)
			if p < 0 {
				return 0, capability.SideNone, fmt.Errorf("codec: square %v collides with a king or an earlier group", sq)
			}
			positions[i] = p
		}
		sort.Ints(positions)
		codes = append(codes, index.RankCombination(positions))
		universe = removeFromUniverse(universe, squares)
	}

	space := BuildSpace(sig)
	idx, err := space.Encode(codes)
	if err != nil {
		return 0, capability.SideNone, err
	}
	return idx, side, nil
}

// Reconstruct implements generator.Reconstructor: it places the position
// encoded by (sig, idx) onto board, always with sig.Strong's pieces on
// capability.SideA and sig.Weak's on SideB (the fixed canonical color
// convention Encode's logical swap targets), side to move as given. Returns
// false for a structurally illegal index: a king-pair code with no
// representative, or any piece landing on an already-occupied square.
func (Codec) Reconstruct(board capability.Board, sig material.Signature, idx int64, side capability.Side) bool {
	space := BuildSpace(sig)
	codes, err := space.Decode(idx)
	if err != nil {
		return false
	}

	if r, ok := board.(interface{ ResetEmpty() }); ok {
		r.ResetEmpty() // also drops castling rights left over from board's previous position
	}
	for sq := 0; sq < board.NumSquares(); sq++ {
		board.SetPiece(capability.Square(sq), capability.Piece{})
	}
	board.SetTurn(side)

	var strongKingSq, weakKingSq capability.Square
	if sig.Variant == capability.Xiangqi {
		rIdx, bIdx := index.UnrankPalaceKingPair(int(codes[0]))
		strongKingSq = palaceAbsSquare(capability.SideA, rIdx)
		weakKingSq = palaceAbsSquare(capability.SideB, bIdx)
	} else {
		wk, bk, ok := kingTable(hasPawn(sig)).Unrank(int(codes[0]))
		if !ok {
			return false
		}
		strongKingSq = capability.Square(wk)
		weakKingSq = capability.Square(bk)
	}
	if strongKingSq == weakKingSq {
		return false
	}
	board.SetPiece(strongKingSq, capability.Piece{Kind: sig.Strong[0], Side: capability.SideA})
	board.SetPiece(weakKingSq, capability.Piece{Kind: sig.Weak[0], Side: capability.SideB})

	universe := allSquaresExcept(board, strongKingSq, weakKingSq)
	pawnKind := pawnKindFor(sig.Variant)

	for gi, g := range groups(sig) {
		code := codes[gi+1]
		groupSide := capability.SideA
		if g.weak {
			groupSide = capability.SideB
		}
		if g.kind == pawnKind {
			dom := index.UnrankCombination(code, pawnDomainFor(sig.Variant), g.count)
			for _, d := range dom {
				sq := pawnDomainToSquare(sig.Variant, groupSide, d)
				if !board.PieceAt(sq).IsEmpty() {
					return false
				}
				board.SetPiece(sq, capability.Piece{Kind: g.kind, Side: groupSide})
			}
			continue
		}
		positions := index.UnrankCombination(code, len(universe), g.count)
		placed := make([]capability.Square, 0, g.count)
		for _, p := range positions {
			if p < 0 || p >= len(universe) {
				return false
			}
			sq := universe[p]
			if !board.PieceAt(sq).IsEmpty() {
				return false
			}
			board.SetPiece(sq, capability.Piece{Kind: g.kind, Side: groupSide})
			placed = append(placed, sq)
		}
		universe = removeFromUniverse(universe, placed)
	}
	return true
}

package index

// Xiangqi's king is confined to the 3x3 palace (files D-F, ranks 0-2 for
// red, 7-9 for black), giving a fixed 9-square factor per side with no
// symmetry reduction: the board has no left-right king symmetry once the
// advisors/elephants/pawns occupy file-asymmetric squares, and no vertical
// symmetry since the two palaces sit on opposite ends of the board (§4.C).

const PalaceSquares = 9

// PalaceIndex maps a king square (file 3..5, rank 0..2 relative to its own
// palace) to its [0,9) slot, row-major within the palace.
func PalaceIndex(fileInPalace, rankInPalace int) int {
	return rankInPalace*3 + fileInPalace
}

// PalaceSquare is the inverse of PalaceIndex.
func PalaceSquare(idx int) (fileInPalace, rankInPalace int) {
	return idx % 3, idx / 3
}

// PalaceKingPairCardinality is the combined two-king factor: each side's
// king ranges independently over its own palace, so the factor is a plain
// product, not a symmetry-reduced table as in chess.
const PalaceKingPairCardinality = PalaceSquares * PalaceSquares

// RankPalaceKingPair composes the two independent palace indices into one
// combined factor code.
func RankPalaceKingPair(redIdx, blackIdx int) int {
	return redIdx*PalaceSquares + blackIdx
}

// UnrankPalaceKingPair is the inverse of RankPalaceKingPair.
func UnrankPalaceKingPair(code int) (redIdx, blackIdx int) {
	return code / PalaceSquares, code % PalaceSquares
}

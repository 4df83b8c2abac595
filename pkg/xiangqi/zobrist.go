package xiangqi

import "math/rand"

// ZobristHash is a position hash based on piece-squares, used for repetition
// and perpetual-check/chase detection.
type ZobristHash uint64

// ZobristTable is a pseudo-randomized table for computing a position hash.
type ZobristTable struct {
	pieces [NumSides][NumPieces][NumSquares]ZobristHash
	turn   [NumSides]ZobristHash
}

func NewZobristTable(seed int64) *ZobristTable {
	ret := &ZobristTable{}

	r := rand.New(rand.NewSource(seed))
	for s := ZeroSide; s < NumSides; s++ {
		for p := ZeroPiece; p < NumPieces; p++ {
			for sq := ZeroSquare; sq < NumSquares; sq++ {
				ret.pieces[s][p][sq] = ZobristHash(r.Uint64())
			}
		}
		ret.turn[s] = ZobristHash(r.Uint64())
	}
	return ret
}

// Hash computes the zobrist hash for the given position.
func (z *ZobristTable) Hash(pos *Position, turn Side) ZobristHash {
	var hash ZobristHash
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		if s, p, ok := pos.Square(sq); ok {
			hash ^= z.pieces[s][p][sq]
		}
	}
	hash ^= z.turn[turn]
	return hash
}

// Move computes the hash of the position after the (legal) move incrementally.
func (z *ZobristTable) Move(h ZobristHash, pos *Position, m Move) ZobristHash {
	hash := h

	side, piece, _ := pos.Square(m.From)

	hash ^= z.turn[side]
	if m.IsCapture() {
		hash ^= z.pieces[side.Opponent()][m.Capture][m.To]
	}
	hash ^= z.pieces[side][piece][m.From]
	hash ^= z.pieces[side][piece][m.To]
	hash ^= z.turn[side.Opponent()]

	return hash
}

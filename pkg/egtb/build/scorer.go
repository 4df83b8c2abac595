// Package build wires the index codec into the generator's MoveScorer
// contract: deciding, for each legal move, whether the child position
// keeps the same material (a self-table lookup) or reduces it by capture
// or promotion (a sub-table probe), per §4.E.
package build

import (
	"context"
	"fmt"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/generator"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
)

// Codec is the narrow encode/decode surface this package needs from
// pkg/egtb/codec.Codec, named locally the same way pkg/egtb/probe does,
// so the generator's core never imports the codec package directly.
type Codec interface {
	Encode(board capability.Board, sig material.Signature) (int64, capability.Side, error)
	Reconstruct(board capability.Board, sig material.Signature, idx int64, side capability.Side) bool
}

// Scorer implements generator.MoveScorer using a Codec to translate a
// board reached by playing one move back into an index, then either
// reads self's own cells (same material) or probes the sub-table set
// (reduced material).
type Scorer struct {
	Codec Codec
}

var _ generator.MoveScorer = Scorer{}
var _ generator.Reconstructor = Scorer{}

// Reconstruct delegates to the wrapped Codec, letting a single Scorer
// value satisfy both generator interfaces Classify/Propagate need.
func (s Scorer) Reconstruct(board capability.Board, sig material.Signature, idx int64, side capability.Side) bool {
	return s.Codec.Reconstruct(board, sig, idx, side)
}

// ChildScore plays m on board (which must already be positioned at
// (sig, idx, side)), reads the resulting material, and resolves its raw
// stored score: a self.A/self.B lookup when the move preserves sig, or a
// sub-table probe when it captures or (chess only) promotes.
func (s Scorer) ChildScore(ctx context.Context, board capability.Board, sig material.Signature, idx int64, side capability.Side, m capability.Move, self *generator.Table, sub generator.SubTableProbe) (score.Score, error) {
	h := board.Make(m)
	defer board.Unmake(h)

	childSig := material.OfBoard(board)
	childIdx, childSide, err := s.Codec.Encode(board, childSig)
	if err != nil {
		return score.Illegal, fmt.Errorf("build: encode child of %v after %v: %w", sig, m, err)
	}

	if childSig.Hash() == sig.Hash() {
		cells := self.A
		if childSide == capability.SideB {
			cells = self.B
		}
		if childIdx < 0 || int(childIdx) >= len(cells) {
			return score.Illegal, fmt.Errorf("build: child index %d out of range for %v", childIdx, sig)
		}
		return cells[childIdx], nil
	}

	v, ok := sub.Probe(childSig, childIdx, childSide)
	if !ok {
		return score.Missing, nil
	}
	return v, nil
}

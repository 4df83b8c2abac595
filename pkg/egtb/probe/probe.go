// Package probe implements runtime tablebase lookup and best-line
// extraction (§4.G): canonicalising a live position through the index
// codec, fetching its score from a registered Store, and walking principal
// variations out to mate, draw, or repetition.
package probe

import (
	"context"
	"fmt"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
	"github.com/felicity-egtb/felicity/pkg/egtb/tbfile"
)

// Codec is the narrow slice of pkg/egtb/codec.Codec this package depends
// on, named locally so probe never imports codec directly — the same
// decoupling generator uses for Reconstructor/MoveScorer.
type Codec interface {
	Encode(board capability.Board, sig material.Signature) (int64, capability.Side, error)
}

// Result is the coarse game-theoretic outcome best_line reports alongside
// its move list.
type Result int

const (
	ResultUnknown Result = iota
	ResultWin
	ResultLoss
	ResultDraw
)

func (r Result) String() string {
	switch r {
	case ResultWin:
		return "win"
	case ResultLoss:
		return "loss"
	case ResultDraw:
		return "draw"
	default:
		return "unknown"
	}
}

func resultFromScore(s score.Score) Result {
	switch {
	case !score.IsDefined(s):
		return ResultUnknown
	case score.IsDraw(s):
		return ResultDraw
	case s == score.PerpetualCheckWin, s == score.PerpetualChaseWin:
		return ResultWin
	case s == score.PerpetualCheckLoss, s == score.PerpetualChaseLoss:
		return ResultLoss
	case s > score.Mate:
		return ResultWin
	case s < score.Mate:
		return ResultLoss
	default:
		return ResultUnknown
	}
}

func drawScoreFor(variant capability.Variant) score.Score {
	if variant == capability.Xiangqi {
		return score.DrawXiangqi
	}
	return score.DrawChess
}

// Probe canonicalises board through c and fetches its tablebase score from
// store. A material signature with no registered file, or with a cell
// table missing the required side, yields score.Missing rather than an
// error (§7: a missing sub-tablebase is reported to the caller, not fatal).
//
// Chess en passant is degraded one ply: if board has an en-passant capture
// available, that move is expanded and its reverted score folded in via
// PickBest, matching the generator's handling of the same non-retrograde
// move at build time.
func Probe(ctx context.Context, board capability.Board, store *Store, c Codec) (score.Score, error) {
	sig := material.OfBoard(board)
	idx, side, err := c.Encode(board, sig)
	if err != nil {
		return score.Illegal, err
	}

	f, ok := store.lookup(sig)
	if !ok {
		return score.Missing, nil
	}

	s, err := cellFor(ctx, f, store.mode, side, idx)
	if err != nil {
		return score.Illegal, err
	}

	if board.Variant() == capability.Chess {
		if degraded, ok, err := probeEnPassant(ctx, board, store, c); err != nil {
			return score.Illegal, err
		} else if ok {
			s = score.PickBest(s, degraded)
		}
	}
	return s, nil
}

func cellFor(ctx context.Context, f *tbfile.File, mode tbfile.LoadMode, side capability.Side, idx int64) (score.Score, error) {
	var s *tbfile.Side
	if side == capability.SideA {
		s = f.A
	} else {
		s = f.B
	}
	if s == nil {
		return score.Missing, nil
	}
	return s.Cell(ctx, mode, idx)
}

func probeEnPassant(ctx context.Context, board capability.Board, store *Store, c Codec) (score.Score, bool, error) {
	side := board.Turn()
	found := false
	best := score.Unset
	for _, m := range board.LegalMoves(side) {
		if m.Flag != capability.EnPassant {
			continue
		}
		h := board.Make(m)
		child, err := Probe(ctx, board, store, c)
		board.Unmake(h)
		if err != nil {
			return score.Illegal, false, err
		}
		if child == score.Missing || child == score.Unset {
			continue
		}
		found = true
		best = score.PickBest(best, score.Revert(child, 1))
	}
	return best, found, nil
}

// PV caps the number of plies best_line will report even when no
// terminating condition fires first, guarding against a codec/generator
// inconsistency turning into an unbounded loop.
const maxPlies = 1000

type visitKey struct {
	sig  uint32
	idx  int64
	side capability.Side
}

// BestLine walks a principal variation from board out to mate, draw, or
// repetition (§4.G). The returned moves are in capability.Move form in the
// board's own coordinate space; callers translate to their game's native
// move type.
func BestLine(ctx context.Context, board capability.Board, store *Store, c Codec) (Result, []capability.Move, error) {
	work := board.Clone()
	var moves []capability.Move
	visited := make(map[visitKey]int)
	plySinceReset := 0

	root, err := Probe(ctx, work, store, c)
	if err != nil {
		return ResultUnknown, nil, err
	}
	if !score.IsDefined(root) {
		return ResultUnknown, nil, nil
	}
	// rootResult is fixed for the whole line: a position's win/loss nature
	// never changes as the PV is walked, only the distance does. A cell
	// probed mid-line is scored from whichever side is on move AT THAT
	// PLY, so on an odd ply that score's sign is the mirror of rootResult
	// — only draw and repetition are parity-independent and may be
	// reported directly from the local probe.
	rootResult := resultFromScore(root)

	for ply := 0; ply < maxPlies; ply++ {
		sig := material.OfBoard(work)
		idx, side, err := c.Encode(work, sig)
		if err != nil {
			return ResultUnknown, nil, err
		}
		key := visitKey{sig: sig.Hash(), idx: idx, side: side}
		if first, seen := visited[key]; seen && ply-first >= 4 {
			return resultFromScore(drawScoreFor(work.Variant())), moves, nil
		}
		visited[key] = ply

		rootScore, err := Probe(ctx, work, store, c)
		if err != nil {
			return ResultUnknown, nil, err
		}
		if !score.IsDefined(rootScore) {
			return resultFromScore(rootScore), moves, nil
		}
		if score.IsDraw(rootScore) {
			return ResultDraw, moves, nil
		}

		legal := work.LegalMoves(side)
		if len(legal) == 0 {
			// Checkmate or stalemate: the position's own score already
			// reflects it, but that score is from the mover AT THIS PLY,
			// not the line's root, so report the fixed rootResult instead.
			return rootResult, moves, nil
		}

		want := score.Revert(rootScore, 1)
		_, bestMove, bestFound := selectMove(ctx, work, store, c, legal, want, rootScore)
		if !bestFound {
			return rootResult, moves, nil
		}

		moves = append(moves, bestMove)
		if bestMove.Capture != capability.NoKind || bestMove.Flag == capability.Promotion || bestMove.Flag == capability.CapturePromotion {
			plySinceReset = 0
		} else {
			plySinceReset++
		}
		if plySinceReset > 120 {
			return ResultDraw, moves, nil
		}

		work.Make(bestMove)
	}
	return rootResult, moves, fmt.Errorf("probe: best line exceeded %d plies without terminating", maxPlies)
}

// selectMove picks the legal move whose reverted child score best matches
// want, preferring (in order): an exact match to want, then the
// score.Less-maximal candidate score, and — when rootScore is itself
// perpetual — restricting consideration to moves whose reverted score is
// also perpetual before applying that ordering. Ties break on first
// encounter in LegalMoves order.
func selectMove(ctx context.Context, board capability.Board, store *Store, c Codec, legal []capability.Move, want, rootScore score.Score) (score.Score, capability.Move, bool) {
	rootIsPerpetual := score.IsPerpetual(rootScore)

	var bestMove capability.Move
	best := score.Unset
	found := false

	for _, m := range legal {
		h := board.Make(m)
		child, err := Probe(ctx, board, store, c)
		board.Unmake(h)
		if err != nil || !score.IsDefined(child) {
			continue
		}
		reverted := score.Revert(child, 1)

		if rootIsPerpetual && !score.IsPerpetual(reverted) {
			continue
		}
		if reverted == want {
			return reverted, m, true
		}
		if !found || score.Less(best, reverted) {
			best = reverted
			bestMove = m
			found = true
		}
	}
	return best, bestMove, found
}

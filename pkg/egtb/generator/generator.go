// Package generator implements the retrograde fixed-point tablebase build
// (§4.E): Phase 1 classifies every index as ILLEGAL/terminal/UNSET, Phase 2
// repeatedly propagates child scores backward until a full pass makes no
// change. The package is deliberately decoupled from any one game: callers
// supply a Reconstructor (index -> board placement) and a MoveScorer
// (move -> child score, resolving self vs. sub-table lookups), so the same
// fixed-point machinery drives both the chess and xiangqi builds.
package generator

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/index"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
)

// Config tunes one material's build.
type Config struct {
	// Workers is the number of goroutines each pass fans out over.
	Workers int
	// Rule120 clamps any mate score whose distance exceeds DrawLimit to a
	// draw, matching the xiangqi 50-move-equivalent idle rule.
	Rule120 bool
	// DrawLimit is the ply distance rule120 clamps at, default 120.
	DrawLimit int
	// Check2Flip is carried in the config but not consulted by Classify,
	// Propagate or the codec: a reconstructed position with the side not
	// to move in check is always ILLEGAL (via Board.LegalPosition),
	// whatever this field holds.
	Check2Flip bool
	// Deadline, when present, bounds Propagate's total wall-clock time for
	// one material: exceeding it closes the pass's AsyncCloser, which
	// Propagate observes at the next pass boundary and surfaces as an
	// error rather than looping forever on a pathological material.
	Deadline lang.Optional[time.Duration]
}

// DefaultConfig mirrors spec defaults: rule120 on, a 120-ply draw limit,
// and one worker per available core, with no deadline.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU(), Rule120: true, DrawLimit: 120}
}

// errDeadlineExceeded reports a material whose Propagate run was halted by
// Config.Deadline before reaching a fixed point.
type errDeadlineExceeded struct {
	sig      material.Signature
	deadline time.Duration
}

func (e errDeadlineExceeded) Error() string {
	return fmt.Sprintf("generator: %s exceeded its %v build deadline", e.sig.Name(), e.deadline)
}

// Table is one material's in-progress or finished build: a codec Space and
// two cell arrays, one per side to move.
type Table struct {
	Sig   material.Signature
	Space index.Space
	A, B  []score.Score
}

// NewTable allocates a table with every cell UNSET.
func NewTable(sig material.Signature, space index.Space) *Table {
	n := space.Size()
	a := make([]score.Score, n)
	b := make([]score.Score, n)
	for i := range a {
		a[i] = score.Unset
		b[i] = score.Unset
	}
	return &Table{Sig: sig, Space: space, A: a, B: b}
}

func (t *Table) cells(side capability.Side) []score.Score {
	if side == capability.SideB {
		return t.B
	}
	return t.A
}

// Finished reports whether every cell holds a defined or illegal value.
func (t *Table) Finished() bool {
	for _, cells := range [][]score.Score{t.A, t.B} {
		for _, c := range cells {
			if c == score.Unset {
				return false
			}
		}
	}
	return true
}

// Reconstructor places the position encoded by (sig, idx, side) onto a
// scratch board. Returns false when the index is structurally illegal for
// this material (e.g. a duplicate-square collision in an identical-piece
// factor decode).
type Reconstructor interface {
	Reconstruct(board capability.Board, sig material.Signature, idx int64, side capability.Side) bool
}

// MoveScorer returns the raw (un-reverted) stored score for the position
// reached by playing m from (sig, idx, side): either a lookup into self's
// own in-progress cells (when m keeps the material unchanged) or a
// SubTableProbe lookup (when m captures or, in chess, promotes). A
// sub-table that is not available is returned as score.Missing; Propagate
// turns a Missing child into a fatal missing-sub-table error, never
// treating it as UNSET.
type MoveScorer interface {
	ChildScore(ctx context.Context, board capability.Board, sig material.Signature, idx int64, side capability.Side, m capability.Move, self *Table, sub SubTableProbe) (score.Score, error)
}

// Classify runs Phase 1 over every index and side of t: ILLEGAL for
// unreachable indices, a terminal win/loss/draw for positions with no
// legal move or with drawn leftover material, UNSET otherwise.
func Classify(ctx context.Context, board capability.Board, recon Reconstructor, t *Table) {
	n := t.Space.Size()
	draw := drawCodeFor(t.Sig.Variant)

	for idx := int64(0); idx < n; idx++ {
		for _, side := range []capability.Side{capability.SideA, capability.SideB} {
			cells := t.cells(side)
			if !recon.Reconstruct(board, t.Sig, idx, side) || !board.LegalPosition() {
				cells[idx] = score.Illegal
				continue
			}

			switch {
			case len(board.LegalMoves(side)) == 0:
				cells[idx] = noLegalMoveScore(board, side, t.Sig.Variant)
			case board.PieceListIsDraw():
				cells[idx] = draw
			default:
				cells[idx] = score.Unset
			}
		}
	}
	logw.Infof(ctx, "generator: classified %s (%d indices x 2 sides)", t.Sig.Name(), n)
}

func noLegalMoveScore(board capability.Board, side capability.Side, variant capability.Variant) score.Score {
	if variant == capability.Xiangqi {
		// No stalemate in xiangqi: a side with no legal move always loses.
		return score.Loss(0)
	}
	if board.InCheck(side) {
		return score.Loss(0)
	}
	return score.DrawChess
}

func drawCodeFor(v capability.Variant) score.Score {
	if v == capability.Xiangqi {
		return score.DrawXiangqi
	}
	return score.DrawChess
}

// Propagate runs Phase 2 to a fixed point: repeated passes over every
// still-UNSET cell, each computing the best reverted child score across
// all legal moves, until a full pass changes nothing. Workers partition
// the index range and run concurrently; per §4.E this is sound because the
// fixed point is monotone over a bounded lattice, so a worker reading a
// neighbor's pre- or post-pass value either way yields a correct result.
func Propagate(ctx context.Context, cfg Config, newBoard func() capability.Board, recon Reconstructor, scorer MoveScorer, t *Table, sub SubTableProbe) error {
	n := t.Space.Size()
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	closer := iox.NewAsyncCloser()
	defer closer.Close()
	if d, ok := cfg.Deadline.V(); ok {
		timer := time.AfterFunc(d, func() { closer.Close() })
		defer timer.Stop()
	}
	runCtx, cancel := contextx.WithQuitCancel(ctx, closer.Closed())
	defer cancel()

	for pass := 0; ; pass++ {
		var changed int64
		g, gctx := errgroup.WithContext(runCtx)

		for _, r := range partition(n, workers) {
			r := r
			g.Go(func() error {
				board := newBoard()
				var local int64
				for idx := r.lo; idx < r.hi; idx++ {
					for _, side := range []capability.Side{capability.SideA, capability.SideB} {
						cells := t.cells(side)
						if cells[idx] != score.Unset {
							continue
						}
						if !recon.Reconstruct(board, t.Sig, idx, side) {
							continue
						}

						best := score.Unset
						for _, m := range board.LegalMoves(side) {
							child, err := scorer.ChildScore(gctx, board, t.Sig, idx, side, m, t, sub)
							if err != nil {
								return err
							}
							if child == score.Missing {
								return errMissingSubTable(t.Sig, m)
							}
							best = score.PickBest(best, score.Revert(child, 1))
						}
						if cfg.Rule120 {
							best = score.Clamp120(best, cfg.DrawLimit, drawCodeFor(t.Sig.Variant))
						}
						if best != score.Unset {
							cells[idx] = best
							local++
						}
					}
				}
				atomic.AddInt64(&changed, local)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}
		logw.Infof(ctx, "generator: %s pass %d: %d cells newly defined", t.Sig.Name(), pass, changed)
		if changed == 0 {
			return nil
		}
		if closer.IsClosed() {
			d, _ := cfg.Deadline.V()
			return errDeadlineExceeded{sig: t.Sig, deadline: d}
		}
	}
}

type idxRange struct{ lo, hi int64 }

func partition(n int64, workers int) []idxRange {
	if workers > int(n) {
		workers = int(n)
	}
	if workers < 1 {
		workers = 1
	}
	chunk := n / int64(workers)
	if chunk == 0 {
		chunk = 1
	}
	var out []idxRange
	for lo := int64(0); lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		out = append(out, idxRange{lo, hi})
	}
	return out
}

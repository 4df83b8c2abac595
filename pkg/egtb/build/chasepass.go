package build

import (
	"context"
	"fmt"

	"github.com/seekerror/logw"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/generator"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
	"github.com/felicity-egtb/felicity/pkg/xiangqi"
	"github.com/felicity-egtb/felicity/pkg/xiangqi/capboard"
	"github.com/felicity-egtb/felicity/pkg/xiangqi/chase"
)

// ResolveChases implements §4.F's leftover pass for xiangqi materials, run
// after generator.Propagate reaches its fixed point: every cell still
// score.Unset at that point has, by construction, only quiet (non-capture,
// non-promotion) legal moves in its entire reachable subtree. Propagate's
// PickBest/Revert loop can only leave a cell Unset when every one of its
// legal moves' reverted child score is itself Unset, so a capture or
// promotion from such a cell would already have resolved it via the
// sub-table lookup generator.MoveScorer performs — the leftover region is
// closed under quiet moves. ResolveChases walks that region, reconstructs
// the repeating cycle each cell's subtree bottoms out in, classifies it via
// pkg/xiangqi/chase, and assigns the resulting score to every cell the walk
// touched before the table is handed to tbfile for writing.
//
// Simplification: from a cell with more than one legal move, the walk
// always follows the first move generator.LegalMoves returns rather than
// exploring every branch — every branch is already known (from the Unset
// invariant above) to lead back into the same closed quiet-move region, so
// this never mistakes an escape for a cycle, but it does mean a cell with
// branches into two differently-classified cycles gets whichever one its
// first legal move happens to reach, not necessarily the better of the two.
func ResolveChases(ctx context.Context, cfg chase.Config, newBoard func() capability.Board, c Codec, t *generator.Table) error {
	if t.Sig.Variant != capability.Xiangqi {
		return nil
	}

	n := t.Space.Size()
	var resolved int64
	for idx := int64(0); idx < n; idx++ {
		for _, side := range []capability.Side{capability.SideA, capability.SideB} {
			cells := cellsFor(t, side)
			if cells[idx] != score.Unset {
				continue
			}
			board := newBoard()
			if !c.Reconstruct(board, t.Sig, idx, side) {
				continue
			}
			got, err := walkAndResolve(cfg, board, c, t, idx, side)
			if err != nil {
				return fmt.Errorf("build: resolve chases for %v: %w", t.Sig, err)
			}
			resolved += int64(got)
		}
	}
	logw.Infof(ctx, "generator: %s chase pass resolved %d leftover cells", t.Sig.Name(), resolved)
	return nil
}

func cellsFor(t *generator.Table, side capability.Side) []score.Score {
	if side == capability.SideB {
		return t.B
	}
	return t.A
}

type cellKey struct {
	idx  int64
	side capability.Side
}

// walkAndResolve follows the single deterministic quiet-move path from
// (idx, side) until it revisits an already-seen cell, closing a cycle, then
// classifies that cycle and assigns the resulting score (and its per-ply
// Revert) to every cell the walk touched, including the tail leading into
// the cycle. Returns the number of cells newly assigned.
func walkAndResolve(cfg chase.Config, board capability.Board, c Codec, t *generator.Table, startIdx int64, startSide capability.Side) (int, error) {
	var path []cellKey
	var pathInCheck []bool
	var pathEvents []*chase.ChaseEvent
	pos := make(map[cellKey]int)

	key := cellKey{startIdx, startSide}
	pos[key] = 0
	path = append(path, key)

	maxSteps := 2*int(t.Space.Size()) + 8
	for step := 0; ; step++ {
		if step > maxSteps {
			return 0, fmt.Errorf("quiet-move walk from (%d,%v) did not cycle within %d steps", startIdx, startSide, maxSteps)
		}

		side := path[len(path)-1].side
		inCheck := board.InCheck(side)
		pathInCheck = append(pathInCheck, inCheck)

		legal := board.LegalMoves(side)
		if len(legal) == 0 {
			return 0, fmt.Errorf("cell (%d,%v) reached by a quiet-move walk has no legal move, contradicting the UNSET invariant", path[len(path)-1].idx, side)
		}
		m := legal[0]
		attacker := board.PieceAt(m.From)

		board.Make(m)
		ev := buildEvent(board, side, m, attacker)
		pathEvents = append(pathEvents, ev)

		childSig := material.OfBoard(board)
		if childSig.Hash() != t.Sig.Hash() {
			return 0, fmt.Errorf("quiet-move walk reached a different material %v from %v, contradicting the UNSET invariant", childSig, t.Sig)
		}
		childIdx, childSide, err := c.Encode(board, childSig)
		if err != nil {
			return 0, fmt.Errorf("encode quiet-move successor: %w", err)
		}
		childKey := cellKey{childIdx, childSide}

		if first, seen := pos[childKey]; seen {
			assigned := resolveCycle(cfg, path, pathInCheck[first:], pathEvents[first:])
			return assignPath(t, path, assigned), nil
		}
		pos[childKey] = len(path)
		path = append(path, childKey)
	}
}

// resolveCycle classifies the cycle starting at path[len(path)-len(cycleEvents):]
// and propagates its score backward, via score.Revert, to every earlier node
// on path (the tail leading into the cycle) and forward around the rest of
// the cycle to every node after the one the walk looped from.
func resolveCycle(cfg chase.Config, path []cellKey, cycleChecking []bool, cycleEvents []*chase.ChaseEvent) []score.Score {
	cycleStart := len(path) - len(cycleChecking)

	var events []chase.ChaseEvent
	for _, ev := range cycleEvents {
		if ev != nil {
			events = append(events, *ev)
		}
	}
	verdict := chase.Resolve(cfg, events, cycleChecking)

	assigned := make([]score.Score, len(path))
	assigned[cycleStart] = verdict
	for i := cycleStart - 1; i >= 0; i-- {
		assigned[i] = score.Revert(assigned[i+1], 1)
	}
	next := verdict
	for i := len(path) - 1; i > cycleStart; i-- {
		assigned[i] = score.Revert(next, 1)
		next = assigned[i]
	}
	return assigned
}

func assignPath(t *generator.Table, path []cellKey, assigned []score.Score) int {
	n := 0
	for i, key := range path {
		cells := cellsFor(t, key.side)
		if cells[key.idx] == score.Unset {
			cells[key.idx] = assigned[i]
			n++
		}
	}
	return n
}

// buildEvent reports the chase relationship, if any, created by mover
// playing m: whether the piece that just moved now threatens an enemy
// piece it did not capture. board must already have m applied. Returns nil
// when the move creates no such threat (a plain repositioning move, exempt
// from the cycle's classification by omission).
func buildEvent(board capability.Board, mover capability.Side, m capability.Move, attacker capability.Piece) *chase.ChaseEvent {
	probe := board.Clone()
	probe.SetTurn(mover)

	var threat capability.Move
	found := false
	for _, mv := range probe.LegalMoves(mover) {
		if mv.From == m.To && mv.IsCapture() {
			threat = mv
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	victimSide := mover.Opponent()
	victim := probe.PieceAt(threat.To)

	protected := isProtected(probe, victimSide, threat)
	counter := counterAttacks(probe, victimSide, threat.To, m.To)

	attackerKind := capboard.PieceKind(attacker.Kind)
	victimKind := capboard.PieceKind(victim.Kind)

	return &chase.ChaseEvent{
		Attacker:                  attackerKind,
		Victim:                    victimKind,
		VictimCrossedRiver:        crossedRiver(victimSide, threat.To),
		VictimProtected:           protected,
		SameTypeExchange:          attackerKind == victimKind,
		VictimCounterAttacks:      counter,
		RookChasedByHorseOrCannon: victimKind == xiangqi.Rook && (attackerKind == xiangqi.Horse || attackerKind == xiangqi.Cannon),
	}
}

// isProtected reports whether, had the attacker's threatened capture
// actually been played, the victim's own side has a legal recapture at the
// victim's square (a "root" defender per §4.F).
func isProtected(probe capability.Board, victimSide capability.Side, threat capability.Move) bool {
	sim := probe.Clone()
	sim.Make(threat)
	sim.SetTurn(victimSide)
	for _, mv := range sim.LegalMoves(victimSide) {
		if mv.To == threat.To {
			return true
		}
	}
	return false
}

// counterAttacks reports whether the victim, from its current square,
// itself threatens the attacker's new square — an unpinned mutual-exchange
// pattern per could_be_xchange's companion condition.
func counterAttacks(probe capability.Board, victimSide capability.Side, victimSq, attackerSq capability.Square) bool {
	sim := probe.Clone()
	sim.SetTurn(victimSide)
	for _, mv := range sim.LegalMoves(victimSide) {
		if mv.From == victimSq && mv.To == attackerSq && mv.IsCapture() {
			return true
		}
	}
	return false
}

// crossedRiver reports whether sq, occupied by a piece of side, has crossed
// the river from that side's own half — the xiangqi.Position.onOwnSide
// predicate, inverted, replicated here for a capability.Square since the
// chase pass works one level above the capability.Board abstraction.
func crossedRiver(side capability.Side, sq capability.Square) bool {
	rank := xiangqi.Square(sq).Rank()
	if side == capability.SideA {
		return rank > xiangqi.RiverRank
	}
	return rank <= xiangqi.RiverRank
}

// Package chase classifies xiangqi positions left UNSET after retrograde
// convergence: positions whose entire legal subtree is a repetition cycle
// under the AXF 1999 perpetual check/chase rules (§4.F). Ordinary win/loss/
// draw classification for positions with a terminating subtree is handled
// entirely by pkg/egtb/generator and pkg/egtb/score; this package only
// resolves the leftover cyclic cases.
package chase

import (
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
	"github.com/felicity-egtb/felicity/pkg/xiangqi"
)

// Config tunes the classifier per the SUPPLEMENTED FEATURES carried over
// from original_source/src/xq/xqchasejudge.{h,cpp}.
type Config struct {
	// ForfeitLastMoveOnly restricts the repetition forfeit to the pattern
	// of the cycle's last move rather than its entire history, matching
	// xq.cpp's ruleRepetition when this flag is set.
	ForfeitLastMoveOnly bool
	// DrawLen is the half-move idle-move draw threshold (rule120);
	// xqchasejudge.h's DRAW_LEN is 60 full moves, i.e. 120 half-moves.
	DrawLen int
	// MinRepeatLen is the shortest cycle length perpetual detection
	// engages on, matching best_line's cycle-length >= 4 rule (§4.G).
	MinRepeatLen int
}

// DefaultConfig matches the original's defaults.
func DefaultConfig() Config {
	return Config{DrawLen: 120, MinRepeatLen: 4}
}

// ChaseEvent records one ply's attacker/victim relationship along a
// repeated cycle, the unit the AXF exemption rules are evaluated over.
type ChaseEvent struct {
	Attacker xiangqi.Piece
	Victim   xiangqi.Piece

	// VictimCrossedRiver is only meaningful when Victim is a pawn.
	VictimCrossedRiver bool
	// VictimProtected is true iff a legal recapture exists at the victim's
	// square (a "root" defender).
	VictimProtected bool
	// SameTypeExchange is could_be_xchange: attacker and victim are the
	// same piece type, so the chase could resolve as a mutual trade.
	SameTypeExchange bool
	// VictimCounterAttacks is true iff the victim itself threatens the
	// attacker back (an unpinned mutual-exchange pattern).
	VictimCounterAttacks bool
	// RookChasedByHorseOrCannon is the one exception that is never exempt
	// regardless of protection: a rook harried by a horse or cannon.
	RookChasedByHorseOrCannon bool
}

// Exempt reports whether this single event is, on its own, one of the AXF
// 1999 chase exemptions (§4.F): the chase is then treated as a draw rather
// than a loss for the chased side.
func (e ChaseEvent) Exempt() bool {
	switch {
	case e.Attacker == xiangqi.King || e.Attacker == xiangqi.Pawn:
		return true
	case e.Victim == xiangqi.Pawn && !e.VictimCrossedRiver:
		return true
	case e.SameTypeExchange && e.VictimCounterAttacks:
		return true
	case e.VictimProtected && !e.RookChasedByHorseOrCannon:
		return true
	default:
		return false
	}
}

// ClassifyCycle classifies one full repeated cycle of chase events from the
// perspective of the side to move at the cycle's first event (the chaser):
// a cycle is exempt (and thus a draw) iff every event in it is exempt (or,
// under cfg.ForfeitLastMoveOnly, iff its last event alone is exempt);
// otherwise the chaser wins and the chased side loses (§4.F Pass 1's mark
// rule: "attacker -> PERPETUAL_WIN, defender -> PERPETUAL_LOSS"). Callers
// assigning this outcome to other cells along the cycle revert it per ply
// the same way a mate distance is reverted.
func ClassifyCycle(cfg Config, events []ChaseEvent) score.Score {
	if cfg.ForfeitLastMoveOnly {
		if len(events) == 0 || events[len(events)-1].Exempt() {
			return score.DrawXiangqi
		}
		return score.PerpetualChaseWin
	}
	for _, e := range events {
		if !e.Exempt() {
			return score.PerpetualChaseWin
		}
	}
	return score.DrawXiangqi
}

// ClassifyCheckCycle resolves Pass 1 (evasion seeds) from the perspective
// of the side forced to answer check on every one of its own plies of a
// repeated cycle: perpetual check favours that evading side, so it gets
// PerpetualCheckWin and the checking side PerpetualCheckLoss, regardless
// of any chase exemption.
func ClassifyCheckCycle() score.Score {
	return score.PerpetualCheckWin
}

// DetectRepetition scans a hash history (oldest first, current position
// last) for the most recent prior occurrence of the current position,
// returning the cycle length in plies. A cycle shorter than
// cfg.MinRepeatLen is not reported (ok is false).
func DetectRepetition(hashes []xiangqi.ZobristHash, cfg Config) (length int, ok bool) {
	if len(hashes) == 0 {
		return 0, false
	}
	current := hashes[len(hashes)-1]
	for i := len(hashes) - 2; i >= 0; i-- {
		if hashes[i] == current {
			cycle := len(hashes) - 1 - i
			if cycle < cfg.MinRepeatLen {
				return 0, false
			}
			return cycle, true
		}
	}
	return 0, false
}

// Resolve classifies the tail cycle once a repetition has been detected,
// combining Pass 1 (perpetual check takes precedence) and Pass 2 (chase
// exemption analysis over events) per §4.F. events must describe exactly
// the last `length` plies, oldest first; checking reports, for each of
// those plies, whether the side to move was in check. The returned score
// is from the perspective of the side to move at the cycle's first event.
func Resolve(cfg Config, events []ChaseEvent, checking []bool) score.Score {
	// A perpetual check has one side in check on every one of its own plies:
	// the even plies (the first mover is the evader) or the odd plies (the
	// first mover is the checker). It takes precedence over any chase exemption.
	evenInCheck, oddInCheck := len(checking) > 0, len(checking) > 1
	for i, inCheck := range checking {
		if i%2 == 0 {
			evenInCheck = evenInCheck && inCheck
		} else {
			oddInCheck = oddInCheck && inCheck
		}
	}
	switch {
	case evenInCheck:
		return ClassifyCheckCycle()
	case oddInCheck:
		return score.Revert(ClassifyCheckCycle(), 1)
	default:
		return ClassifyCycle(cfg, events)
	}
}

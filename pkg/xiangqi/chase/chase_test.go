package chase_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/egtb/score"
	"github.com/felicity-egtb/felicity/pkg/xiangqi"
	"github.com/felicity-egtb/felicity/pkg/xiangqi/chase"
	"github.com/stretchr/testify/assert"
)

func TestExemptPawnAttacker(t *testing.T) {
	e := chase.ChaseEvent{Attacker: xiangqi.Pawn, Victim: xiangqi.Rook}
	assert.True(t, e.Exempt())
}

func TestExemptUncrossedPawnVictim(t *testing.T) {
	e := chase.ChaseEvent{Attacker: xiangqi.Rook, Victim: xiangqi.Pawn, VictimCrossedRiver: false}
	assert.True(t, e.Exempt())
}

func TestNotExemptRookChasedByHorse(t *testing.T) {
	e := chase.ChaseEvent{
		Attacker:                  xiangqi.Horse,
		Victim:                    xiangqi.Rook,
		VictimProtected:           true,
		RookChasedByHorseOrCannon: true,
	}
	assert.False(t, e.Exempt())
}

func TestExemptProtectedVictim(t *testing.T) {
	e := chase.ChaseEvent{Attacker: xiangqi.Cannon, Victim: xiangqi.Horse, VictimProtected: true}
	assert.True(t, e.Exempt())
}

func TestClassifyCycleAllExemptIsDraw(t *testing.T) {
	events := []chase.ChaseEvent{
		{Attacker: xiangqi.Pawn, Victim: xiangqi.Rook},
		{Attacker: xiangqi.King, Victim: xiangqi.Horse},
	}
	assert.Equal(t, score.DrawXiangqi, chase.ClassifyCycle(chase.DefaultConfig(), events))
}

func TestClassifyCycleUnexemptChaserWins(t *testing.T) {
	events := []chase.ChaseEvent{
		{Attacker: xiangqi.Horse, Victim: xiangqi.Rook, RookChasedByHorseOrCannon: true},
	}
	assert.Equal(t, score.PerpetualChaseWin, chase.ClassifyCycle(chase.DefaultConfig(), events))
}

func TestClassifyCycleForfeitLastMoveOnlyIgnoresEarlierEvents(t *testing.T) {
	cfg := chase.DefaultConfig()
	cfg.ForfeitLastMoveOnly = true
	events := []chase.ChaseEvent{
		{Attacker: xiangqi.Horse, Victim: xiangqi.Rook, RookChasedByHorseOrCannon: true},
		{Attacker: xiangqi.Pawn, Victim: xiangqi.Rook},
	}
	assert.Equal(t, score.DrawXiangqi, chase.ClassifyCycle(cfg, events))
}

func TestClassifyCheckCyclePrecedesChase(t *testing.T) {
	events := []chase.ChaseEvent{{Attacker: xiangqi.King, Victim: xiangqi.Rook}} // would be exempt
	checking := []bool{true, true}
	result := chase.Resolve(chase.DefaultConfig(), events, checking)
	assert.Equal(t, score.PerpetualCheckWin, result)
}

func TestDetectRepetitionFindsCycle(t *testing.T) {
	hashes := []xiangqi.ZobristHash{10, 20, 30, 40, 10}
	length, ok := chase.DetectRepetition(hashes, chase.DefaultConfig())
	assert.True(t, ok)
	assert.Equal(t, 4, length)
}

func TestDetectRepetitionBelowMinRepeatLen(t *testing.T) {
	cfg := chase.Config{MinRepeatLen: 4}
	hashes := []xiangqi.ZobristHash{1, 2, 1}
	_, ok := chase.DetectRepetition(hashes, cfg)
	assert.False(t, ok)
}

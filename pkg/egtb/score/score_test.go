package score_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/egtb/score"
	"github.com/stretchr/testify/assert"
)

func TestRevertMateDistance(t *testing.T) {
	// A win in d for the child is a loss in d+1 for the parent, and vice versa.
	assert.Equal(t, score.Loss(2), score.Revert(score.Win(1), 1))
	assert.Equal(t, score.Win(3), score.Revert(score.Loss(2), 1))
	// A mated child (Loss(0) == Mate) is a win in 1 for the parent.
	assert.Equal(t, score.Win(1), score.Revert(score.Loss(0), 1))
}

func TestRevertDrawAndUnset(t *testing.T) {
	assert.Equal(t, score.DrawChess, score.Revert(score.DrawChess, 1))
	assert.Equal(t, score.Unset, score.Revert(score.Unset, 1))
}

func TestRevertPerpetualMirrors(t *testing.T) {
	assert.Equal(t, score.PerpetualCheckWin, score.Revert(score.PerpetualCheckLoss, 1))
	assert.Equal(t, score.PerpetualChaseLoss, score.Revert(score.PerpetualChaseWin, 1))
}

func TestPickBestOrdering(t *testing.T) {
	// Faster mate beats slower mate; any win beats a draw; a draw beats any loss.
	assert.Equal(t, score.Win(1), score.PickBest(score.Win(3), score.Win(1)))
	assert.Equal(t, score.Win(3), score.PickBest(score.DrawChess, score.Win(3)))
	assert.Equal(t, score.DrawChess, score.PickBest(score.Loss(5), score.DrawChess))
	assert.Equal(t, score.Loss(5), score.PickBest(score.Unset, score.Loss(5)))
}

func TestClamp120(t *testing.T) {
	assert.Equal(t, score.DrawXiangqi, score.Clamp120(score.Win(121), 120, score.DrawXiangqi))
	assert.Equal(t, score.Win(100), score.Clamp120(score.Win(100), 120, score.DrawXiangqi))
}

func TestIsMateExcludesSentinelsAndPerpetual(t *testing.T) {
	assert.False(t, score.IsMate(score.Unset))
	assert.False(t, score.IsMate(score.Illegal))
	assert.False(t, score.IsMate(score.Missing))
	assert.False(t, score.IsMate(score.DrawChess))
	assert.False(t, score.IsMate(score.PerpetualCheckLoss))
	assert.True(t, score.IsMate(score.Win(5)))
}

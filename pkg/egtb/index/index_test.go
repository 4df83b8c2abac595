package index_test

import (
	"testing"

	"github.com/felicity-egtb/felicity/pkg/egtb/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinomialBasic(t *testing.T) {
	assert.Equal(t, int64(1), index.Binomial(5, 0))
	assert.Equal(t, int64(5), index.Binomial(5, 1))
	assert.Equal(t, int64(10), index.Binomial(5, 2))
	assert.Equal(t, int64(0), index.Binomial(3, 5))
}

func TestCombinationRankRoundTrip(t *testing.T) {
	const n, k = 64, 3
	for rank := int64(0); rank < index.Binomial(n, k); rank += 37 {
		tuple := index.UnrankCombination(rank, n, k)
		require.Len(t, tuple, k)
		for i := 1; i < len(tuple); i++ {
			assert.Less(t, tuple[i-1], tuple[i])
		}
		assert.Equal(t, rank, index.RankCombination(tuple))
	}
}

func TestKingPairTableSizes(t *testing.T) {
	noPawn := index.BuildKingPairTable(false)
	withPawn := index.BuildKingPairTable(true)
	assert.Equal(t, 462, noPawn.Cardinality())
	assert.Equal(t, 1806, withPawn.Cardinality())
}

func TestKingPairRankUnrankRoundTrip(t *testing.T) {
	table := index.BuildKingPairTable(false)
	code, _, ok := table.Rank(4, 60) // e1, e8: legal, far apart
	require.True(t, ok)
	wk, bk, ok := table.Unrank(code)
	require.True(t, ok)

	// The unranked pair is a canonical representative of the same orbit,
	// so re-ranking it must return the same code.
	code2, _, ok := table.Rank(wk, bk)
	require.True(t, ok)
	assert.Equal(t, code, code2)
}

func TestKingPairRejectsTouchingKings(t *testing.T) {
	table := index.BuildKingPairTable(false)
	_, _, ok := table.Rank(0, 1)
	assert.False(t, ok)
}

func TestPalaceKingPairRoundTrip(t *testing.T) {
	code := index.RankPalaceKingPair(3, 7)
	r, b := index.UnrankPalaceKingPair(code)
	assert.Equal(t, 3, r)
	assert.Equal(t, 7, b)
	assert.Equal(t, index.PalaceKingPairCardinality, index.PalaceSquares*index.PalaceSquares)
}

func TestSpaceEncodeDecodeRoundTrip(t *testing.T) {
	sp := index.Space{
		Factors: []index.Factor{
			{Name: "kings", Cardinality: 462},
			{Name: "pawn", Cardinality: 48},
			{Name: "rook-pair", Cardinality: index.Binomial(62, 2)},
		},
	}
	codes := []int64{100, 7, 42}
	idx, err := sp.Encode(codes)
	require.NoError(t, err)

	back, err := sp.Decode(idx)
	require.NoError(t, err)
	assert.Equal(t, codes, back)
}

func TestXiangqiPawnDomainRoundTrip(t *testing.T) {
	for rank := 0; rank <= 9; rank++ {
		for file := 0; file <= 8; file++ {
			d, ok := index.XiangqiPawnSquareToDomain(file, rank)
			if !ok {
				continue
			}
			f2, r2 := index.XiangqiPawnDomainToSquare(d)
			assert.Equal(t, file, f2)
			assert.Equal(t, rank, r2)
		}
	}
}

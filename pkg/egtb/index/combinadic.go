package index

// binomial is a memoized Pascal's triangle large enough for any board size
// and any identical-piece group this module ever ranks (cells <= 90, k <= 10).
var binomial [91][16]int64

func init() {
	for n := 0; n < len(binomial); n++ {
		binomial[n][0] = 1
		for k := 1; k < len(binomial[n]) && k <= n; k++ {
			if k == n {
				binomial[n][k] = 1
				continue
			}
			binomial[n][k] = binomial[n-1][k-1] + binomial[n-1][k]
		}
	}
}

// Binomial returns C(n, k), the number of k-subsets of an n-set.
func Binomial(n, k int) int64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k >= len(binomial[0]) {
		// Outside the memoized range for this project's board sizes; computed
		// on the fly rather than grown, since k never exceeds 9 pawns/side.
		return binomialSlow(n, k)
	}
	return binomial[n][k]
}

func binomialSlow(n, k int) int64 {
	if k > n-k {
		k = n - k
	}
	var result int64 = 1
	for i := 0; i < k; i++ {
		result = result * int64(n-i) / int64(i+1)
	}
	return result
}

// RankCombination maps a strictly increasing tuple of k domain indices (each
// in [0, n)) to its position in the combinatorial number system, i.e. its
// rank among all C(n,k) possible k-subsets of [0,n) taken in sorted order.
func RankCombination(sorted []int) int64 {
	var rank int64
	for i, c := range sorted {
		rank += Binomial(c, i+1)
	}
	return rank
}

// UnrankCombination is the inverse of RankCombination: given n, k and a rank
// in [0, C(n,k)), returns the corresponding sorted k-tuple.
func UnrankCombination(rank int64, n, k int) []int {
	out := make([]int, k)
	c := rank
	for i := k; i >= 1; i-- {
		// Largest x such that Binomial(x, i) <= c; board sizes here are
		// small enough (<=90 cells) that a linear scan down from n-1 is
		// simpler than a binary search and just as fast in practice.
		x := n - 1
		for x > i-1 && Binomial(x, i) > c {
			x--
		}
		out[i-1] = x
		c -= Binomial(x, i)
	}
	return out
}

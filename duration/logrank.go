package duration

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// rankTol is the relative singular value cutoff used to determine the
// rank of the log-rank covariance matrix.
const rankTol = 1e-10

// LogRank compares the survival distributions of two or more groups
// using the log-rank (Mantel-Haenszel) test for right censored data.
//
// Groups are labeled 0, 1, ..., K-1.  A partition in which fewer than
// two groups contain subjects, or in which no events occur, carries no
// information about between-group differences; the test statistic is
// defined to be zero in that case, with zero degrees of freedom and a
// p-value of one.
type LogRank struct {

	// Event or censoring times
	time []float64

	// Status is 1 for events and 0 for censored cases
	status []float64

	// The group label of each case
	group []int

	// The number of groups, one more than the largest group label
	ngroup int

	// The number of cases in each group
	nobs []int

	// Observed and expected number of events in each group
	obs []float64
	exp []float64

	// The covariance of obs - exp, vectorized row-major
	vcov []float64

	chisq float64
	df    int
}

// NewLogRank returns a LogRank value for the given data.  The three
// slices must have the same length, status values must be 0 or 1 and
// group labels must be non-negative.
func NewLogRank(time, status []float64, group []int) *LogRank {

	if len(time) != len(status) || len(time) != len(group) {
		msg := fmt.Sprintf("LogRank: time, status and group have lengths %d, %d, %d\n",
			len(time), len(status), len(group))
		panic(msg)
	}

	for i, s := range status {
		if s != 0 && s != 1 {
			msg := fmt.Sprintf("LogRank: status of case %d is %v, must be 0 or 1\n", i, s)
			panic(msg)
		}
	}

	ngroup := 0
	for _, g := range group {
		if g < 0 {
			panic("LogRank: group labels must be non-negative\n")
		}
		if g+1 > ngroup {
			ngroup = g + 1
		}
	}

	return &LogRank{
		time:   time,
		status: status,
		group:  group,
		ngroup: ngroup,
	}
}

// NumGroups sets the number of groups.  Groups with labels beyond the
// largest observed label are empty.  The value is ignored if it is
// smaller than the number of groups present in the data.
func (lr *LogRank) NumGroups(k int) *LogRank {
	if k > lr.ngroup {
		lr.ngroup = k
	}
	return lr
}

// Done computes the test statistic.
func (lr *LogRank) Done() *LogRank {

	k := lr.ngroup

	lr.nobs = make([]int, k)
	for _, g := range lr.group {
		lr.nobs[g]++
	}

	lr.obs = make([]float64, k)
	lr.exp = make([]float64, k)
	lr.vcov = make([]float64, k*k)

	// Observed and expected counts are reported even when the
	// statistic is zero by convention.
	nevent := lr.accumulate()
	if lr.Degenerate() || nevent == 0 {
		lr.chisq = 0
		lr.df = 0
		return lr
	}

	lr.chisq, lr.df = quadForm(lr.obs, lr.exp, lr.vcov, k)

	return lr
}

// accumulate walks the distinct times in decreasing order so that the
// risk sets can be grown incrementally.  It returns the total number
// of events.
func (lr *LogRank) accumulate() float64 {

	k := lr.ngroup
	n := len(lr.time)

	ii := make([]int, n)
	for i := range ii {
		ii[i] = i
	}
	sort.Slice(ii, func(a, b int) bool {
		return lr.time[ii[a]] > lr.time[ii[b]]
	})

	// Number at risk in each group
	nrisk := make([]float64, k)

	// Number of events in each group at the current time
	dk := make([]float64, k)

	var total float64
	for i := 0; i < n; {

		t := lr.time[ii[i]]
		for j := range dk {
			dk[j] = 0
		}

		// Everyone with this time enters the risk set
		for ; i < n && lr.time[ii[i]] == t; i++ {
			r := ii[i]
			g := lr.group[r]
			nrisk[g]++
			if lr.status[r] == 1 {
				dk[g]++
			}
		}

		var d, nr float64
		for j := 0; j < k; j++ {
			d += dk[j]
			nr += nrisk[j]
		}
		if d == 0 {
			continue
		}
		total += d

		for j := 0; j < k; j++ {
			lr.obs[j] += dk[j]
			lr.exp[j] += d * nrisk[j] / nr
		}

		// Hypergeometric covariance, undefined when only one
		// case is at risk.
		if nr < 2 {
			continue
		}
		f := d * (nr - d) / (nr - 1) / nr
		for j1 := 0; j1 < k; j1++ {
			for j2 := 0; j2 < k; j2++ {
				v := -f * nrisk[j1] * nrisk[j2] / nr
				if j1 == j2 {
					v += f * nrisk[j1]
				}
				lr.vcov[j1*k+j2] += v
			}
		}
	}

	return total
}

// quadForm returns (o-e)' V^- (o-e) and the rank of V, where V^- is
// the Moore-Penrose inverse of V.
func quadForm(obs, exp, vcov []float64, k int) (float64, int) {

	u := make([]float64, k)
	for j := range u {
		u[j] = obs[j] - exp[j]
	}

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(k, k, vcov), mat.SVDThin) {
		panic("LogRank: SVD of covariance matrix failed\n")
	}

	rank := svd.Rank(rankTol)
	if rank == 0 {
		return 0, 0
	}

	uv := mat.NewVecDense(k, u)
	var x mat.VecDense
	svd.SolveVecTo(&x, uv, rank)

	chisq := mat.Dot(uv, &x)
	if chisq < 0 {
		// Roundoff only, V is positive semi-definite
		chisq = 0
	}

	return chisq, rank
}

// ChiSquare returns the log-rank test statistic.
func (lr *LogRank) ChiSquare() float64 {
	return lr.chisq
}

// DF returns the degrees of freedom of the reference chi-square
// distribution, the rank of the covariance of observed minus expected
// events.
func (lr *LogRank) DF() int {
	return lr.df
}

// PValue returns the upper tail probability of the test statistic.
func (lr *LogRank) PValue() float64 {
	if lr.df == 0 {
		return 1
	}
	return distuv.ChiSquared{K: float64(lr.df)}.Survival(lr.chisq)
}

// Observed returns the observed number of events in each group.
func (lr *LogRank) Observed() []float64 {
	return lr.obs
}

// Expected returns the number of events expected in each group under
// the null hypothesis of equal hazards.
func (lr *LogRank) Expected() []float64 {
	return lr.exp
}

// GroupSizes returns the number of cases in each group.
func (lr *LogRank) GroupSizes() []int {
	return lr.nobs
}

// Degenerate reports whether the partition has fewer than two
// non-empty groups.
func (lr *LogRank) Degenerate() bool {
	nonempty := 0
	for _, n := range lr.nobs {
		if n > 0 {
			nonempty++
		}
	}
	return nonempty < 2
}

package cutpoint

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// ErrNoEligibleCutpoint is returned when every candidate leaves a
// group smaller than the minimum group size.
var ErrNoEligibleCutpoint = errors.New("no cutpoint satisfies the minimum group size")

// SingleChoice is the selected single cutpoint.
type SingleChoice struct {

	// Threshold is the median of the thresholds sharing the largest
	// chi-square statistic.
	Threshold float64

	ChiSq float64

	// Tied holds the eligible rows sharing the largest statistic, in
	// table order.
	Tied []SingleRow
}

// Eligible reports whether a partition whose smallest group has minN
// subjects and whose statistic is chisq can be selected.
func Eligible(minN int, chisq float64, minSize int) bool {
	return minN >= minSize && !math.IsNaN(chisq)
}

// BestSingle selects the threshold with the largest chi-square
// statistic among rows whose groups all have at least minSize
// subjects.  Ties are resolved by taking the median of the tied
// thresholds.
func BestSingle(rows []SingleRow, minSize int) (SingleChoice, error) {

	var tied []SingleRow
	for _, r := range rows {
		if !Eligible(r.MinN, r.ChiSq, minSize) {
			continue
		}
		switch {
		case len(tied) == 0 || r.ChiSq > tied[0].ChiSq:
			tied = append(tied[:0], r)
		case r.ChiSq == tied[0].ChiSq:
			tied = append(tied, r)
		}
	}

	if len(tied) == 0 {
		return SingleChoice{}, ErrNoEligibleCutpoint
	}

	th := make([]float64, len(tied))
	for i, r := range tied {
		th[i] = r.Threshold
	}
	sort.Float64s(th)

	med := th[len(th)/2]
	if len(th)%2 == 0 {
		med = (th[len(th)/2-1] + med) / 2
	}

	return SingleChoice{
		Threshold: med,
		ChiSq:     tied[0].ChiSq,
		Tied:      tied,
	}, nil
}

// BestDouble selects the pair of thresholds with the largest
// chi-square statistic among rows whose groups all have at least
// minSize subjects.  Ties are resolved by taking the first tied row.
func BestDouble(rows []DoubleRow, minSize int) (DoubleRow, error) {

	best := -1
	for i, r := range rows {
		if !Eligible(r.MinN, r.ChiSq, minSize) {
			continue
		}
		if best == -1 || r.ChiSq > rows[best].ChiSq {
			best = i
		}
	}

	if best == -1 {
		return DoubleRow{}, ErrNoEligibleCutpoint
	}

	return rows[best], nil
}

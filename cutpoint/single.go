package cutpoint

import (
	"github.com/sirupsen/logrus"

	"github.com/jessicascarborough/sbrt-src-surv/cohort"
	"github.com/jessicascarborough/sbrt-src-surv/duration"
)

var log = logrus.WithField("component", "cutpoint")

// DefaultMinGroupSize is the smallest group allowed in a selected
// partition.
const DefaultMinGroupSize = 5

// Options configures the cutpoint searches.
type Options struct {

	// Grid defines the candidate thresholds
	Grid Grid

	// Workers is the number of first thresholds of the double search
	// that are swept concurrently.  Values below 2 run sequentially.
	Workers int
}

// DefaultOptions returns the default grid with a sequential sweep.
func DefaultOptions() Options {
	return Options{
		Grid:    DefaultGrid(),
		Workers: 1,
	}
}

// SingleRow is the log-rank comparison of the two groups defined by a
// threshold: values at or below the threshold, and values above it.
type SingleRow struct {
	Threshold float64
	LowN      int
	HighN     int
	ChiSq     float64
	MinN      int
}

// scorer evaluates partitions of one cohort.  The label slice is
// reused between calls and must not be shared between goroutines.
type scorer struct {
	sizes  []float64
	times  []float64
	status []float64
	group  []int
}

func newScorer(c *cohort.Cohort) *scorer {
	return &scorer{
		sizes:  c.Sizes(),
		times:  c.Times(),
		status: c.Status(),
		group:  make([]int, c.Len()),
	}
}

// split labels each subject with the number of cuts strictly below its
// value and returns the group sizes.
func (s *scorer) split(cuts ...float64) []int {
	counts := make([]int, len(cuts)+1)
	for i, v := range s.sizes {
		g := 0
		for g < len(cuts) && v > cuts[g] {
			g++
		}
		s.group[i] = g
		counts[g]++
	}
	return counts
}

// chiSquare returns the log-rank statistic for the current labels.
// Partitions with an empty group score zero.
func (s *scorer) chiSquare(ngroup int) float64 {
	return duration.NewLogRank(s.times, s.status, s.group).NumGroups(ngroup).Done().ChiSquare()
}

func minInt(x ...int) int {
	m := x[0]
	for _, v := range x[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// SearchSingle scores every grid threshold of the cohort's predictor.
// Rows are returned in grid order, one per candidate, including
// candidates that leave a group empty.
func SearchSingle(c *cohort.Cohort, opts Options) ([]SingleRow, error) {

	if err := opts.Grid.Validate(); err != nil {
		return nil, err
	}

	sc := newScorer(c)
	cand := opts.Grid.Candidates(sc.sizes)

	log.WithFields(logrus.Fields{
		"outcome":    c.Outcome(),
		"n":          c.Len(),
		"candidates": len(cand),
	}).Debug("single cutpoint search")

	rows := make([]SingleRow, len(cand))
	for j, t := range cand {
		counts := sc.split(t)
		rows[j] = SingleRow{
			Threshold: t,
			LowN:      counts[0],
			HighN:     counts[1],
			ChiSq:     sc.chiSquare(2),
			MinN:      minInt(counts...),
		}
	}

	return rows, nil
}

// Package cutpoint searches a continuous predictor for the thresholds
// that best separate the survival experience of a cohort, scoring each
// candidate partition with the log-rank test.
package cutpoint

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// QuantileMethod selects the sample quantile definition used to build
// the candidate grid.
type QuantileMethod string

const (
	// Type7 interpolates linearly between order statistics at
	// position (n-1)p (Hyndman and Fan definition 7).
	Type7 QuantileMethod = "type7"

	// Empirical is the inverse of the empirical distribution function.
	Empirical QuantileMethod = "empirical"

	// LinInterp interpolates the empirical distribution function.
	LinInterp QuantileMethod = "lininterp"
)

// Grid describes a set of candidate thresholds: sample quantiles at
// probabilities 0, Step, 2*Step, ..., 1 with Trim points dropped from
// each end.
type Grid struct {
	Step   float64        `yaml:"step"`
	Trim   int            `yaml:"trim"`
	Method QuantileMethod `yaml:"method"`
}

// DefaultGrid returns the 1% grid with five points trimmed from each
// tail, which has 91 points.
func DefaultGrid() Grid {
	return Grid{
		Step:   0.01,
		Trim:   5,
		Method: Type7,
	}
}

// intervals returns the number of probability intervals, 1/Step.
func (g Grid) intervals() int {
	return int(math.Round(1 / g.Step))
}

// Validate checks that the grid has at least one point.
func (g Grid) Validate() error {

	if !(g.Step > 0 && g.Step <= 1) {
		return errors.Errorf("grid step %v is not in (0, 1]", g.Step)
	}

	m := g.intervals()
	if math.Abs(float64(m)*g.Step-1) > 1e-9 {
		return errors.Errorf("grid step %v does not divide 1", g.Step)
	}

	if g.Trim < 0 || 2*g.Trim > m {
		return errors.Errorf("cannot trim %d points from each end of a %d point grid", g.Trim, m+1)
	}

	switch g.Method {
	case Type7, Empirical, LinInterp, "":
	default:
		return errors.Errorf("unknown quantile method '%s'", g.Method)
	}

	return nil
}

// Len returns the number of candidates produced for a non-empty sample.
func (g Grid) Len() int {
	return g.intervals() + 1 - 2*g.Trim
}

// Probs returns the probabilities of the retained grid points.
func (g Grid) Probs() []float64 {
	m := g.intervals()
	var p []float64
	for i := g.Trim; i <= m-g.Trim; i++ {
		p = append(p, float64(i)/float64(m))
	}
	return p
}

// Candidates returns the grid quantiles of values in non-decreasing
// order.  Repeated values are not removed.  An empty sample has no
// candidates.
func (g Grid) Candidates(values []float64) []float64 {

	if len(values) == 0 {
		return nil
	}

	x := make([]float64, len(values))
	copy(x, values)
	sort.Float64s(x)

	m := g.intervals()
	cand := make([]float64, 0, g.Len())
	for i := g.Trim; i <= m-g.Trim; i++ {
		switch g.Method {
		case Empirical:
			cand = append(cand, stat.Quantile(float64(i)/float64(m), stat.Empirical, x, nil))
		case LinInterp:
			cand = append(cand, stat.Quantile(float64(i)/float64(m), stat.LinInterp, x, nil))
		default:
			cand = append(cand, type7(x, i, m))
		}
	}

	return cand
}

// type7 returns the type 7 quantile of the sorted sample x at
// probability i/m.  The position (n-1)i/m is computed in integers so
// grid points that fall on an order statistic are reproduced exactly.
func type7(x []float64, i, m int) float64 {

	num := (len(x) - 1) * i
	lo := num / m
	rem := num % m
	if rem == 0 {
		return x[lo]
	}

	h := float64(rem) / float64(m)
	return x[lo] + h*(x[lo+1]-x[lo])
}

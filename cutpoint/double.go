package cutpoint

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jessicascarborough/sbrt-src-surv/cohort"
)

// DoubleRow is the log-rank comparison of the three groups defined by
// an ordered pair of thresholds: values at or below T1, values in
// (T1, T2], and values above T2.
type DoubleRow struct {
	T1      float64
	T2      float64
	LowN    int
	MiddleN int
	HighN   int
	ChiSq   float64
	MinN    int
}

// ConditionalGrid returns the second threshold candidates for the
// first threshold t1, the grid quantiles of the values strictly above
// t1, together with the number of such values.
func ConditionalGrid(values []float64, t1 float64, g Grid) ([]float64, int) {

	var sub []float64
	for _, v := range values {
		if v > t1 {
			sub = append(sub, v)
		}
	}

	return g.Candidates(sub), len(sub)
}

// sweep scores every second threshold paired with t1.
func (s *scorer) sweep(ctx context.Context, t1 float64, g Grid) ([]DoubleRow, error) {

	second, _ := ConditionalGrid(s.sizes, t1, g)

	rows := make([]DoubleRow, 0, len(second))
	for _, t2 := range second {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		counts := s.split(t1, t2)
		rows = append(rows, DoubleRow{
			T1:      t1,
			T2:      t2,
			LowN:    counts[0],
			MiddleN: counts[1],
			HighN:   counts[2],
			ChiSq:   s.chiSquare(3),
			MinN:    minInt(counts...),
		})
	}

	return rows, nil
}

// SearchDouble scores every ordered pair of thresholds in which the
// first threshold is a grid point of the predictor and the second is a
// grid point of the predictor values above the first.  Rows are
// ordered by first threshold, then by second threshold, whether or not
// the first thresholds are swept concurrently.
func SearchDouble(ctx context.Context, c *cohort.Cohort, opts Options) ([]DoubleRow, error) {

	if err := opts.Grid.Validate(); err != nil {
		return nil, err
	}

	first := opts.Grid.Candidates(c.Sizes())

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	log.WithFields(logrus.Fields{
		"outcome":    c.Outcome(),
		"n":          c.Len(),
		"candidates": len(first),
		"workers":    workers,
	}).Debug("double cutpoint search")

	blocks := make([][]DoubleRow, len(first))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, t1 := range first {
		i, t1 := i, t1
		eg.Go(func() error {
			rows, err := newScorer(c).sweep(ctx, t1, opts.Grid)
			if err != nil {
				return err
			}
			blocks[i] = rows
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, errors.Wrapf(err, "double cutpoint search for %s", c.Outcome())
	}

	var n int
	for _, b := range blocks {
		n += len(b)
	}
	rows := make([]DoubleRow, 0, n)
	for _, b := range blocks {
		rows = append(rows, b...)
	}

	return rows, nil
}

package cutpoint

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jessicascarborough/sbrt-src-surv/cohort"
	"github.com/jessicascarborough/sbrt-src-surv/duration"
)

func mustCohort(t *testing.T, sizes, times []float64, events []bool) *cohort.Cohort {
	c, err := cohort.New(cohort.OS, sizes, times, events)
	require.NoError(t, err)
	return c
}

// uniformCohort has predictor values 1, ..., n with an event for every
// subject at time equal to its predictor value.
func uniformCohort(t *testing.T, n int) *cohort.Cohort {
	var sizes, times []float64
	var events []bool
	for i := 1; i <= n; i++ {
		sizes = append(sizes, float64(i))
		times = append(times, float64(i))
		events = append(events, true)
	}
	return mustCohort(t, sizes, times, events)
}

// simCohort returns a censored cohort in which larger values have a
// higher hazard.
func simCohort(t *testing.T, n int, seed int64) *cohort.Cohort {
	rng := rand.New(rand.NewSource(seed))
	sizes := make([]float64, n)
	times := make([]float64, n)
	events := make([]bool, n)
	for i := range sizes {
		sizes[i] = math.Round(10*(0.5+7.5*rng.Float64())) / 10
		ev := rng.ExpFloat64() / math.Exp(0.4*sizes[i]) * 60
		ce := 80 * rng.Float64()
		times[i] = math.Min(ev, ce)
		events[i] = ev <= ce
	}
	return mustCohort(t, sizes, times, events)
}

func TestSearchSingleUniform(t *testing.T) {

	c := uniformCohort(t, 20)

	rows, err := SearchSingle(c, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 91)

	for _, r := range rows {
		assert.Equal(t, 20, r.LowN+r.HighN)
		assert.True(t, r.ChiSq >= 0)
		assert.Equal(t, minInt(r.LowN, r.HighN), r.MinN)
		assert.Equal(t, int(math.Floor(r.Threshold)), r.LowN)
	}

	// Compare one row with a direct log-rank test
	r := rows[45]
	group := make([]int, 20)
	for i, v := range c.Sizes() {
		if v > r.Threshold {
			group[i] = 1
		}
	}
	lr := duration.NewLogRank(c.Times(), c.Status(), group).Done()
	assert.Equal(t, lr.ChiSquare(), r.ChiSq)
}

// A subject equal to the threshold is in the lower group.
func TestSearchSingleBoundary(t *testing.T) {

	var sizes, times []float64
	var events []bool
	for i := 0; i <= 20; i++ {
		sizes = append(sizes, float64(i))
		times = append(times, float64(30-i))
		events = append(events, i%3 != 0)
	}
	c := mustCohort(t, sizes, times, events)

	rows, err := SearchSingle(c, DefaultOptions())
	require.NoError(t, err)

	var found int
	for _, r := range rows {
		if r.Threshold == 10 {
			found++
			assert.Equal(t, 11, r.LowN)
			assert.Equal(t, 10, r.HighN)
		}
	}
	assert.Equal(t, 1, found)
}

// A constant predictor gives 91 identical partitions with an empty
// upper group, none of which can be selected.
func TestSearchSingleConstant(t *testing.T) {

	sizes := constant(12, 2)
	var times []float64
	var events []bool
	for i := 0; i < 12; i++ {
		times = append(times, float64(i+1))
		events = append(events, i%2 == 0)
	}
	c := mustCohort(t, sizes, times, events)

	rows, err := SearchSingle(c, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 91)

	for _, r := range rows {
		assert.Equal(t, 2.0, r.Threshold)
		assert.Equal(t, 12, r.LowN)
		assert.Equal(t, 0, r.HighN)
		assert.Equal(t, 0.0, r.ChiSq)
		assert.Equal(t, 0, r.MinN)
	}

	_, err = BestSingle(rows, DefaultMinGroupSize)
	assert.ErrorIs(t, err, ErrNoEligibleCutpoint)
}

func TestSearchSingleEmpty(t *testing.T) {

	c := mustCohort(t, nil, nil, nil)
	rows, err := SearchSingle(c, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearchSingleBadGrid(t *testing.T) {

	opts := DefaultOptions()
	opts.Grid.Step = 0.3
	_, err := SearchSingle(uniformCohort(t, 10), opts)
	assert.Error(t, err)
}

func TestSearchSingleCensored(t *testing.T) {

	c := simCohort(t, 80, 42)

	rows, err := SearchSingle(c, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 91)

	prev := math.Inf(-1)
	for _, r := range rows {
		assert.Equal(t, 80, r.LowN+r.HighN)
		assert.True(t, r.ChiSq >= 0)
		assert.True(t, r.Threshold >= prev)
		prev = r.Threshold
	}

	best, err := BestSingle(rows, DefaultMinGroupSize)
	require.NoError(t, err)
	assert.True(t, best.ChiSq > 0)
	for _, r := range best.Tied {
		assert.True(t, r.MinN >= DefaultMinGroupSize)
	}
}

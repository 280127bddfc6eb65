package duration

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Concordance calculates the survival concordance of Uno et al.
// (https://www.ncbi.nlm.nih.gov/pmc/articles/PMC3079915).  Higher
// scores are taken to indicate higher risk, so a concordance above
// one half means that cases with larger scores tend to fail first.
type Concordance struct {

	// The risk scores that are being assessed
	score []float64

	// Event or censoring time
	time []float64

	// Event status
	status []float64

	// Number of pairs to sample when estimating the concordance
	npair int

	// Seed for the pair sampler
	seed int64

	// The survival function for the censoring distribution
	sf *SurvfuncRight
}

// NewConcordance creates a new Concordance value with the given parameters.
func NewConcordance(time, status, score []float64) *Concordance {

	return &Concordance{
		time:   time,
		status: status,
		score:  score,
		npair:  10000,
		seed:   1,
	}
}

// NumPair sets the number of pairs of observations sampled at random
// to estimate the concordance.
func (c *Concordance) NumPair(npair int) *Concordance {
	c.npair = npair
	return c
}

// Seed sets the seed of the random pair sampler.
func (c *Concordance) Seed(seed int64) *Concordance {
	c.seed = seed
	return c
}

// Done signals that the Concordance value has been built and now can be fit.
func (c *Concordance) Done() *Concordance {

	// Sort everything by time
	n := len(c.time)
	ii := make([]int, n)
	time1 := make([]float64, n)
	statusr := make([]float64, n)
	status1 := make([]float64, n)
	score1 := make([]float64, n)
	copy(time1, c.time)
	floats.Argsort(time1, ii)
	ncens := 0.0
	for i, j := range ii {
		// We want the survival function for censoring
		statusr[i] = 1 - c.status[j]
		status1[i] = c.status[j]
		score1[i] = c.score[j]
		ncens += statusr[i]
	}

	c.sf = NewSurvfuncRight(time1, statusr).Done()
	if ncens == 0 {
		// No censoring, P(C>t) = 1 for all t.
		c.sf.times = []float64{0, math.Inf(1)}
		c.sf.survProb = []float64{1, 1}
	}

	c.time = time1
	c.status = status1
	c.score = score1

	return c
}

// Concordance returns the concordance statistic for pairs whose
// earlier time falls below the truncation point.  NaN is returned if
// no comparable pair can be found.
func (c *Concordance) Concordance(trunc float64) float64 {

	n := len(c.time)

	jt := sort.SearchFloat64s(c.time, trunc)
	if jt == 0 || n < 2 {
		return math.NaN()
	}

	rng := rand.New(rand.NewSource(c.seed))

	st := c.sf.Time()
	sp := c.sf.SurvProb()

	var numer, denom float64
	maxDraw := 100 * c.npair

	for i, draws := 0, 0; i < c.npair; i++ {

		// Find a comparable pair: the first case fails before the
		// second case's time.
		var j1, j2 int
		for {
			draws++
			if draws > maxDraw {
				if denom == 0 {
					return math.NaN()
				}
				return numer / denom
			}
			j1 = rng.Intn(jt)
			j2 = rng.Intn(n)
			if j2 > j1 && c.time[j1] < c.time[j2] && c.status[j1] == 1 {
				break
			}
		}

		// Censoring survival just before the earlier time
		jj := sort.SearchFloat64s(st, c.time[j1])
		g := 1.0
		if jj > 0 {
			g = sp[jj-1]
		}
		if g == 0 {
			continue
		}

		denom += 1 / (g * g)
		if c.score[j1] > c.score[j2] {
			numer += 1 / (g * g)
		}
	}

	if denom == 0 {
		return math.NaN()
	}
	return numer / denom
}

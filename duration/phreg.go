// Package duration supports statistical analysis of duration data
// (survival analysis): Kaplan-Meier survival functions, the log-rank
// test, proportional hazards regression and survival concordance.
package duration

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/jessicascarborough/sbrt-src-surv/statmodel"
)

// PHParameter contains a parameter value for a proportional hazards
// regression model.
type PHParameter struct {
	coeff []float64
}

// GetCoeff returns the array of model coefficients from a parameter value.
func (p *PHParameter) GetCoeff() []float64 {
	return p.coeff
}

// SetCoeff sets the array of model coefficients for a parameter value.
func (p *PHParameter) SetCoeff(x []float64) {
	p.coeff = x
}

// Clone returns a deep copy of the parameter value.
func (p *PHParameter) Clone() statmodel.Parameter {
	q := make([]float64, len(p.coeff))
	copy(q, p.coeff)
	return &PHParameter{q}
}

// PHReg describes a proportional hazards regression model for right
// censored data.
type PHReg struct {

	// The names of the variables.  The order agrees with the order of 'data'.
	varnames []string

	// The data to which the model is fit
	data [][]statmodel.Dtype

	// Starting values, optional
	start []float64

	// Positions of the time and status variables
	timepos   int
	statuspos int

	// Positions of the optional entry time, offset, case weight and
	// stratum variables, -1 if absent
	entrypos  int
	offsetpos int
	weightpos int
	stratapos int

	// Start and end position of the strata
	stratumix [][2]int

	// The sorted times at which events occur in each stratum
	etimes [][]float64

	// enter[i][j] are the row indices that enter the risk set at
	// the jth distinct time in stratum i
	enter [][][]int

	// event[i][j] are the row indices that have an event at
	// the jth distinct time in stratum i
	event [][][]int

	// exit[i][j] are the row indices that exit the risk set at
	// the jth distinct time in stratum i
	exit [][][]int

	// The sum of covariates with events in each stratum
	sumx [][]float64

	// L2 (ridge) weights for each covariate
	l2wgt []float64

	// The positions of the covariates in data
	xpos []int

	// If skip[i] is true, case i is skipped since it is censored before the first event.
	skip []bool

	// The number of cases that are skipped because they are censored before the first event
	skipEarlyCensor int

	optsettings *optimize.Settings
	optmethod   optimize.Method

	log logrus.FieldLogger

	nslices [][]float64
}

// NumObs returns the number of observations in the data set.
func (ph *PHReg) NumObs() int {
	return len(ph.data[0])
}

// NumParams returns the number of model parameters (regression coefficients).
func (ph *PHReg) NumParams() int {
	return len(ph.xpos)
}

// Dataset returns the data columns that are used to fit the model.
func (ph *PHReg) Dataset() [][]statmodel.Dtype {
	return ph.data
}

// Xpos return the positions of the covariates in the model's data.
func (ph *PHReg) Xpos() []int {
	return ph.xpos
}

// PHRegConfig defines configuration parameters for a proportional hazards regression.
type PHRegConfig struct {

	// Log receives diagnostics when the optimization fails.  If nil
	// the standard logrus logger is used.
	Log logrus.FieldLogger

	// Start contains starting values for the regression parameter estimates
	Start []float64

	// WeightVar is the name of the variable for frequency-weighting the cases, if an empty
	// string, all weights are equal to 1.
	WeightVar string

	// OffsetVar is the name of a variable that defines an offset.
	OffsetVar string

	// StrataVar is the name of a variable that defines strata.
	StrataVar string

	// EntryVar is the name of a variable that defines entry (left truncation) times.
	EntryVar string

	// L2Penalty maps covariate names to ridge penalty weights.
	L2Penalty map[string]float64

	// OptMethod is the Gonum optimization used to fit the model.
	OptMethod optimize.Method

	// OptSettings configures the Gonum optimization routine.
	OptSettings *optimize.Settings
}

// DefaultPHRegConfig returns a default configuration struct for a proportional hazards regression.
func DefaultPHRegConfig() *PHRegConfig {

	return &PHRegConfig{
		OptMethod: &optimize.BFGS{
			Linesearcher: &optimize.MoreThuente{},
		},
	}
}

// NewPHReg returns a PHReg value that can be used to fit a
// proportional hazards regression model.  The data are reordered in
// place when a stratum variable is given.
func NewPHReg(data statmodel.Dataset, time, status string, predictors []string, config *PHRegConfig) (*PHReg, error) {

	if config == nil {
		config = DefaultPHRegConfig()
	}

	pos := make(map[string]int)
	for i, v := range data.Names() {
		pos[v] = i
	}

	getpos := func(vn, role string) (int, error) {
		if vn == "" {
			return -1, nil
		}
		loc, ok := pos[vn]
		if !ok {
			return -1, errors.Errorf("%s variable '%s' not found in dataset", role, vn)
		}
		return loc, nil
	}

	timepos, err := getpos(time, "Time")
	if err != nil {
		return nil, err
	}
	statuspos, err := getpos(status, "Status")
	if err != nil {
		return nil, err
	}
	if timepos == -1 || statuspos == -1 {
		return nil, errors.New("time and status variables are required")
	}

	var xpos []int
	for _, xna := range predictors {
		xp, err := getpos(xna, "Predictor")
		if err != nil {
			return nil, err
		}
		xpos = append(xpos, xp)
	}
	if len(xpos) == 0 {
		return nil, errors.New("at least one predictor is required")
	}

	ph := &PHReg{
		data:        data.Data(),
		varnames:    data.Names(),
		timepos:     timepos,
		statuspos:   statuspos,
		xpos:        xpos,
		start:       config.Start,
		log:         config.Log,
		optsettings: config.OptSettings,
		optmethod:   config.OptMethod,
	}

	for _, v := range []struct {
		name string
		role string
		dst  *int
	}{
		{config.WeightVar, "Weight", &ph.weightpos},
		{config.StrataVar, "Strata", &ph.stratapos},
		{config.OffsetVar, "Offset", &ph.offsetpos},
		{config.EntryVar, "Entry", &ph.entrypos},
	} {
		if *v.dst, err = getpos(v.name, v.role); err != nil {
			return nil, err
		}
	}

	if len(config.L2Penalty) > 0 {
		ph.l2wgt = make([]float64, len(xpos))
		for j, k := range xpos {
			ph.l2wgt[j] = config.L2Penalty[ph.varnames[k]]
		}
	}

	if ph.log == nil {
		ph.log = logrus.StandardLogger()
	}

	if err := ph.init(); err != nil {
		return nil, err
	}

	return ph, nil
}

func (ph *PHReg) init() error {
	ph.sortByStratum()
	if err := ph.setupTimes(); err != nil {
		return err
	}
	ph.setupCovs()
	return nil
}

type argsort struct {
	s    []statmodel.Dtype
	inds []int
}

func (a argsort) Len() int {
	return len(a.s)
}

func (a argsort) Swap(i, j int) {
	a.s[i], a.s[j] = a.s[j], a.s[i]
	a.inds[i], a.inds[j] = a.inds[j], a.inds[i]
}

func (a argsort) Less(i, j int) bool {
	return a.s[i] < a.s[j]
}

func (ph *PHReg) sortByStratum() {

	nobs := len(ph.data[ph.timepos])

	if ph.stratapos == -1 {
		ph.stratumix = [][2]int{{0, nobs}}
		return
	}

	strata := ph.data[ph.stratapos]

	inds := make([]int, nobs)
	for i := range inds {
		inds[i] = i
	}
	sort.Stable(argsort{s: strata, inds: inds})

	tmp := make([]statmodel.Dtype, nobs)

	re := func(pos int) {
		if pos == -1 {
			return
		}
		x := ph.data[pos]
		for i, j := range inds {
			tmp[i] = x[j]
		}
		copy(x, tmp)
	}

	re(ph.timepos)
	re(ph.statuspos)
	re(ph.offsetpos)
	re(ph.weightpos)
	re(ph.entrypos)

	done := make(map[int]bool)
	for _, k := range ph.xpos {
		if !done[k] {
			re(k)
			done[k] = true
		}
	}

	var i0 int
	for i := 0; i <= len(strata); i++ {
		if i == len(strata) || (i > 0 && strata[i-1] != strata[i]) {
			ph.stratumix = append(ph.stratumix, [2]int{i0, i})
			i0 = i
		}
	}
}

func (ph *PHReg) setupTimes() error {

	ph.skipEarlyCensor = 0

	time := ph.data[ph.timepos]
	status := ph.data[ph.statuspos]
	nobs := len(time)

	// Track cases that are omitted since they are
	// censored before the first event in their stratum.
	ph.skip = make([]bool, nobs)

	for _, ix := range ph.stratumix {

		// Sorted distinct event times
		var et []float64
		for i := ix[0]; i < ix[1]; i++ {
			if time[i] < 0 {
				return errors.Errorf("PHReg: times cannot be negative (case %d)", i)
			}
			if status[i] == 1 {
				et = append(et, time[i])
			} else if status[i] != 0 {
				return errors.Errorf("PHReg: status variable '%s' has values other than 0 and 1",
					ph.varnames[ph.statuspos])
			}
		}

		if len(et) > 0 {
			sort.Float64s(et)
			j := 0
			for i := 1; i < len(et); i++ {
				if et[i] != et[j] {
					j++
					et[j] = et[i]
				}
			}
			et = et[0 : j+1]
		}
		ph.etimes = append(ph.etimes, et)

		// Indices of cases that enter or exit the risk set,
		// or have an event at each time point.
		enter := make([][]int, len(et))
		exit := make([][]int, len(et))
		event := make([][]int, len(et))
		ph.enter = append(ph.enter, enter)
		ph.exit = append(ph.exit, exit)
		ph.event = append(ph.event, event)

		// No events in this stratum
		if len(et) == 0 {
			continue
		}

		var entry []statmodel.Dtype
		if ph.entrypos != -1 {
			entry = ph.data[ph.entrypos]
		}

		for i := ix[0]; i < ix[1]; i++ {

			// Last event time at which the case is at risk
			xi := sort.SearchFloat64s(et, time[i])
			if xi == len(et) || et[xi] != time[i] {
				xi--
			}
			if xi < 0 {
				// Censored before the first event
				ph.skip[i] = true
				ph.skipEarlyCensor++
				continue
			}

			// First event time at which the case is at risk
			ei := 0
			if entry != nil {
				t := entry[i]
				if t > time[i] {
					return errors.Errorf("PHReg: entry time after event or censoring time (case %d)", i)
				}
				if t < 0 {
					return errors.Errorf("PHReg: entry times may not be negative (case %d)", i)
				}
				ei = sort.SearchFloat64s(et, t)
			}
			if ei > xi {
				// Enters and leaves between two event times
				ph.skip[i] = true
				continue
			}

			enter[ei] = append(enter[ei], i)
			exit[xi] = append(exit[xi], i)
			if status[i] == 1 {
				event[xi] = append(event[xi], i)
			}
		}
	}

	return nil
}

func (ph *PHReg) putNslice(x []float64) {
	ph.nslices = append(ph.nslices, x)
}

func (ph *PHReg) getNslice() []float64 {

	if len(ph.nslices) == 0 {
		return make([]float64, ph.NumObs())
	}
	q := len(ph.nslices) - 1
	x := ph.nslices[q]
	zero(x)
	ph.nslices = ph.nslices[0:q]

	return x
}

func (ph *PHReg) setupCovs() {

	ph.sumx = ph.sumx[0:0]
	status := ph.data[ph.statuspos]

	var wgt []statmodel.Dtype
	if ph.weightpos != -1 {
		wgt = ph.data[ph.weightpos]
	}

	// Sum of covariates over cases with events, per stratum
	for _, ix := range ph.stratumix {
		sumx := make([]float64, len(ph.xpos))
		for j, k := range ph.xpos {
			x := ph.data[k]
			for i := ix[0]; i < ix[1]; i++ {
				if !ph.skip[i] && status[i] == 1 {
					if wgt == nil {
						sumx[j] += x[i]
					} else {
						sumx[j] += wgt[i] * x[i]
					}
				}
			}
		}
		ph.sumx = append(ph.sumx, sumx)
	}
}

// linpred fills lp with the linear predictor, including the offset.
func (ph *PHReg) linpred(params, lp []float64) {

	for j, k := range ph.xpos {
		x := ph.data[k]
		for i := range x {
			lp[i] += x[i] * params[j]
		}
	}

	if ph.offsetpos != -1 {
		for i, v := range ph.data[ph.offsetpos] {
			lp[i] += v
		}
	}
}

// LogLike returns the log-likelihood at the given parameter value. The 'exact'
// parameter is ignored here.
func (ph *PHReg) LogLike(param statmodel.Parameter, exact bool) float64 {

	coeff := param.GetCoeff()

	ll := ph.breslowLogLike(coeff)

	for j, x := range coeff {
		if ph.l2wgt != nil {
			ll -= ph.l2wgt[j] * x * x
		}
	}

	return ll
}

// breslowLogLike returns the log partial likelihood at the given
// parameter values, using the Breslow method to resolve ties.
func (ph *PHReg) breslowLogLike(params []float64) float64 {

	var wgt []statmodel.Dtype
	if ph.weightpos != -1 {
		wgt = ph.data[ph.weightpos]
	}

	lp := ph.getNslice()
	elp := ph.getNslice()
	ph.linpred(params, lp)

	ql := float64(0)
	for s, ix := range ph.stratumix {

		if ix[1] == ix[0] {
			continue
		}

		// The partial likelihood is invariant to adding a
		// constant to the linear predictor.
		mx := floats.Max(lp[ix[0]:ix[1]])
		for i := ix[0]; i < ix[1]; i++ {
			lp[i] -= mx
			elp[i] = math.Exp(lp[i])
		}
		if wgt != nil {
			for i := ix[0]; i < ix[1]; i++ {
				lp[i] *= wgt[i]
				elp[i] *= wgt[i]
			}
		}

		rlp := float64(0)
		for k := range ph.etimes[s] {

			for _, i := range ph.enter[s][k] {
				rlp += elp[i]
			}

			for _, i := range ph.event[s][k] {
				ql += lp[i]
			}

			d := float64(len(ph.event[s][k]))
			if wgt != nil {
				d = 0
				for _, i := range ph.event[s][k] {
					d += wgt[i]
				}
			}
			ql -= d * math.Log(rlp)

			for _, i := range ph.exit[s][k] {
				rlp -= elp[i]
			}
		}
	}

	ph.putNslice(lp)
	ph.putNslice(elp)

	return ql
}

// BaselineCumHaz returns the Breslow (Nelson-Aalen type) estimator of
// the baseline cumulative hazard function for the given stratum.
func (ph *PHReg) BaselineCumHaz(stratum int, params []float64) ([]float64, []float64) {

	h0 := make([]float64, len(ph.event[stratum]))

	ix := ph.stratumix[stratum]

	lp := make([]float64, ix[1]-ix[0])
	for j, k := range ph.xpos {
		x := ph.data[k]
		for i := ix[0]; i < ix[1]; i++ {
			lp[i-ix[0]] += x[i] * params[j]
		}
	}

	elp := 0.0
	for k := range ph.etimes[stratum] {

		for _, i := range ph.enter[stratum][k] {
			elp += math.Exp(lp[i-ix[0]])
		}

		h0[k] = float64(len(ph.event[stratum][k])) / elp

		for _, i := range ph.exit[stratum][k] {
			elp -= math.Exp(lp[i-ix[0]])
		}
	}

	h1 := make([]float64, len(h0))
	for i := 1; i < len(h0); i++ {
		h1[i] = h1[i-1] + h0[i-1]
	}

	return ph.etimes[stratum], h1
}

func zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}

// Score computes the score vector for the proportional hazards
// regression model at the given parameter setting.
func (ph *PHReg) Score(params statmodel.Parameter, score []float64) {

	coeff := params.GetCoeff()
	ph.breslowScore(coeff, score)

	if ph.l2wgt != nil {
		for j, x := range coeff {
			score[j] -= 2 * ph.l2wgt[j] * x
		}
	}
}

// breslowScore calculates the score vector using the Breslow approach
// to resolving ties.
func (ph *PHReg) breslowScore(params, score []float64) {

	zero(score)

	var wgt []statmodel.Dtype
	if ph.weightpos != -1 {
		wgt = ph.data[ph.weightpos]
	}

	lp := ph.getNslice()
	ph.linpred(params, lp)

	rlpv := make([]float64, len(ph.xpos))

	for s, ix := range ph.stratumix {

		if len(ph.etimes[s]) == 0 {
			continue
		}

		floats.Add(score, ph.sumx[s])

		mx := floats.Max(lp[ix[0]:ix[1]])
		for i := ix[0]; i < ix[1]; i++ {
			lp[i] = math.Exp(lp[i] - mx)
		}
		if wgt != nil {
			for i := ix[0]; i < ix[1]; i++ {
				lp[i] *= wgt[i]
			}
		}

		rlp := float64(0)
		zero(rlpv)
		for q := range ph.etimes[s] {

			for _, i := range ph.enter[s][q] {
				rlp += lp[i]
				for j, k := range ph.xpos {
					rlpv[j] += lp[i] * ph.data[k][i]
				}
			}

			d := float64(len(ph.event[s][q]))
			if wgt != nil {
				d = 0
				for _, i := range ph.event[s][q] {
					d += wgt[i]
				}
			}
			floats.AddScaledTo(score, score, -d/rlp, rlpv)

			for _, i := range ph.exit[s][q] {
				rlp -= lp[i]
				for j, k := range ph.xpos {
					rlpv[j] -= lp[i] * ph.data[k][i]
				}
			}
		}
	}

	ph.putNslice(lp)
}

// Hessian computes the Hessian matrix for the model evaluated at the
// given parameter setting.  The Hessian type parameter is not used
// here.
func (ph *PHReg) Hessian(params statmodel.Parameter, ht statmodel.HessType, hess []float64) {

	coeff := params.GetCoeff()
	ph.breslowHess(coeff, hess)

	p := len(coeff)
	if ph.l2wgt != nil {
		for j := 0; j < p; j++ {
			hess[j*p+j] -= 2 * ph.l2wgt[j]
		}
	}
}

// breslowHess calculates the Hessian matrix of the log partial
// likelihood at the given parameter values.
func (ph *PHReg) breslowHess(params []float64, hess []float64) {

	zero(hess)

	var wgt []statmodel.Dtype
	if ph.weightpos != -1 {
		wgt = ph.data[ph.weightpos]
	}

	lp := make([]float64, ph.NumObs())
	ph.linpred(params, lp)

	p := len(ph.xpos)
	d1s := make([]float64, p)
	d2s := make([]float64, p*p)

	// update adds (sign=1) or removes (sign=-1) case i from the
	// risk set sums.
	update := func(i int, sign float64) {
		for j1, k1 := range ph.xpos {
			x1 := ph.data[k1]
			d1s[j1] += sign * lp[i] * x1[i]
			for j2 := 0; j2 <= j1; j2++ {
				x2 := ph.data[ph.xpos[j2]]
				u := sign * lp[i] * x1[i] * x2[i]
				d2s[j1*p+j2] += u
				if j2 != j1 {
					d2s[j2*p+j1] += u
				}
			}
		}
	}

	for s, ix := range ph.stratumix {

		if ix[1] == ix[0] {
			continue
		}

		mx := floats.Max(lp[ix[0]:ix[1]])
		for i := ix[0]; i < ix[1]; i++ {
			lp[i] = math.Exp(lp[i] - mx)
		}
		if wgt != nil {
			for i := ix[0]; i < ix[1]; i++ {
				lp[i] *= wgt[i]
			}
		}

		rlp := float64(0)
		zero(d1s)
		zero(d2s)

		for k := range ph.etimes[s] {

			for _, i := range ph.enter[s][k] {
				rlp += lp[i]
				update(i, 1)
			}

			d := float64(len(ph.event[s][k]))
			if wgt != nil {
				d = 0
				for _, i := range ph.event[s][k] {
					d += wgt[i]
				}
			}

			jj := 0
			for j1 := 0; j1 < p; j1++ {
				for j2 := 0; j2 < p; j2++ {
					hess[jj] -= d * d2s[j1*p+j2] / rlp
					hess[jj] += d * d1s[j1] * d1s[j2] / (rlp * rlp)
					jj++
				}
			}

			for _, i := range ph.exit[s][k] {
				rlp -= lp[i]
				update(i, -1)
			}
		}
	}
}

func negative(x []float64) {
	for i := range x {
		x[i] *= -1
	}
}

// PHResults describes the results of a proportional hazards model.
type PHResults struct {
	statmodel.BaseResults
}

// HazardRatios returns the exponentiated coefficients.
func (rslt *PHResults) HazardRatios() []float64 {
	hr := make([]float64, len(rslt.Params()))
	for j, b := range rslt.Params() {
		hr[j] = math.Exp(b)
	}
	return hr
}

// ConfInt returns the lower and upper confidence limits for the hazard
// ratios at the given two-sided coverage level.  Nil is returned if
// standard errors are not available.
func (rslt *PHResults) ConfInt(z float64) ([]float64, []float64) {
	se := rslt.StdErr()
	if se == nil {
		return nil, nil
	}
	var lcb, ucb []float64
	for j, b := range rslt.Params() {
		lcb = append(lcb, math.Exp(b-z*se[j]))
		ucb = append(ucb, math.Exp(b+z*se[j]))
	}
	return lcb, ucb
}

// failMessage logs information that can help diagnose optimization failures.
func (ph *PHReg) failMessage(optrslt *optimize.Result) {

	for j, x := range optrslt.X {
		ph.log.WithFields(logrus.Fields{
			"variable": ph.varnames[ph.xpos[j]],
			"value":    x,
			"gradient": optrslt.Gradient[j],
		}).Warn("PHReg: optimization failed at this point")
	}

	status := ph.data[ph.statuspos]
	for s, ix := range ph.stratumix {
		var e float64
		for i := ix[0]; i < ix[1]; i++ {
			e += status[i]
		}
		ph.log.WithFields(logrus.Fields{
			"stratum": s + 1,
			"size":    ix[1] - ix[0],
			"events":  e,
		}).Warn("PHReg: stratum summary")
	}
}

// Fit fits the model to the data.
func (ph *PHReg) Fit() (*PHResults, error) {

	nvar := len(ph.xpos)

	start := make([]float64, nvar)
	if ph.start != nil {
		copy(start, ph.start)
	}

	p := optimize.Problem{
		Func: func(x []float64) float64 {
			return -ph.LogLike(&PHParameter{x}, false)
		},
		Grad: func(grad, x []float64) {
			ph.Score(&PHParameter{x}, grad)
			negative(grad)
		},
	}

	settings := ph.optsettings
	if settings == nil {
		settings = &optimize.Settings{
			GradientThreshold: 1e-5,
		}
	}

	var xna []string
	for _, k := range ph.xpos {
		xna = append(xna, ph.varnames[k])
	}

	optrslt, err := optimize.Minimize(p, start, settings, ph.optmethod)
	if err != nil {
		if optrslt == nil {
			return nil, errors.Wrap(err, "PHReg: optimization failed")
		}

		// Return partial results with an error
		results := &PHResults{
			BaseResults: statmodel.NewBaseResults(ph, -optrslt.F, optrslt.X, xna, nil),
		}
		ph.failMessage(optrslt)
		return results, errors.Wrap(err, "PHReg: optimization did not converge")
	}
	if err = optrslt.Status.Err(); err != nil {
		return nil, errors.Wrap(err, "PHReg: optimization failed")
	}

	param := make([]float64, len(optrslt.X))
	copy(param, optrslt.X)

	vcov, err := statmodel.GetVcov(ph, &PHParameter{param})
	if err != nil {
		ph.log.WithError(err).Warn("PHReg: standard errors are not available")
	}

	results := &PHResults{
		BaseResults: statmodel.NewBaseResults(ph, -optrslt.F, param, xna, vcov),
	}

	return results, nil
}

func (rslt *PHResults) summaryStats() (int, int, int, int) {

	ph := rslt.Model().(*PHReg)
	data := ph.Dataset()

	status := data[ph.statuspos]

	var entry []statmodel.Dtype
	if ph.entrypos != -1 {
		entry = data[ph.entrypos]
	}

	var n, e, pe, ns int
	for _, ix := range ph.stratumix {
		n += ix[1] - ix[0]
		for i := ix[0]; i < ix[1]; i++ {
			e += int(status[i])
			if entry != nil && entry[i] > 0 {
				pe++
			}
		}
		ns++
	}

	return n, e, pe, ns
}

// PHSummary summarizes a fitted proportional hazards regression model.
type PHSummary struct {
	ph      *PHReg
	results *PHResults

	title string

	// Messages that are appended to the table
	messages []string
}

// Summary returns a summary of the model results.
func (rslt *PHResults) Summary() *PHSummary {

	return &PHSummary{
		ph:      rslt.Model().(*PHReg),
		results: rslt,
		title:   "Proportional hazards regression analysis",
	}
}

// Title sets the title of the summary table.
func (phs *PHSummary) Title(title string) *PHSummary {
	phs.title = title
	return phs
}

// String returns a string representation of a summary table for the model.
func (phs *PHSummary) String() string {

	n, e, pe, ns := phs.results.summaryStats()

	ph := phs.ph
	sum := &statmodel.SummaryTable{
		Title: phs.title,
		Msg:   append([]string(nil), phs.messages...),
	}

	sum.Top = append(sum.Top, fmt.Sprintf("  Sample size: %10d", n))
	sum.Top = append(sum.Top, fmt.Sprintf("  Strata:      %10d", ns))
	sum.Top = append(sum.Top, fmt.Sprintf("  Events:      %10d", e))
	sum.Top = append(sum.Top, "  Ties:           Breslow")

	rslt := phs.results
	hr := rslt.HazardRatios()

	if rslt.StdErr() != nil {
		sum.ColNames = []string{"Variable   ", "Coefficient", "SE", "HR", "LCB", "UCB", "Z-score", "P-value"}
		fn := statmodel.FloatFmter
		sum.ColFmt = []statmodel.Fmter{statmodel.StringFmter, fn, fn, fn, fn, fn, fn, fn}
		lcb, ucb := rslt.ConfInt(1.959964)
		sum.Cols = []interface{}{rslt.Names(), rslt.Params(), rslt.StdErr(), hr, lcb, ucb,
			rslt.ZScores(), rslt.PValues()}
	} else {
		sum.ColNames = []string{"Variable   ", "Coefficient", "HR"}
		sum.ColFmt = []statmodel.Fmter{statmodel.StringFmter, statmodel.FloatFmter, statmodel.FloatFmter}
		sum.Cols = []interface{}{rslt.Names(), rslt.Params(), hr}
	}

	if pe > 0 {
		sum.Msg = append(sum.Msg, fmt.Sprintf("%d observations have positive entry times", pe))
	}

	if ph.skipEarlyCensor > 0 {
		sum.Msg = append(sum.Msg, fmt.Sprintf("%d observations dropped for being censored before the first event",
			ph.skipEarlyCensor))
	}

	return sum.String()
}

package duration

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SurvfuncRight uses the method of Kaplan and Meier to estimate the
// survival distribution based on (possibly) right censored data.
// Case weights and entry (left truncation) times are optional.
type SurvfuncRight struct {

	// Minimum of the event time and the censoring time
	time []float64

	// 1 if the event occurred at the time given by time, 0 otherwise
	status []float64

	// Case weights, optional
	weight []float64

	// Entry times, optional
	entry []float64

	// Times at which events occur, sorted.
	times []float64

	// Number of events at each time in times
	nEvents []float64

	// Number of people at risk just before each time in times
	nRisk []float64

	// The estimated survival function evaluated at each time in times
	survProb []float64

	// The standard errors for the estimates in survProb
	survProbSE []float64

	events map[float64]float64
	total  map[float64]float64
	enter  map[float64]float64
}

// NewSurvfuncRight creates a new value for fitting a survival function
// to the given event/censoring times and status values.
func NewSurvfuncRight(time, status []float64) *SurvfuncRight {

	if len(time) != len(status) {
		msg := fmt.Sprintf("SurvfuncRight: time and status have lengths %d and %d\n",
			len(time), len(status))
		panic(msg)
	}

	return &SurvfuncRight{
		time:   time,
		status: status,
	}
}

// Weight specifies case weights.
func (sf *SurvfuncRight) Weight(weight []float64) *SurvfuncRight {
	sf.weight = weight
	return sf
}

// Entry specifies entry times.
func (sf *SurvfuncRight) Entry(entry []float64) *SurvfuncRight {
	sf.entry = entry
	return sf
}

// Time returns the times at which the survival function changes.
func (sf *SurvfuncRight) Time() []float64 {
	return sf.times
}

// NumRisk returns the number of people at risk at each time point
// where the survival function changes.
func (sf *SurvfuncRight) NumRisk() []float64 {
	return sf.nRisk
}

// NumEvents returns the number of events at each time point where the
// survival function changes.
func (sf *SurvfuncRight) NumEvents() []float64 {
	return sf.nEvents
}

// SurvProb returns the estimated survival probabilities at the points
// where the survival function changes.
func (sf *SurvfuncRight) SurvProb() []float64 {
	return sf.survProb
}

// SurvProbSE returns the standard errors of the estimated survival
// probabilities at the points where the survival function changes.
func (sf *SurvfuncRight) SurvProbSE() []float64 {
	return sf.survProbSE
}

// SurvAt returns the estimated probability of surviving beyond time t.
func (sf *SurvfuncRight) SurvAt(t float64) float64 {
	// Index of the first time greater than t
	ii := sort.Search(len(sf.times), func(i int) bool { return sf.times[i] > t })
	if ii == 0 {
		return 1
	}
	return sf.survProb[ii-1]
}

// Median returns the smallest time at which the estimated survival
// probability is at or below one half, or +Inf if the curve never
// reaches one half.
func (sf *SurvfuncRight) Median() float64 {
	for i, p := range sf.survProb {
		if p <= 0.5 {
			return sf.times[i]
		}
	}
	return math.Inf(1)
}

func (sf *SurvfuncRight) scanData() {

	sf.events = make(map[float64]float64)
	sf.total = make(map[float64]float64)
	sf.enter = make(map[float64]float64)

	for i, t := range sf.time {

		w := float64(1)
		if sf.weight != nil {
			w = sf.weight[i]
		}

		if sf.status[i] == 1 {
			sf.events[t] += w
		}
		sf.total[t] += w

		if sf.entry != nil {
			if sf.entry[i] >= t {
				msg := fmt.Sprintf("SurvfuncRight: entry time of case %d is not before its event/censoring time\n", i)
				panic(msg)
			}
			sf.enter[sf.entry[i]] += w
		}
	}
}

func rollback(x []float64) {
	var z float64
	for i := len(x) - 1; i >= 0; i-- {
		z += x[i]
		x[i] = z
	}
}

func (sf *SurvfuncRight) eventstats() {

	// Sorted distinct times (event or censoring)
	sf.times = make([]float64, 0, len(sf.total))
	for t := range sf.total {
		sf.times = append(sf.times, t)
	}
	sort.Float64s(sf.times)

	// Weighted event count and risk set size at each time point
	sf.nEvents = make([]float64, len(sf.times))
	sf.nRisk = make([]float64, len(sf.times))
	for i, t := range sf.times {
		sf.nEvents[i] = sf.events[t]
		sf.nRisk[i] = sf.total[t]
	}
	rollback(sf.nRisk)

	// Remove cases that have not yet entered
	if sf.entry != nil {
		enter := make([]float64, len(sf.times))
		for t, w := range sf.enter {
			ii := sort.SearchFloat64s(sf.times, t)
			if ii == len(sf.times) || t < sf.times[ii] {
				ii--
			}
			if ii >= 0 {
				enter[ii] += w
			}
		}
		rollback(enter)
		for i := range sf.nRisk {
			sf.nRisk[i] -= enter[i]
		}
	}
}

// compress removes times where no events occurred.
func (sf *SurvfuncRight) compress() {

	var ix []int
	for i := range sf.times {
		// The last point is retained even if there are no events.
		if sf.nEvents[i] > 0 || i == len(sf.times)-1 {
			ix = append(ix, i)
		}
	}

	if len(ix) < len(sf.times) {
		for i, j := range ix {
			sf.times[i] = sf.times[j]
			sf.nEvents[i] = sf.nEvents[j]
			sf.nRisk[i] = sf.nRisk[j]
		}
		sf.times = sf.times[0:len(ix)]
		sf.nEvents = sf.nEvents[0:len(ix)]
		sf.nRisk = sf.nRisk[0:len(ix)]
	}
}

func (sf *SurvfuncRight) fit() {

	sf.survProb = make([]float64, len(sf.times))
	x := float64(1)
	for i := range sf.times {
		x *= 1 - sf.nEvents[i]/sf.nRisk[i]
		sf.survProb[i] = x
	}

	// Greenwood's formula, or its weighted analogue
	sf.survProbSE = make([]float64, len(sf.times))
	x = 0
	if sf.weight == nil {
		for i := range sf.times {
			d := sf.nEvents[i]
			n := sf.nRisk[i]
			x += d / (n * (n - d))
			sf.survProbSE[i] = math.Sqrt(x) * sf.survProb[i]
		}
	} else {
		for i := range sf.times {
			d := sf.nEvents[i]
			n := sf.nRisk[i]
			x += d / (n * n)
			sf.survProbSE[i] = math.Sqrt(x)
		}
	}
}

// Done fits the survival function.
func (sf *SurvfuncRight) Done() *SurvfuncRight {
	sf.scanData()
	sf.eventstats()
	sf.compress()
	sf.fit()
	return sf
}

// SurvfuncRightPlotter is used to plot one or more survival functions.
type SurvfuncRightPlotter struct {
	plt *plot.Plot

	labels []string

	lines []*plotter.Line

	xlabel string
	title  string

	width  vg.Length
	height vg.Length
}

// NewSurvfuncRightPlotter returns a default SurvfuncRightPlotter.
func NewSurvfuncRightPlotter() *SurvfuncRightPlotter {
	return &SurvfuncRightPlotter{
		plt:    plot.New(),
		xlabel: "Time",
		width:  4,
		height: 4,
	}
}

// Width sets the width of the plot in inches.
func (sp *SurvfuncRightPlotter) Width(w float64) *SurvfuncRightPlotter {
	sp.width = vg.Length(w)
	return sp
}

// Height sets the height of the plot in inches.
func (sp *SurvfuncRightPlotter) Height(h float64) *SurvfuncRightPlotter {
	sp.height = vg.Length(h)
	return sp
}

// XLabel sets the label of the time axis.
func (sp *SurvfuncRightPlotter) XLabel(label string) *SurvfuncRightPlotter {
	sp.xlabel = label
	return sp
}

// Title sets the plot title.
func (sp *SurvfuncRightPlotter) Title(title string) *SurvfuncRightPlotter {
	sp.title = title
	return sp
}

// stepPoints returns the vertices of the step function drawn for sf.
func stepPoints(sf *SurvfuncRight) plotter.XYs {

	ti := sf.Time()
	pr := sf.SurvProb()

	pts := make(plotter.XYs, 2*len(ti)+1)

	j := 0
	pts[j].X = 0
	pts[j].Y = 1
	j++

	for i := range ti {
		pts[j].X = ti[i]
		pts[j].Y = pts[j-1].Y
		j++
		pts[j].X = ti[i]
		pts[j].Y = pr[i]
		j++
	}

	return pts
}

// Add adds a survival function to the plot.
func (sp *SurvfuncRightPlotter) Add(sf *SurvfuncRight, label string) error {

	line, err := plotter.NewLine(stepPoints(sf))
	if err != nil {
		return errors.Wrapf(err, "cannot plot survival function '%s'", label)
	}
	line.Color = plotutil.Color(len(sp.lines))
	line.Dashes = plotutil.Dashes(len(sp.lines))

	sp.labels = append(sp.labels, label)
	sp.lines = append(sp.lines, line)

	return nil
}

// Plot constructs the plot.
func (sp *SurvfuncRightPlotter) Plot() *SurvfuncRightPlotter {

	sp.plt.Y.Min = 0
	sp.plt.Y.Max = 1

	sp.plt.Title.Text = sp.title
	sp.plt.X.Label.Text = sp.xlabel
	sp.plt.Y.Label.Text = "Proportion event free"

	for i := range sp.lines {
		sp.plt.Add(sp.lines[i])
		if len(sp.lines) > 1 {
			sp.plt.Legend.Add(sp.labels[i], sp.lines[i])
		}
	}

	sp.plt.Legend.Top = false
	sp.plt.Legend.Left = true

	return sp
}

// GetPlotStruct returns the plotting structure for this plot.
func (sp *SurvfuncRightPlotter) GetPlotStruct() *plot.Plot {
	return sp.plt
}

// Save writes the plot to the given file.  The format is determined
// by the file extension.
func (sp *SurvfuncRightPlotter) Save(fname string) error {
	if err := sp.plt.Save(sp.width*vg.Inch, sp.height*vg.Inch, fname); err != nil {
		return errors.Wrapf(err, "cannot save plot to %s", fname)
	}
	return nil
}

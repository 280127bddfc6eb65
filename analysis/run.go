package analysis

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jessicascarborough/sbrt-src-surv/cohort"
	"github.com/jessicascarborough/sbrt-src-surv/cutpoint"
	"github.com/jessicascarborough/sbrt-src-surv/duration"
)

var log = logrus.WithField("component", "analysis")

// OutcomeReport holds everything computed for one outcome.
type OutcomeReport struct {
	Outcome cohort.Outcome
	Title   string

	// Number of subjects and events
	N      int
	Events int

	Single []cutpoint.SingleRow
	Double []cutpoint.DoubleRow

	// The selected cutpoints, nil if no partition satisfies the
	// minimum group size
	BestSingle *cutpoint.SingleChoice
	BestDouble *cutpoint.DoubleRow

	// The classifiers built from the selected cutpoints
	SingleGroups *cutpoint.Classifier
	DoubleGroups *cutpoint.Classifier

	// Log-rank tests of the selected partitions
	SingleTest *duration.LogRank
	DoubleTest *duration.LogRank

	// Concordance of tumor size as a risk score
	Concordance float64

	Models []*Model

	// Files written for this outcome
	Files []string

	data *cohort.Cohort
}

// Report holds the results of a run, keyed by outcome.
type Report struct {
	Config   *Config
	Outcomes map[cohort.Outcome]*OutcomeReport

	// Outcomes in configuration order
	order []cohort.Outcome
}

// NewReport returns an empty report for the given configuration.
func NewReport(cfg *Config) *Report {
	return &Report{
		Config:   cfg,
		Outcomes: make(map[cohort.Outcome]*OutcomeReport),
	}
}

// Add adds or replaces the report of an outcome.
func (r *Report) Add(or *OutcomeReport) {
	if _, ok := r.Outcomes[or.Outcome]; !ok {
		r.order = append(r.order, or.Outcome)
	}
	r.Outcomes[or.Outcome] = or
}

// Ordered returns the outcome reports in configuration order.
func (r *Report) Ordered() []*OutcomeReport {
	var out []*OutcomeReport
	for _, na := range r.order {
		out = append(out, r.Outcomes[na])
	}
	return out
}

// Run analyzes every configured outcome of the patient table.  Result
// tables, and plots if enabled, are written to the output directory
// unless it is empty.
func Run(ctx context.Context, cfg *Config, table *cohort.Table) (*Report, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := NewReport(cfg)

	for _, oc := range cfg.Outcomes {

		c, err := table.Cohort(oc.Name, cfg.Columns, oc.OutcomeColumns)
		if err != nil {
			return nil, err
		}

		or, err := RunOutcome(ctx, cfg, oc, c)
		if err != nil {
			return nil, err
		}

		report.Add(or)
	}

	return report, nil
}

// NewOutcomeReport returns an empty report for an outcome.  The cohort
// may be nil.
func NewOutcomeReport(oc OutcomeConfig, c *cohort.Cohort) *OutcomeReport {
	or := &OutcomeReport{
		Outcome: oc.Name,
		Title:   oc.Title,
		data:    c,
	}
	if or.Title == "" {
		or.Title = string(oc.Name)
	}
	if c != nil {
		or.N = c.Len()
		or.Events = c.NumEvents()
	}
	return or
}

// Search runs both cutpoint searches on a cohort and selects the best
// cutpoints.  The result tables are written to the output directory
// unless it is empty.
func Search(ctx context.Context, cfg *Config, oc OutcomeConfig, c *cohort.Cohort) (*OutcomeReport, error) {

	logger := log.WithFields(logrus.Fields{"outcome": oc.Name, "n": c.Len()})
	logger.Info("searching cutpoints")

	or := NewOutcomeReport(oc, c)
	opts := cfg.SearchOptions()

	var err error
	if or.Single, err = cutpoint.SearchSingle(c, opts); err != nil {
		return nil, err
	}
	if or.Double, err = cutpoint.SearchDouble(ctx, c, opts); err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"single": len(or.Single),
		"double": len(or.Double),
	}).Debug("cutpoint tables computed")

	if err := or.selectCutpoints(cfg.MinGroupSize); err != nil {
		return nil, err
	}

	if cfg.Output != "" {
		if err := or.saveTables(cfg.Output); err != nil {
			return nil, err
		}
	}

	return or, nil
}

// LoadOutcome selects the cutpoints of an outcome from the result
// tables in the output directory.  The cohort is optional; without it
// the selected partitions are not tested.
func LoadOutcome(cfg *Config, oc OutcomeConfig, c *cohort.Cohort) (*OutcomeReport, error) {

	or := NewOutcomeReport(oc, c)

	var err error
	if or.Single, err = cutpoint.LoadSingle(tablePath(cfg.Output, oc.Name, "single")); err != nil {
		return nil, err
	}
	if or.Double, err = cutpoint.LoadDouble(tablePath(cfg.Output, oc.Name, "double")); err != nil {
		return nil, err
	}

	if err := or.selectCutpoints(cfg.MinGroupSize); err != nil {
		return nil, err
	}

	return or, nil
}

// RunOutcome analyzes a single cohort: cutpoint searches, concordance
// and Cox regressions, with plots of the selected groups.
func RunOutcome(ctx context.Context, cfg *Config, oc OutcomeConfig, c *cohort.Cohort) (*OutcomeReport, error) {

	or, err := Search(ctx, cfg, oc, c)
	if err != nil {
		return nil, err
	}

	if err := or.Fit(cfg); err != nil {
		return nil, err
	}

	if cfg.Output != "" && cfg.Plots {
		if err := or.Plot(cfg); err != nil {
			return nil, err
		}
	}

	return or, nil
}

// Fit computes the concordance of tumor size and fits the Cox
// regressions of the outcome.
func (or *OutcomeReport) Fit(cfg *Config) error {

	if or.data == nil {
		return errors.Errorf("outcome %s has no cohort", or.Outcome)
	}
	c := or.data

	tau := cfg.ConcordanceTau
	if tau == 0 {
		tau = math.Inf(1)
	}
	or.Concordance = duration.NewConcordance(c.Times(), c.Status(), c.Sizes()).Done().Concordance(tau)

	var err error
	or.Models, err = FitModels(c, cfg.Columns.Covariates, or.SingleGroups, or.DoubleGroups)

	return err
}

// selectCutpoints chooses the best single and double cutpoints and
// tests the resulting partitions.
func (or *OutcomeReport) selectCutpoints(minSize int) error {

	logger := log.WithField("outcome", or.Outcome)

	bs, err := cutpoint.BestSingle(or.Single, minSize)
	switch {
	case errors.Is(err, cutpoint.ErrNoEligibleCutpoint):
		logger.Warn("no single cutpoint satisfies the minimum group size")
	case err != nil:
		return err
	default:
		or.BestSingle = &bs
		if or.SingleGroups, err = cutpoint.NewClassifier([]float64{bs.Threshold}, nil); err != nil {
			return err
		}
		or.SingleTest = or.groupTest(or.SingleGroups)
	}

	bd, err := cutpoint.BestDouble(or.Double, minSize)
	switch {
	case errors.Is(err, cutpoint.ErrNoEligibleCutpoint):
		logger.Warn("no double cutpoint satisfies the minimum group size")
	case err != nil:
		return err
	default:
		or.BestDouble = &bd
		if or.DoubleGroups, err = cutpoint.NewClassifier([]float64{bd.T1, bd.T2}, nil); err != nil {
			return err
		}
		or.DoubleTest = or.groupTest(or.DoubleGroups)
	}

	return nil
}

func (or *OutcomeReport) groupTest(cls *cutpoint.Classifier) *duration.LogRank {
	if or.data == nil {
		return nil
	}
	c := or.data
	return duration.NewLogRank(c.Times(), c.Status(), cls.Groups(c.Sizes())).
		NumGroups(cls.NumGroups()).
		Done()
}

func tablePath(dir string, outcome cohort.Outcome, kind string) string {
	return filepath.Join(dir, string(outcome)+"_"+kind+".tsv")
}

// saveTables writes the single and double cutpoint tables.
func (or *OutcomeReport) saveTables(dir string) error {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "cannot create output directory %s", dir)
	}

	path := tablePath(dir, or.Outcome, "single")
	if err := cutpoint.SaveSingle(path, or.Single); err != nil {
		return err
	}
	or.Files = append(or.Files, path)

	path = tablePath(dir, or.Outcome, "double")
	if err := cutpoint.SaveDouble(path, or.Double); err != nil {
		return err
	}
	or.Files = append(or.Files, path)

	return nil
}

// Plot saves the Kaplan-Meier curves of the selected groups to the
// output directory.
func (or *OutcomeReport) Plot(cfg *Config) error {

	if or.data == nil {
		return errors.Errorf("outcome %s has no cohort", or.Outcome)
	}

	for _, p := range []struct {
		suffix string
		cls    *cutpoint.Classifier
	}{
		{"_single_km.png", or.SingleGroups},
		{"_double_km.png", or.DoubleGroups},
	} {
		if p.cls == nil {
			continue
		}
		path := filepath.Join(cfg.Output, string(or.Outcome)+p.suffix)
		if err := PlotGroups(path, or.Title, cfg.TimeLabel, or.data, p.cls); err != nil {
			return err
		}
		or.Files = append(or.Files, path)
	}

	return nil
}

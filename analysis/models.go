package analysis

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jessicascarborough/sbrt-src-surv/cohort"
	"github.com/jessicascarborough/sbrt-src-surv/cutpoint"
	"github.com/jessicascarborough/sbrt-src-surv/duration"
	"github.com/jessicascarborough/sbrt-src-surv/statmodel"
)

// Model is a fitted Cox regression.  Err is set if the model could
// not be fit, in which case Result may hold the last iterate.
type Model struct {
	Name   string
	Result *duration.PHResults
	Err    error
}

// design collects the columns of a regression.
type design struct {
	names []string
	cols  [][]statmodel.Dtype
}

func newDesign(c *cohort.Cohort) *design {
	return &design{
		names: []string{"time", "status"},
		cols:  [][]statmodel.Dtype{c.Times(), c.Status()},
	}
}

func (d *design) add(name string, x []float64) {
	d.names = append(d.names, name)
	d.cols = append(d.cols, x)
}

// fit fits a Cox regression of the outcome on every column added to
// the design.
func (d *design) fit(name string) *Model {

	m := &Model{Name: name}

	data, err := statmodel.NewDataset(d.cols, d.names)
	if err != nil {
		m.Err = err
		return m
	}

	config := duration.DefaultPHRegConfig()
	config.Log = log.WithField("model", name)

	ph, err := duration.NewPHReg(data, "time", "status", d.names[2:], config)
	if err != nil {
		m.Err = err
		return m
	}

	m.Result, m.Err = ph.Fit()

	return m
}

// dummies returns the indicators of groups 1, ..., K-1 of the
// classifier, named by the group labels.
func dummies(c *cohort.Cohort, cls *cutpoint.Classifier) ([]string, [][]float64) {

	groups := cls.Groups(c.Sizes())

	var names []string
	var cols [][]float64
	for g := 1; g < cls.NumGroups(); g++ {
		x := make([]float64, len(groups))
		for i, gi := range groups {
			if gi == g {
				x[i] = 1
			}
		}
		names = append(names, "size:"+cls.Labels[g])
		cols = append(cols, x)
	}

	return names, cols
}

// FitModels fits the Cox regressions of an outcome: tumor size alone,
// tumor size with the covariates, and the risk groups of each
// classifier coded against the lowest group.
func FitModels(c *cohort.Cohort, covariates []string, classifiers ...*cutpoint.Classifier) ([]*Model, error) {

	var models []*Model

	d := newDesign(c)
	d.add("size", c.Sizes())
	models = append(models, d.fit("size"))

	if len(covariates) > 0 {
		// Complete cases only
		cc := c.Complete(covariates)
		if cc.Len() < c.Len() {
			log.WithFields(logrus.Fields{
				"outcome": c.Outcome(),
				"n":       cc.Len(),
				"dropped": c.Len() - cc.Len(),
			}).Info("subjects with missing covariates left out of the covariate model")
		}
		d := newDesign(cc)
		d.add("size", cc.Sizes())
		for _, na := range covariates {
			x, err := cc.Covariate(na)
			if err != nil {
				return nil, errors.Wrap(err, "cannot fit covariate model")
			}
			d.add(na, x)
		}
		models = append(models, d.fit("size + covariates"))
	}

	for _, cls := range classifiers {
		if cls == nil {
			continue
		}
		d := newDesign(c)
		names, cols := dummies(c, cls)
		for j := range names {
			d.add(names[j], cols[j])
		}
		models = append(models, d.fit(groupModelName(cls)))
	}

	for _, m := range models {
		if m.Err != nil {
			log.WithFields(logrus.Fields{
				"outcome": c.Outcome(),
				"model":   m.Name,
			}).WithError(m.Err).Warn("Cox regression failed")
		}
	}

	return models, nil
}

func groupModelName(cls *cutpoint.Classifier) string {
	if cls.NumGroups() == 2 {
		return "single cutpoint groups"
	}
	return "double cutpoint groups"
}

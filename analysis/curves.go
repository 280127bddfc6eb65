package analysis

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/jessicascarborough/sbrt-src-surv/cohort"
	"github.com/jessicascarborough/sbrt-src-surv/cutpoint"
	"github.com/jessicascarborough/sbrt-src-surv/duration"
)

// GroupCurve is the Kaplan-Meier estimate of one risk group.
type GroupCurve struct {
	Label string
	N     int
	Curve *duration.SurvfuncRight
}

// GroupCurves returns a Kaplan-Meier curve for each group of the
// classifier, in group order.  Empty groups have a nil curve.
func GroupCurves(c *cohort.Cohort, cls *cutpoint.Classifier) []GroupCurve {

	k := cls.NumGroups()
	times := make([][]float64, k)
	status := make([][]float64, k)

	ti := c.Times()
	st := c.Status()
	for i, g := range cls.Groups(c.Sizes()) {
		times[g] = append(times[g], ti[i])
		status[g] = append(status[g], st[i])
	}

	curves := make([]GroupCurve, k)
	for g := range curves {
		curves[g] = GroupCurve{
			Label: cls.Labels[g],
			N:     len(times[g]),
		}
		if len(times[g]) > 0 {
			curves[g].Curve = duration.NewSurvfuncRight(times[g], status[g]).Done()
		}
	}

	return curves
}

// PlotGroups saves the Kaplan-Meier curves of the classifier groups to
// the named image file.
func PlotGroups(path, title, xlabel string, c *cohort.Cohort, cls *cutpoint.Classifier) error {

	plt := duration.NewSurvfuncRightPlotter().
		Title(title).
		XLabel(xlabel).
		Width(5).
		Height(4)

	for _, gc := range GroupCurves(c, cls) {
		if gc.Curve == nil {
			continue
		}
		if err := plt.Add(gc.Curve, fmt.Sprintf("%s (n=%d)", gc.Label, gc.N)); err != nil {
			return err
		}
	}

	if err := plt.Plot().Save(path); err != nil {
		return errors.Wrapf(err, "cannot plot %s", title)
	}

	return nil
}

package analysis

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jessicascarborough/sbrt-src-surv/cutpoint"
	"github.com/jessicascarborough/sbrt-src-surv/duration"
)

// numTop is the number of leading candidates listed per table.
const numTop = 10

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetTitle("%s", title)
	t.SetStyle(table.StyleLight)
	return t
}

func fmtFloat(x float64, prec int) string {
	if math.IsNaN(x) {
		return "-"
	}
	return fmt.Sprintf("%.*f", prec, x)
}

func pvalue(lr *duration.LogRank) string {
	if lr == nil {
		return "-"
	}
	p := lr.PValue()
	if p < 1e-4 {
		return "<0.0001"
	}
	return fmt.Sprintf("%.4f", p)
}

// SummaryTable renders one line per outcome with the selected
// cutpoints.
func (r *Report) SummaryTable() string {

	t := newTable("Tumor size cutpoints")
	t.AppendHeader(table.Row{"Outcome", "N", "Events", "C-index",
		"Cutpoint", "Chi-sq", "P", "Cutpoints", "Chi-sq", "P"})

	for _, or := range r.Ordered() {
		row := table.Row{or.Title, or.N, or.Events, fmtFloat(or.Concordance, 3)}
		if bs := or.BestSingle; bs != nil {
			row = append(row, fmtFloat(bs.Threshold, 2), fmtFloat(bs.ChiSq, 3), pvalue(or.SingleTest))
		} else {
			row = append(row, "none", "-", "-")
		}
		if bd := or.BestDouble; bd != nil {
			row = append(row, fmt.Sprintf("%s, %s", fmtFloat(bd.T1, 2), fmtFloat(bd.T2, 2)),
				fmtFloat(bd.ChiSq, 3), pvalue(or.DoubleTest))
		} else {
			row = append(row, "none", "-", "-")
		}
		t.AppendRow(row)
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	return t.Render()
}

// topSingle returns the eligible single rows with the largest
// statistics.
func topSingle(rows []cutpoint.SingleRow, minSize, n int) []cutpoint.SingleRow {
	var top []cutpoint.SingleRow
	for _, r := range rows {
		if cutpoint.Eligible(r.MinN, r.ChiSq, minSize) {
			top = append(top, r)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].ChiSq > top[j].ChiSq })
	if len(top) > n {
		top = top[:n]
	}
	return top
}

func topDouble(rows []cutpoint.DoubleRow, minSize, n int) []cutpoint.DoubleRow {
	var top []cutpoint.DoubleRow
	for _, r := range rows {
		if cutpoint.Eligible(r.MinN, r.ChiSq, minSize) {
			top = append(top, r)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].ChiSq > top[j].ChiSq })
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// Profile plots the single cutpoint statistic against the grid
// position.
func (or *OutcomeReport) Profile() string {

	if len(or.Single) == 0 {
		return ""
	}

	y := make([]float64, len(or.Single))
	for i, r := range or.Single {
		y[i] = r.ChiSq
	}

	caption := fmt.Sprintf("log-rank chi-square by threshold, %s to %s cm",
		fmtFloat(or.Single[0].Threshold, 2), fmtFloat(or.Single[len(or.Single)-1].Threshold, 2))

	return asciigraph.Plot(y, asciigraph.Height(10), asciigraph.Caption(caption))
}

// WriteText writes the report of one outcome.
func (or *OutcomeReport) WriteText(w io.Writer, minSize int) error {

	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", or.Title, or.Outcome)
	fmt.Fprintf(&b, "%d subjects, %d events\n\n", or.N, or.Events)

	t := newTable("Single cutpoints")
	t.AppendHeader(table.Row{"Threshold", "Low", "High", "Chi-sq"})
	for _, r := range topSingle(or.Single, minSize, numTop) {
		t.AppendRow(table.Row{fmtFloat(r.Threshold, 2), r.LowN, r.HighN, fmtFloat(r.ChiSq, 3)})
	}
	b.WriteString(t.Render() + "\n\n")

	if p := or.Profile(); p != "" {
		b.WriteString(p + "\n\n")
	}

	t = newTable("Double cutpoints")
	t.AppendHeader(table.Row{"T1", "T2", "Low", "Middle", "High", "Chi-sq"})
	for _, r := range topDouble(or.Double, minSize, numTop) {
		t.AppendRow(table.Row{fmtFloat(r.T1, 2), fmtFloat(r.T2, 2), r.LowN, r.MiddleN, r.HighN, fmtFloat(r.ChiSq, 3)})
	}
	b.WriteString(t.Render() + "\n\n")

	for _, gs := range []*cutpoint.Classifier{or.SingleGroups, or.DoubleGroups} {
		if gs == nil || or.data == nil {
			continue
		}
		b.WriteString(or.groupTable(gs) + "\n\n")
	}

	for _, m := range or.Models {
		if m.Err != nil {
			fmt.Fprintf(&b, "Cox model %s: %v\n\n", m.Name, m.Err)
			continue
		}
		b.WriteString(m.Result.Summary().Title("Cox model: "+m.Name).String() + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// groupTable describes the survival of each group of a classifier.
func (or *OutcomeReport) groupTable(cls *cutpoint.Classifier) string {

	var lims []string
	for _, c := range cls.Cuts {
		lims = append(lims, fmtFloat(c, 2))
	}

	t := newTable("Groups at " + strings.Join(lims, ", ") + " cm")
	t.AppendHeader(table.Row{"Group", "N", "Events", "Median"})
	for _, gc := range GroupCurves(or.data, cls) {
		med, ev := "-", 0.0
		if gc.Curve != nil {
			med = "not reached"
			if m := gc.Curve.Median(); !math.IsInf(m, 1) {
				med = fmtFloat(m, 1)
			}
			for _, d := range gc.Curve.NumEvents() {
				ev += d
			}
		}
		t.AppendRow(table.Row{gc.Label, gc.N, ev, med})
	}

	return t.Render()
}

// WriteText writes the full report.
func (r *Report) WriteText(w io.Writer) error {

	if _, err := io.WriteString(w, r.SummaryTable()+"\n\n"); err != nil {
		return err
	}

	for _, or := range r.Ordered() {
		if err := or.WriteText(w, r.Config.MinGroupSize); err != nil {
			return err
		}
	}

	return nil
}

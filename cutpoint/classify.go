package cutpoint

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Classifier assigns predictor values to ordered groups.  A value
// belongs to group g if it is above the first g cuts and at or below
// the remaining ones.
type Classifier struct {
	Cuts   []float64
	Labels []string
}

func defaultLabels(ncut int) []string {
	switch ncut {
	case 1:
		return []string{"Small", "Large"}
	case 2:
		return []string{"Small", "Medium", "Large"}
	}
	labels := make([]string, ncut+1)
	for i := range labels {
		labels[i] = fmt.Sprintf("G%d", i+1)
	}
	return labels
}

// NewClassifier returns a classifier for the given cuts.  If labels is
// nil the groups are named Small and Large for one cut, Small, Medium
// and Large for two cuts.
func NewClassifier(cuts []float64, labels []string) (*Classifier, error) {

	if len(cuts) == 0 {
		return nil, errors.New("classifier needs at least one cut")
	}
	if !sort.Float64sAreSorted(cuts) {
		return nil, errors.Errorf("cuts %v are not sorted", cuts)
	}

	if labels == nil {
		labels = defaultLabels(len(cuts))
	}
	if len(labels) != len(cuts)+1 {
		return nil, errors.Errorf("%d cuts need %d labels, got %d", len(cuts), len(cuts)+1, len(labels))
	}

	return &Classifier{
		Cuts:   append([]float64(nil), cuts...),
		Labels: append([]string(nil), labels...),
	}, nil
}

// NumGroups returns the number of groups.
func (c *Classifier) NumGroups() int {
	return len(c.Cuts) + 1
}

// Group returns the index of the group containing v.
func (c *Classifier) Group(v float64) int {
	return sort.Search(len(c.Cuts), func(i int) bool { return v <= c.Cuts[i] })
}

// Label returns the name of the group containing v.
func (c *Classifier) Label(v float64) string {
	return c.Labels[c.Group(v)]
}

// Groups returns the group index of each value.
func (c *Classifier) Groups(values []float64) []int {
	g := make([]int, len(values))
	for i, v := range values {
		g[i] = c.Group(v)
	}
	return g
}

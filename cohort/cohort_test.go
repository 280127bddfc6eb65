package cohort

import (
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestNew(t *testing.T) {

	c, err := New(OS, []float64{1.5, 2, 3.2}, []float64{10, 4, 7}, []bool{true, false, true})
	require.NoError(t, err)

	assert.Equal(t, OS, c.Outcome())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []float64{1.5, 2, 3.2}, c.Sizes())
	assert.Equal(t, []float64{10, 4, 7}, c.Times())
	assert.Equal(t, []float64{1, 0, 1}, c.Status())
	assert.Equal(t, 2, c.NumEvents())
}

func TestNewErrors(t *testing.T) {

	_, err := New(OS, []float64{1, 2}, []float64{1}, []bool{true, true})
	assert.Error(t, err)

	_, err = New(OS, []float64{1, 2}, []float64{1, 2}, []bool{true})
	assert.Error(t, err)

	_, err = New(OS, []float64{1, 2}, []float64{1, -2}, []bool{true, true})
	assert.Error(t, err)

	_, err = New(OS, []float64{1, math.NaN()}, []float64{1, 2}, []bool{true, true})
	assert.Error(t, err)
}

// The cohort keeps its own copy of the subjects.
func TestFromSubjectsCopy(t *testing.T) {

	subjects := []Subject{{ID: "a", Size: 1, Time: 2, Event: true}}
	c, err := FromSubjects(LocalControl, subjects)
	require.NoError(t, err)

	subjects[0].Size = 99
	assert.Equal(t, 1.0, c.Subject(0).Size)
}

const table1 = `id,size_cm,os_months,died,lc_months,lc_fail,age
p1,1.2,30.5,1,12,no,61
p2,2.5,12,0,10,yes,70
p3,,40,1,40,no,55
p4,3.1,8,true,8,NA,80
p5,4.0,22,false,20,no,
`

func TestTableCohort(t *testing.T) {

	tab, err := ReadTable(strings.NewReader(table1))
	require.NoError(t, err)
	assert.Equal(t, 5, tab.NumRows())
	assert.Equal(t, "size_cm", tab.Header()[1])

	cols := Columns{ID: "id", Size: "size_cm"}

	c, err := tab.Cohort(OS, cols, OutcomeColumns{Time: "os_months", Event: "died"})
	require.NoError(t, err)

	// p3 has no size
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []float64{1.2, 2.5, 3.1, 4.0}, c.Sizes())
	assert.Equal(t, []float64{1, 0, 1, 0}, c.Status())
	assert.Equal(t, "p4", c.Subject(2).ID)

	// p3 has no size, p4 has no local control status
	c, err = tab.Cohort(LocalControl, cols, OutcomeColumns{Time: "lc_months", Event: "lc_fail"})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []float64{12, 10, 20}, c.Times())

	// p5 has no age but stays in the cohort
	cols.Covariates = []string{"age"}
	c, err = tab.Cohort(OS, cols, OutcomeColumns{Time: "os_months", Event: "died"})
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []float64{1.2, 2.5, 3.1, 4.0}, c.Sizes())
	_, err = c.Covariate("age")
	assert.Error(t, err)

	cc := c.Complete(cols.Covariates)
	assert.Equal(t, 3, cc.Len())
	assert.Equal(t, OS, cc.Outcome())
	age, err := cc.Covariate("age")
	require.NoError(t, err)
	assert.Equal(t, []float64{61, 70, 80}, age)
	assert.Equal(t, []float64{1.2, 2.5, 3.1}, cc.Sizes())

	// No names keeps every subject
	assert.Equal(t, 4, c.Complete(nil).Len())

	_, err = cc.Covariate("stage")
	assert.Error(t, err)
}

func TestTableErrors(t *testing.T) {

	tab, err := ReadTable(strings.NewReader(table1))
	require.NoError(t, err)

	_, err = tab.Cohort(OS, Columns{Size: "diameter"}, OutcomeColumns{Time: "os_months", Event: "died"})
	assert.Error(t, err)

	_, err = tab.Cohort(OS, Columns{Size: "size_cm"}, OutcomeColumns{Time: "os_months", Event: "dead"})
	assert.Error(t, err)

	// Every malformed cell is reported.
	bad := `size,time,event
1.0,x,1
abc,3,maybe
2.0,-1,0
`
	tab, err = ReadTable(strings.NewReader(bad))
	require.NoError(t, err)
	_, err = tab.Cohort(OS, Columns{Size: "size"}, OutcomeColumns{Time: "time", Event: "event"})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(errors.Cause(err)), 4)

	_, err = ReadTable(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadTable(strings.NewReader("a,a\n1,2\n"))
	assert.Error(t, err)

	_, err = LoadTable("no/such/file.csv")
	assert.Error(t, err)
}

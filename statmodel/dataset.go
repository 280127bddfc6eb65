package statmodel

import (
	"github.com/pkg/errors"
)

// Dataset is a column-oriented collection of named variables.  All
// columns have the same length.
type Dataset struct {
	data  [][]Dtype
	names []string
}

// NewDataset returns a Dataset holding the given columns.  The columns
// are not copied.
func NewDataset(data [][]Dtype, names []string) (Dataset, error) {

	if len(data) != len(names) {
		return Dataset{}, errors.Errorf("got %d columns but %d names", len(data), len(names))
	}

	seen := make(map[string]bool)
	for j, na := range names {
		if seen[na] {
			return Dataset{}, errors.Errorf("duplicate variable name '%s'", na)
		}
		seen[na] = true
		if len(data[j]) != len(data[0]) {
			return Dataset{}, errors.Errorf("column '%s' has length %d, expected %d",
				na, len(data[j]), len(data[0]))
		}
	}

	return Dataset{data: data, names: names}, nil
}

// Data returns the columns of the dataset.
func (ds Dataset) Data() [][]Dtype {
	return ds.data
}

// Names returns the variable names, in the same order as Data.
func (ds Dataset) Names() []string {
	return ds.names
}

// NumObs returns the number of rows.
func (ds Dataset) NumObs() int {
	if len(ds.data) == 0 {
		return 0
	}
	return len(ds.data[0])
}

// Column returns the column with the given name, or nil if there is
// no such variable.
func (ds Dataset) Column(name string) []Dtype {
	for j, na := range ds.names {
		if na == name {
			return ds.data[j]
		}
	}
	return nil
}

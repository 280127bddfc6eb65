package cohort

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var log = logrus.WithField("component", "cohort")

// Columns names the patient table columns shared by all outcomes.
type Columns struct {
	ID         string   `yaml:"id"`
	Size       string   `yaml:"size"`
	Covariates []string `yaml:"covariates"`
}

// OutcomeColumns names the time and event columns of one outcome.
type OutcomeColumns struct {
	Time  string `yaml:"time"`
	Event string `yaml:"event"`
}

// Table is a patient table read from a CSV file with a header row.
// Cells are kept as text until a cohort is extracted.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// ReadTable reads a comma separated patient table.
func ReadTable(r io.Reader) (*Table, error) {

	rdr := csv.NewReader(r)
	rdr.TrimLeadingSpace = true

	header, err := rdr.Read()
	if err == io.EOF {
		return nil, errors.New("patient table is empty")
	} else if err != nil {
		return nil, errors.Wrap(err, "cannot read patient table header")
	}

	t := &Table{
		header: header,
		index:  make(map[string]int),
	}
	for j, na := range header {
		na = strings.TrimSpace(na)
		if _, ok := t.index[na]; ok {
			return nil, errors.Errorf("duplicate column '%s' in patient table", na)
		}
		t.index[na] = j
	}

	for {
		rec, err := rdr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, "cannot read patient table")
		}
		t.rows = append(t.rows, rec)
	}

	return t, nil
}

// LoadTable reads the patient table stored in the named file.
func LoadTable(path string) (*Table, error) {

	fid, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open patient table %s", path)
	}
	defer fid.Close()

	return ReadTable(fid)
}

// Header returns the column names.
func (t *Table) Header() []string {
	return t.header
}

// NumRows returns the number of records, excluding the header.
func (t *Table) NumRows() int {
	return len(t.rows)
}

func (t *Table) column(name string) (int, error) {
	j, ok := t.index[name]
	if !ok {
		return -1, errors.Errorf("column '%s' not found in patient table", name)
	}
	return j, nil
}

func isMissing(cell string) bool {
	switch strings.ToUpper(strings.TrimSpace(cell)) {
	case "", "NA", "NAN", ".":
		return true
	}
	return false
}

func parseEvent(cell string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "1", "1.0", "true", "yes":
		return true, nil
	case "0", "0.0", "false", "no":
		return false, nil
	}
	return false, errors.Errorf("invalid event indicator '%s'", cell)
}

// Cohort extracts the cohort of one outcome.  Records with a missing
// predictor, time or event cell are left out of the cohort.  A missing
// covariate cell leaves that covariate unset on the subject, see
// Cohort.Complete.  All malformed cells are reported together.
func (t *Table) Cohort(outcome Outcome, cols Columns, oc OutcomeColumns) (*Cohort, error) {

	var err error
	idpos := -1
	if cols.ID != "" {
		if idpos, err = t.column(cols.ID); err != nil {
			return nil, err
		}
	}

	var sizepos, timepos, eventpos int
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{cols.Size, &sizepos},
		{oc.Time, &timepos},
		{oc.Event, &eventpos},
	} {
		if *v.dst, err = t.column(v.name); err != nil {
			return nil, errors.Wrapf(err, "outcome %s", outcome)
		}
	}

	covpos := make([]int, len(cols.Covariates))
	for k, na := range cols.Covariates {
		if covpos[k], err = t.column(na); err != nil {
			return nil, err
		}
	}

	var errs error
	var subjects []Subject
	var dropped int

	for i, rec := range t.rows {

		line := i + 2

		if isMissing(rec[sizepos]) || isMissing(rec[timepos]) || isMissing(rec[eventpos]) {
			dropped++
			log.WithFields(logrus.Fields{"outcome": outcome, "line": line}).
				Debug("missing predictor or outcome, subject dropped")
			continue
		}

		var s Subject
		var rerr error
		if idpos != -1 {
			s.ID = rec[idpos]
		}

		s.Size, err = strconv.ParseFloat(strings.TrimSpace(rec[sizepos]), 64)
		if err != nil {
			rerr = multierr.Append(rerr, errors.Errorf("line %d: invalid %s '%s'", line, cols.Size, rec[sizepos]))
		}

		s.Time, err = strconv.ParseFloat(strings.TrimSpace(rec[timepos]), 64)
		if err != nil {
			rerr = multierr.Append(rerr, errors.Errorf("line %d: invalid %s '%s'", line, oc.Time, rec[timepos]))
		} else if s.Time < 0 {
			rerr = multierr.Append(rerr, errors.Errorf("line %d: negative %s %v", line, oc.Time, s.Time))
		}

		s.Event, err = parseEvent(rec[eventpos])
		if err != nil {
			rerr = multierr.Append(rerr, errors.Wrapf(err, "line %d: %s", line, oc.Event))
		}

		if len(covpos) > 0 {
			s.Covariates = make(map[string]float64, len(covpos))
		}
		for k, j := range covpos {
			if isMissing(rec[j]) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
			if err != nil {
				rerr = multierr.Append(rerr, errors.Errorf("line %d: invalid %s '%s'", line, cols.Covariates[k], rec[j]))
				continue
			}
			s.Covariates[cols.Covariates[k]] = v
		}

		if rerr != nil {
			errs = multierr.Append(errs, rerr)
			continue
		}

		subjects = append(subjects, s)
	}

	if errs != nil {
		return nil, errors.Wrapf(errs, "outcome %s", outcome)
	}

	if dropped > 0 {
		log.WithFields(logrus.Fields{"outcome": outcome, "dropped": dropped, "n": len(subjects)}).
			Info("subjects with missing values were dropped")
	}

	return FromSubjects(outcome, subjects)
}

package cutpoint

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	singleHeader = []string{"threshold", "low_n", "high_n", "chisq", "min_n"}
	doubleHeader = []string{"t1", "t2", "low_n", "middle_n", "high_n", "chisq", "min_n"}
)

func newTSVWriter(w io.Writer) *csv.Writer {
	tw := csv.NewWriter(w)
	tw.Comma = '\t'
	return tw
}

func newTSVReader(r io.Reader) *csv.Reader {
	tr := csv.NewReader(r)
	tr.Comma = '\t'
	return tr
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// WriteSingle writes a single cutpoint table as tab separated values
// with a header row.  Values are written with enough precision to be
// read back exactly.
func WriteSingle(w io.Writer, rows []SingleRow) error {

	tw := newTSVWriter(w)
	if err := tw.Write(singleHeader); err != nil {
		return err
	}

	for _, r := range rows {
		rec := []string{
			formatFloat(r.Threshold),
			strconv.Itoa(r.LowN),
			strconv.Itoa(r.HighN),
			formatFloat(r.ChiSq),
			strconv.Itoa(r.MinN),
		}
		if err := tw.Write(rec); err != nil {
			return err
		}
	}

	tw.Flush()
	return tw.Error()
}

// WriteDouble writes a double cutpoint table as tab separated values
// with a header row.
func WriteDouble(w io.Writer, rows []DoubleRow) error {

	tw := newTSVWriter(w)
	if err := tw.Write(doubleHeader); err != nil {
		return err
	}

	for _, r := range rows {
		rec := []string{
			formatFloat(r.T1),
			formatFloat(r.T2),
			strconv.Itoa(r.LowN),
			strconv.Itoa(r.MiddleN),
			strconv.Itoa(r.HighN),
			formatFloat(r.ChiSq),
			strconv.Itoa(r.MinN),
		}
		if err := tw.Write(rec); err != nil {
			return err
		}
	}

	tw.Flush()
	return tw.Error()
}

// fieldParser parses the cells of one record, keeping the first error.
type fieldParser struct {
	rec  []string
	line int
	err  error
}

func (p *fieldParser) number(j int) float64 {
	if p.err != nil {
		return 0
	}
	x, err := strconv.ParseFloat(p.rec[j], 64)
	if err != nil {
		p.err = errors.Errorf("line %d: invalid number '%s'", p.line, p.rec[j])
	}
	return x
}

func (p *fieldParser) count(j int) int {
	if p.err != nil {
		return 0
	}
	x, err := strconv.Atoi(p.rec[j])
	if err != nil {
		p.err = errors.Errorf("line %d: invalid count '%s'", p.line, p.rec[j])
	}
	return x
}

// readRecords reads a table and checks its header.
func readRecords(r io.Reader, header []string) ([][]string, error) {

	recs, err := newTSVReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("table has no header")
	}
	if strings.Join(recs[0], "\t") != strings.Join(header, "\t") {
		return nil, errors.Errorf("unexpected table header %v, expected %v", recs[0], header)
	}

	return recs[1:], nil
}

// ReadSingle reads a table written by WriteSingle.
func ReadSingle(r io.Reader) ([]SingleRow, error) {

	recs, err := readRecords(r, singleHeader)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read single cutpoint table")
	}

	rows := make([]SingleRow, len(recs))
	for i, rec := range recs {
		p := &fieldParser{rec: rec, line: i + 2}
		rows[i] = SingleRow{
			Threshold: p.number(0),
			LowN:      p.count(1),
			HighN:     p.count(2),
			ChiSq:     p.number(3),
			MinN:      p.count(4),
		}
		if p.err != nil {
			return nil, errors.Wrap(p.err, "cannot read single cutpoint table")
		}
	}

	return rows, nil
}

// ReadDouble reads a table written by WriteDouble.
func ReadDouble(r io.Reader) ([]DoubleRow, error) {

	recs, err := readRecords(r, doubleHeader)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read double cutpoint table")
	}

	rows := make([]DoubleRow, len(recs))
	for i, rec := range recs {
		p := &fieldParser{rec: rec, line: i + 2}
		rows[i] = DoubleRow{
			T1:      p.number(0),
			T2:      p.number(1),
			LowN:    p.count(2),
			MiddleN: p.count(3),
			HighN:   p.count(4),
			ChiSq:   p.number(5),
			MinN:    p.count(6),
		}
		if p.err != nil {
			return nil, errors.Wrap(p.err, "cannot read double cutpoint table")
		}
	}

	return rows, nil
}

// SaveSingle writes a single cutpoint table to the named file.
func SaveSingle(path string, rows []SingleRow) error {
	return save(path, func(w io.Writer) error { return WriteSingle(w, rows) })
}

// SaveDouble writes a double cutpoint table to the named file.
func SaveDouble(path string, rows []DoubleRow) error {
	return save(path, func(w io.Writer) error { return WriteDouble(w, rows) })
}

func save(path string, write func(io.Writer) error) (err error) {

	fid, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", path)
	}
	defer func() {
		if cerr := fid.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "cannot close %s", path)
		}
	}()

	if err := write(fid); err != nil {
		return errors.Wrapf(err, "cannot write %s", path)
	}

	return nil
}

// LoadSingle reads a single cutpoint table from the named file.
func LoadSingle(path string) ([]SingleRow, error) {

	fid, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}
	defer fid.Close()

	return ReadSingle(fid)
}

// LoadDouble reads a double cutpoint table from the named file.
func LoadDouble(path string) ([]DoubleRow, error) {

	fid, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}
	defer fid.Close()

	return ReadDouble(fid)
}

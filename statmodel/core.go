// Package statmodel holds the pieces shared by the regression models
// used in the survival analysis: parameter values, fitted results,
// variance estimates and plain-text summary tables.
package statmodel

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Dtype is the storage type of all data columns.
type Dtype = float64

// HessType indicates the type of a Hessian matrix for a log-likelihood.
type HessType int

// ObsHess (observed Hessian) and ExpHess (expected Hessian) are the two
// types of log-likelihood Hessian matrices.
const (
	ObsHess HessType = iota
	ExpHess
)

// Parameter is the parameter of a model.
type Parameter interface {

	// GetCoeff returns the coefficients of the covariates in the
	// linear predictor.  The returned slice is a reference, so
	// changing it changes the parameter.
	GetCoeff() []float64

	// SetCoeff sets the coefficients of the covariates in the
	// linear predictor.
	SetCoeff([]float64)

	// Clone creates a deep copy of the Parameter.
	Clone() Parameter
}

// RegFitter is a regression model that can be fit to data.
type RegFitter interface {

	// Number of parameters in the model.
	NumParams() int

	// Number of observations in the data set
	NumObs() int

	// Positions of the covariates
	Xpos() []int

	Dataset() [][]Dtype

	// The log-likelihood function
	LogLike(Parameter, bool) float64

	// The score vector
	Score(Parameter, []float64)

	// The Hessian matrix
	Hessian(Parameter, HessType, []float64)
}

// BaseResultser is a fitted model that can produce results (parameter
// estimates, etc.).
type BaseResultser interface {
	Model() RegFitter
	Names() []string
	LogLike() float64
	Params() []float64
	VCov() []float64
	StdErr() []float64
	ZScores() []float64
	PValues() []float64
}

// BaseResults contains the results after fitting a model to data.
type BaseResults struct {
	model   RegFitter
	loglike float64
	params  []float64
	xnames  []string
	vcov    []float64
	stderr  []float64
	zscores []float64
	pvalues []float64
}

// NewBaseResults returns a BaseResults corresponding to the given fitted model.
func NewBaseResults(model RegFitter, loglike float64, params []float64, xnames []string, vcov []float64) BaseResults {
	return BaseResults{
		model:   model,
		loglike: loglike,
		params:  params,
		xnames:  xnames,
		vcov:    vcov,
	}
}

// Model produces the model value used to produce the results.
func (rslt *BaseResults) Model() RegFitter {
	return rslt.model
}

// FittedValues returns the fitted linear predictor.  If da is nil the
// training data are used, otherwise da must have the same columns as
// the training data.
func (rslt *BaseResults) FittedValues(da [][]Dtype) []float64 {

	xpos := rslt.model.Xpos()

	if da == nil {
		da = rslt.model.Dataset()
	}

	if len(da) != len(rslt.model.Dataset()) {
		msg := fmt.Sprintf("Data has incorrect number of columns, %d != %d\n",
			len(da), len(rslt.model.Dataset()))
		panic(msg)
	}

	fv := make([]float64, len(da[xpos[0]]))
	for k, j := range xpos {
		for i, v := range da[j] {
			fv[i] += rslt.params[k] * v
		}
	}

	return fv
}

// Names returns the covariate names for the variables in the model.
func (rslt *BaseResults) Names() []string {
	return rslt.xnames
}

// Params returns the point estimates for the parameters in the model.
func (rslt *BaseResults) Params() []float64 {
	return rslt.params
}

// VCov returns the sampling variance/covariance matrix of the parameter
// estimates, vectorized in row-major order.
func (rslt *BaseResults) VCov() []float64 {
	return rslt.vcov
}

// LogLike returns the log-likelihood for the fitted model.
func (rslt *BaseResults) LogLike() float64 {
	return rslt.loglike
}

// StdErr returns the standard errors for the parameters in the model.
func (rslt *BaseResults) StdErr() []float64 {

	// No vcov, no standard error
	if rslt.vcov == nil {
		return nil
	}
	if rslt.stderr != nil {
		return rslt.stderr
	}

	p := len(rslt.params)
	rslt.stderr = make([]float64, p)
	for i := range rslt.stderr {
		rslt.stderr[i] = math.Sqrt(rslt.vcov[i*p+i])
	}

	return rslt.stderr
}

// ZScores returns the parameter estimates divided by their standard errors.
func (rslt *BaseResults) ZScores() []float64 {

	if rslt.vcov == nil {
		return nil
	}
	if rslt.zscores != nil {
		return rslt.zscores
	}

	std := rslt.StdErr()
	rslt.zscores = make([]float64, len(std))
	for i := range std {
		rslt.zscores[i] = rslt.params[i] / std[i]
	}

	return rslt.zscores
}

// PValues returns two-sided p-values for the null hypothesis that each
// parameter's population value is zero.
func (rslt *BaseResults) PValues() []float64 {

	if rslt.vcov == nil {
		return nil
	}
	if rslt.pvalues != nil {
		return rslt.pvalues
	}

	norm := distuv.UnitNormal
	z := rslt.ZScores()
	rslt.pvalues = make([]float64, len(z))
	for i := range z {
		rslt.pvalues[i] = 2 * norm.CDF(-math.Abs(z[i]))
	}

	return rslt.pvalues
}

// GetVcov returns the sampling variance/covariance matrix for the
// parameter estimates, the negative inverse of the Hessian.
func GetVcov(model RegFitter, params Parameter) ([]float64, error) {
	nvar := model.NumParams()
	n2 := nvar * nvar
	hess := make([]float64, n2)
	model.Hessian(params, ExpHess, hess)
	hmat := mat.NewDense(nvar, nvar, hess)
	hessi := make([]float64, n2)
	himat := mat.NewDense(nvar, nvar, hessi)
	if err := himat.Inverse(hmat); err != nil {
		return nil, errors.Wrap(err, "cannot invert Hessian")
	}
	himat.Scale(-1, himat)

	return hessi, nil
}

// SummaryTable holds the summary values for a fitted model.
type SummaryTable struct {

	// Title
	Title string

	// Column names
	ColNames []string

	// Formatters for the column values
	ColFmt []Fmter

	// Cols[j] is the j^th column.  Its concrete type should
	// be a slice, e.g. of numbers or strings.
	Cols []interface{}

	// Values at the top of the summary
	Top []string

	// Messages displayed below the table
	Msg []string

	// Total width of the table
	tw int
}

// Fmter formats the elements of a column of values.
type Fmter func(interface{}, string) []string

// FloatFmter formats a []float64 column with a fixed number of decimals.
func FloatFmter(x interface{}, _ string) []string {
	var s []string
	for _, v := range x.([]float64) {
		s = append(s, fmt.Sprintf("%10.4f", v))
	}
	return s
}

// StringFmter left-aligns a []string column to the width of its widest
// cell or its header.
func StringFmter(x interface{}, h string) []string {
	y := x.([]string)
	m := len(h)
	for i := range y {
		if len(y[i]) > m {
			m = len(y[i])
		}
	}
	c := fmt.Sprintf("%%-%ds", m)
	var z []string
	for i := range y {
		z = append(z, fmt.Sprintf(c, y[i]))
	}
	return z
}

func (s *SummaryTable) line(c string) string {
	return strings.Repeat(c, s.tw) + "\n"
}

// cleanTop pads the fields of the top block to a common width.
func (s *SummaryTable) cleanTop() {

	if len(s.Top) == 0 {
		return
	}

	w := 0
	for _, x := range s.Top {
		if len(x) > w {
			w = len(x)
		}
	}

	for i, x := range s.Top {
		if len(x) < w {
			s.Top[i] = x + strings.Repeat(" ", w-len(x))
		}
	}
}

// top lays out the summary values two per line.
func (s *SummaryTable) top(gap int) string {

	var b bytes.Buffer

	for j, x := range s.Top {
		b.WriteString(x)
		if j%2 == 1 {
			b.WriteString("\n")
		} else {
			b.WriteString(strings.Repeat(" ", gap))
		}
	}

	if len(s.Top)%2 == 1 {
		b.WriteString("\n")
	}

	return b.String()
}

// String returns the table as a string.
func (s *SummaryTable) String() string {

	s.cleanTop()

	var tab [][]string
	var wx []int
	for j, c := range s.Cols {
		u := s.ColFmt[j](c, s.ColNames[j])
		tab = append(tab, u)
		w := len(s.ColNames[j])
		if len(u) > 0 && len(u[0]) > w {
			w = len(u[0])
		}
		wx = append(wx, w+1)
	}

	gap := 10

	s.tw = 0
	for _, w := range wx {
		s.tw += w
	}
	if s.tw < len(s.Title) {
		s.tw = len(s.Title)
	}
	if len(s.Top) > 0 && s.tw < gap+2*len(s.Top[0]) {
		s.tw = gap + 2*len(s.Top[0])
	}

	var buf bytes.Buffer

	// Center the title
	kr := (s.tw - len(s.Title)) / 2
	if kr < 0 {
		kr = 0
	}
	buf.WriteString(strings.Repeat(" ", kr))
	buf.WriteString(s.Title)
	buf.WriteString("\n")

	buf.WriteString(s.line("="))
	buf.WriteString(s.top(gap))
	buf.WriteString(s.line("-"))

	for j, c := range s.ColNames {
		buf.WriteString(fmt.Sprintf(fmt.Sprintf("%%%ds", wx[j]), c))
	}
	buf.WriteString("\n")
	buf.WriteString(s.line("-"))

	if len(tab) > 0 {
		for i := 0; i < len(tab[0]); i++ {
			for j := range tab {
				buf.WriteString(fmt.Sprintf(fmt.Sprintf("%%%ds", wx[j]), tab[j][i]))
			}
			buf.WriteString("\n")
		}
	}
	buf.WriteString(s.line("-"))

	for _, msg := range s.Msg {
		buf.WriteString(msg + "\n")
	}

	return buf.String()
}

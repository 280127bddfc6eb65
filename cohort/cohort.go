// Package cohort holds the patient records of one survival endpoint:
// a continuous predictor (tumor size) with a time-to-event outcome.
package cohort

import (
	"math"

	"github.com/pkg/errors"
)

// Outcome names a survival endpoint.
type Outcome string

const (
	OS           Outcome = "os"
	LocalControl Outcome = "local_control"
	ChemoFree    Outcome = "chemo_free"
)

// Subject is one patient record for a single outcome.
type Subject struct {

	// De-identified patient id, may be empty
	ID string

	// Predictor value, tumor size in centimeters
	Size float64

	// Event or censoring time, non-negative
	Time float64

	// True if the event was observed at Time, false if censored
	Event bool

	// Additional numeric covariates used by the regression models
	Covariates map[string]float64
}

// Cohort is an ordered collection of subjects sharing one outcome
// definition.  A Cohort is not modified after construction.
type Cohort struct {
	outcome  Outcome
	subjects []Subject
}

// New returns a cohort built from parallel slices of predictor values,
// times and event indicators.
func New(outcome Outcome, sizes, times []float64, events []bool) (*Cohort, error) {

	if len(sizes) != len(times) || len(sizes) != len(events) {
		return nil, errors.Errorf("cohort %s: predictor, time and event lengths differ (%d, %d, %d)",
			outcome, len(sizes), len(times), len(events))
	}

	subjects := make([]Subject, len(sizes))
	for i := range sizes {
		subjects[i] = Subject{
			Size:  sizes[i],
			Time:  times[i],
			Event: events[i],
		}
	}

	return FromSubjects(outcome, subjects)
}

// FromSubjects returns a cohort holding a copy of the given subjects.
func FromSubjects(outcome Outcome, subjects []Subject) (*Cohort, error) {

	for i, s := range subjects {
		if math.IsNaN(s.Size) || math.IsInf(s.Size, 0) {
			return nil, errors.Errorf("cohort %s: subject %d has predictor value %v", outcome, i, s.Size)
		}
		if math.IsNaN(s.Time) || s.Time < 0 {
			return nil, errors.Errorf("cohort %s: subject %d has invalid time %v", outcome, i, s.Time)
		}
	}

	c := &Cohort{
		outcome:  outcome,
		subjects: make([]Subject, len(subjects)),
	}
	copy(c.subjects, subjects)

	return c, nil
}

// Outcome returns the endpoint of the cohort.
func (c *Cohort) Outcome() Outcome {
	return c.outcome
}

// Len returns the number of subjects.
func (c *Cohort) Len() int {
	return len(c.subjects)
}

// Subject returns the i'th subject.
func (c *Cohort) Subject(i int) Subject {
	return c.subjects[i]
}

// Sizes returns the predictor values in subject order.
func (c *Cohort) Sizes() []float64 {
	x := make([]float64, len(c.subjects))
	for i, s := range c.subjects {
		x[i] = s.Size
	}
	return x
}

// Times returns the event or censoring times in subject order.
func (c *Cohort) Times() []float64 {
	x := make([]float64, len(c.subjects))
	for i, s := range c.subjects {
		x[i] = s.Time
	}
	return x
}

// Status returns the event indicators coded as 1 (event) and 0
// (censored).
func (c *Cohort) Status() []float64 {
	x := make([]float64, len(c.subjects))
	for i, s := range c.subjects {
		if s.Event {
			x[i] = 1
		}
	}
	return x
}

// NumEvents returns the number of observed events.
func (c *Cohort) NumEvents() int {
	var n int
	for _, s := range c.subjects {
		if s.Event {
			n++
		}
	}
	return n
}

// Complete returns the cohort of subjects that have every one of the
// named covariates, in subject order.
func (c *Cohort) Complete(names []string) *Cohort {

	cc := &Cohort{outcome: c.outcome}
	for _, s := range c.subjects {
		ok := true
		for _, na := range names {
			if _, has := s.Covariates[na]; !has {
				ok = false
				break
			}
		}
		if ok {
			cc.subjects = append(cc.subjects, s)
		}
	}

	return cc
}

// Covariate returns the values of the named covariate in subject
// order.
func (c *Cohort) Covariate(name string) ([]float64, error) {
	x := make([]float64, len(c.subjects))
	for i, s := range c.subjects {
		v, ok := s.Covariates[name]
		if !ok {
			return nil, errors.Errorf("cohort %s: subject %d has no covariate '%s'", c.outcome, i, name)
		}
		x[i] = v
	}
	return x, nil
}

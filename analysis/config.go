// Package analysis runs the tumor size survival analysis of a patient
// table: cutpoint searches, Cox regressions, stratified survival curves
// and a text report, once per configured outcome.
package analysis

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jessicascarborough/sbrt-src-surv/cohort"
	"github.com/jessicascarborough/sbrt-src-surv/cutpoint"
)

// OutcomeConfig names an outcome and its columns in the patient table.
type OutcomeConfig struct {
	Name  cohort.Outcome `yaml:"name"`
	Title string         `yaml:"title"`

	cohort.OutcomeColumns `yaml:",inline"`
}

// Config defines an analysis run.
type Config struct {

	// Input is the patient table, a CSV file with a header
	Input string `yaml:"input"`

	// Output is the directory receiving result tables, plots and the
	// report
	Output string `yaml:"output"`

	Columns  cohort.Columns  `yaml:"columns"`
	Outcomes []OutcomeConfig `yaml:"outcomes"`

	Grid cutpoint.Grid `yaml:"grid"`

	// MinGroupSize is the smallest group of a selectable partition
	MinGroupSize int `yaml:"minGroupSize"`

	// Workers sweeps this many first thresholds of the double search
	// concurrently
	Workers int `yaml:"workers"`

	// ConcordanceTau truncates the concordance at this time, zero
	// means no truncation
	ConcordanceTau float64 `yaml:"concordanceTau"`

	// TimeLabel labels the time axis of the survival plots
	TimeLabel string `yaml:"timeLabel"`

	// Plots enables the Kaplan-Meier plots
	Plots bool `yaml:"plots"`
}

// DefaultConfig returns the configuration of the SBRT cohort: tumor
// size in centimeters with overall survival and local control in
// months.  Chemotherapy free survival is added in the config file
// when the table carries it.
func DefaultConfig() *Config {
	return &Config{
		Output: "output",
		Columns: cohort.Columns{
			ID:   "id",
			Size: "size_cm",
		},
		Outcomes: []OutcomeConfig{
			{
				Name:           cohort.OS,
				Title:          "Overall survival",
				OutcomeColumns: cohort.OutcomeColumns{Time: "os_months", Event: "os_event"},
			},
			{
				Name:           cohort.LocalControl,
				Title:          "Local control",
				OutcomeColumns: cohort.OutcomeColumns{Time: "lc_months", Event: "lc_event"},
			},
		},
		Grid:         cutpoint.DefaultGrid(),
		MinGroupSize: cutpoint.DefaultMinGroupSize,
		Workers:      1,
		TimeLabel:    "Months",
		Plots:        true,
	}
}

// LoadConfig reads a YAML configuration file.  Settings missing from
// the file keep their default values.
func LoadConfig(path string) (*Config, error) {

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config %s", path)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(content, config); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %s", path)
	}

	if config.Grid.Method == "" {
		config.Grid.Method = cutpoint.Type7
	}

	return config, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {

	if c.Columns.Size == "" {
		return errors.New("config: the predictor column is not set")
	}

	if len(c.Outcomes) == 0 {
		return errors.New("config: no outcomes")
	}

	seen := make(map[cohort.Outcome]bool)
	for _, oc := range c.Outcomes {
		if oc.Name == "" {
			return errors.New("config: outcome without a name")
		}
		if seen[oc.Name] {
			return errors.Errorf("config: duplicate outcome '%s'", oc.Name)
		}
		seen[oc.Name] = true
		if oc.Time == "" || oc.Event == "" {
			return errors.Errorf("config: outcome '%s' needs time and event columns", oc.Name)
		}
	}

	if err := c.Grid.Validate(); err != nil {
		return errors.Wrap(err, "config")
	}

	if c.MinGroupSize < 1 {
		return errors.Errorf("config: minimum group size %d is below 1", c.MinGroupSize)
	}

	if c.Workers < 1 {
		return errors.Errorf("config: %d workers", c.Workers)
	}

	if c.ConcordanceTau < 0 {
		return errors.Errorf("config: negative concordance truncation %v", c.ConcordanceTau)
	}

	return nil
}

// Outcome returns the configuration of the named outcome.
func (c *Config) Outcome(name cohort.Outcome) (OutcomeConfig, error) {
	for _, oc := range c.Outcomes {
		if oc.Name == name {
			return oc, nil
		}
	}
	return OutcomeConfig{}, errors.Errorf("outcome '%s' is not configured", name)
}

// SearchOptions returns the cutpoint search options of the run.
func (c *Config) SearchOptions() cutpoint.Options {
	return cutpoint.Options{
		Grid:    c.Grid,
		Workers: c.Workers,
	}
}

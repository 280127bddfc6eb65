package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jessicascarborough/sbrt-src-surv/cohort"
	"github.com/jessicascarborough/sbrt-src-surv/cutpoint"
)

const config1 = `
input: patients.csv
output: results
columns:
  id: mrn
  size: gtv_diameter
  covariates: [age, ecog]
outcomes:
  - name: os
    title: Overall survival
    time: os_time
    event: died
  - name: chemo_free
    time: chemo_time
    event: chemo
minGroupSize: 8
workers: 4
`

func TestLoadConfig(t *testing.T) {

	path := filepath.Join(t.TempDir(), "survcut.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config1), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "patients.csv", cfg.Input)
	assert.Equal(t, "gtv_diameter", cfg.Columns.Size)
	assert.Equal(t, []string{"age", "ecog"}, cfg.Columns.Covariates)
	assert.Len(t, cfg.Outcomes, 2)
	assert.Equal(t, 8, cfg.MinGroupSize)
	assert.Equal(t, 4, cfg.SearchOptions().Workers)

	oc, err := cfg.Outcome(cohort.ChemoFree)
	require.NoError(t, err)
	assert.Equal(t, "chemo_time", oc.Time)
	assert.Equal(t, "chemo", oc.Event)

	_, err = cfg.Outcome(cohort.LocalControl)
	assert.Error(t, err)

	// Unset values keep their defaults
	assert.Equal(t, cutpoint.DefaultGrid(), cfg.Grid)
	assert.Equal(t, "Months", cfg.TimeLabel)
	assert.True(t, cfg.Plots)
}

func TestLoadConfigErrors(t *testing.T) {

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outcomes: [[[\n"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {

	assert.NoError(t, DefaultConfig().Validate())

	for _, f := range []func(*Config){
		func(c *Config) { c.Columns.Size = "" },
		func(c *Config) { c.Outcomes = nil },
		func(c *Config) { c.Outcomes[1].Name = c.Outcomes[0].Name },
		func(c *Config) { c.Outcomes[0].Event = "" },
		func(c *Config) { c.Outcomes[0].Name = "" },
		func(c *Config) { c.Grid.Step = 0.3 },
		func(c *Config) { c.MinGroupSize = 0 },
		func(c *Config) { c.Workers = 0 },
		func(c *Config) { c.ConcordanceTau = -1 },
	} {
		c := DefaultConfig()
		f(c)
		assert.Error(t, c.Validate())
	}
}

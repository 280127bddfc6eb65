package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jessicascarborough/sbrt-src-surv/analysis"
	"github.com/jessicascarborough/sbrt-src-surv/cohort"
)

var rootCmd = &cobra.Command{
	Use:   "survcut",
	Short: "tumor size cutpoint survival analysis",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("debug") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	persistentFlags(rootCmd.PersistentFlags())
}

func persistentFlags(flags *pflag.FlagSet) {
	flags.Bool("debug", false, "debug flag")
	flags.String("config", "", "config file")
	flags.String("input", "", "patient table (csv)")
	flags.String("output", "", "output directory for result tables, plots and the report")
	flags.Int("min-group-size", 0, "smallest group of a selectable partition")
	flags.Int("workers", 0, "number of concurrent first thresholds in the double search")
	flags.StringSlice("outcome", nil, "outcomes to analyze, all configured outcomes if empty")
}

// loadConfig reads the config file, if any, and applies the command
// line and environment overrides.
func loadConfig() (*analysis.Config, error) {

	cfg := analysis.DefaultConfig()
	if path := viper.GetString("config"); path != "" {
		var err error
		if cfg, err = analysis.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if viper.IsSet("input") {
		cfg.Input = viper.GetString("input")
	}
	if viper.IsSet("output") {
		cfg.Output = viper.GetString("output")
	}
	if viper.IsSet("min-group-size") {
		cfg.MinGroupSize = viper.GetInt("min-group-size")
	}
	if viper.IsSet("workers") {
		cfg.Workers = viper.GetInt("workers")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// selectedOutcomes returns the configured outcomes named by --outcome.
func selectedOutcomes(cfg *analysis.Config) ([]analysis.OutcomeConfig, error) {

	names := viper.GetStringSlice("outcome")
	if len(names) == 0 {
		return cfg.Outcomes, nil
	}

	var ocs []analysis.OutcomeConfig
	for _, na := range names {
		oc, err := cfg.Outcome(cohort.Outcome(na))
		if err != nil {
			return nil, err
		}
		ocs = append(ocs, oc)
	}

	return ocs, nil
}

func loadTable(cfg *analysis.Config) (*cohort.Table, error) {
	if cfg.Input == "" {
		return nil, errors.New("no patient table, use --input or set input in the config file")
	}
	return cohort.LoadTable(cfg.Input)
}

// Execute runs the root command.
func Execute() {

	viper.SetEnvPrefix("survcut")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, e.g. SURVCUT_MIN_GROUP_SIZE
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Fatalf("cannot execute command")
	}
}

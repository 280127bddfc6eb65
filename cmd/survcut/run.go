package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jessicascarborough/sbrt-src-surv/analysis"
)

func init() {
	runCmd.Flags().Bool("no-plots", false, "do not plot the Kaplan-Meier curves")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run the complete analysis and write the report",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		noPlots, err := cmd.Flags().GetBool("no-plots")
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if noPlots {
			cfg.Plots = false
		}

		if cfg.Outcomes, err = selectedOutcomes(cfg); err != nil {
			return err
		}

		table, err := loadTable(cfg)
		if err != nil {
			return err
		}

		report, err := analysis.Run(cmd.Context(), cfg, table)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := report.WriteText(&buf); err != nil {
			return err
		}

		if cfg.Output != "" {
			path := filepath.Join(cfg.Output, "report.txt")
			if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
				return errors.Wrapf(err, "cannot write %s", path)
			}
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), buf.String())
		return err
	},
}

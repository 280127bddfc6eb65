package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jessicascarborough/sbrt-src-surv/analysis"
)

func init() {
	plotCmd.Flags().String("time-label", "", "label of the time axis")
	rootCmd.AddCommand(plotCmd)
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "plot Kaplan-Meier curves of the risk groups selected from saved tables",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		label, err := cmd.Flags().GetString("time-label")
		if err != nil {
			return err
		}
		if label != "" {
			cfg.TimeLabel = label
		}

		ocs, err := selectedOutcomes(cfg)
		if err != nil {
			return err
		}

		table, err := loadTable(cfg)
		if err != nil {
			return err
		}

		for _, oc := range ocs {
			c, err := table.Cohort(oc.Name, cfg.Columns, oc.OutcomeColumns)
			if err != nil {
				return err
			}

			or, err := analysis.LoadOutcome(cfg, oc, c)
			if err != nil {
				return err
			}

			if err := or.Plot(cfg); err != nil {
				return err
			}
			for _, f := range or.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
			}
		}

		return nil
	},
}

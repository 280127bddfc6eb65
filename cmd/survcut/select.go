package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jessicascarborough/sbrt-src-surv/analysis"
)

func init() {
	selectCmd.Flags().Bool("details", false, "print the leading candidates of each table")
	rootCmd.AddCommand(selectCmd)
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "select the best cutpoints from saved tables",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		details, err := cmd.Flags().GetBool("details")
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ocs, err := selectedOutcomes(cfg)
		if err != nil {
			return err
		}

		report := analysis.NewReport(cfg)
		for _, oc := range ocs {
			or, err := analysis.LoadOutcome(cfg, oc, nil)
			if err != nil {
				return err
			}
			report.Add(or)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, report.SummaryTable())

		if details {
			for _, or := range report.Ordered() {
				if err := or.WriteText(out, cfg.MinGroupSize); err != nil {
					return err
				}
			}
		}

		return nil
	},
}

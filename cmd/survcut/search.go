package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jessicascarborough/sbrt-src-surv/analysis"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "compute and save the single and double cutpoint tables",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ocs, err := selectedOutcomes(cfg)
		if err != nil {
			return err
		}

		table, err := loadTable(cfg)
		if err != nil {
			return err
		}

		report := analysis.NewReport(cfg)
		for _, oc := range ocs {
			c, err := table.Cohort(oc.Name, cfg.Columns, oc.OutcomeColumns)
			if err != nil {
				return err
			}

			or, err := analysis.Search(cmd.Context(), cfg, oc, c)
			if err != nil {
				return err
			}
			report.Add(or)

			for _, f := range or.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), report.SummaryTable())
		return nil
	},
}

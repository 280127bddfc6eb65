package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jessicascarborough/sbrt-src-surv/analysis"
)

func init() {
	rootCmd.AddCommand(fitCmd)
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "fit Cox models of tumor size and of the selected risk groups",

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

		out := cmd.OutOrStdout()
		for _, oc := range ocs {
			c, err := table.Cohort(oc.Name, cfg.Columns, oc.OutcomeColumns)
			if err != nil {
				return err
			}

			// Without saved tables only the size models are fit.
			or, err := analysis.LoadOutcome(cfg, oc, c)
			if errors.Is(err, os.ErrNotExist) {
				log.WithField("outcome", oc.Name).Warn("no cutpoint tables, run search first to fit the group models")
				or = analysis.NewOutcomeReport(oc, c)
			} else if err != nil {
				return err
			}

			if err := or.Fit(cfg); err != nil {
				return err
			}

			fmt.Fprintf(out, "%s: %d subjects, %d events, concordance %.3f\n\n",
				or.Title, or.N, or.Events, or.Concordance)
			for _, m := range or.Models {
				if m.Err != nil {
					fmt.Fprintf(out, "Cox model %s: %v\n\n", m.Name, m.Err)
					continue
				}
				fmt.Fprintln(out, m.Result.Summary().Title(or.Title+": "+m.Name).String())
			}
		}

		return nil
	},
}

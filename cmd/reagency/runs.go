package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielreuter/reagency/internal/run"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := run.OpenLog(cfg.Dirs.RunDir)
		if err != nil {
			return err
		}

		runs := log.Runs()
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
			return nil
		}
		for _, rec := range runs {
			end := "-"
			if rec.EndTime != nil {
				end = rec.EndTime.Format(time.RFC3339)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  start=%s  end=%s\n",
				rec.ID, rec.Status, rec.StartTime.Format(time.RFC3339), end)
		}
		return nil
	},
}

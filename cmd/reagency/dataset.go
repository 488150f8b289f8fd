package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielreuter/reagency/internal/codec"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset <file>",
	Short: "Check a dataset file and summarize its rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		v, err := codec.UnmarshalCanonical(data)
		if err != nil {
			return fmt.Errorf("parsing dataset: %w", err)
		}
		rows, ok := v.AsList()
		if !ok {
			return fmt.Errorf("dataset is not a list of rows")
		}

		seen := make(map[string]bool, len(rows))
		for i, row := range rows {
			m, ok := row.AsMap()
			if !ok {
				return fmt.Errorf("row %d is not an object", i)
			}
			idVal, ok := m.Get("id")
			if !ok {
				return fmt.Errorf("row %d has no id", i)
			}
			id, ok := idVal.AsString()
			if !ok || id == "" {
				return fmt.Errorf("row %d has an invalid id", i)
			}
			if seen[id] {
				return fmt.Errorf("duplicate row id %s", id)
			}
			seen[id] = true
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows, ids unique\n", len(rows))
		return nil
	},
}

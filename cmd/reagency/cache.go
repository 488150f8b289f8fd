package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "List content-addressed cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cfg.Dirs.CacheDir
		if _, err := os.Stat(root); os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "cache directory does not exist")
			return nil
		}

		var count int
		var total int64
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			count++
			total += info.Size()
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %d bytes\n", d.Name(), info.Size())
			return nil
		})
		if err != nil {
			return fmt.Errorf("walking cache directory: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d entries, %d bytes total\n", count, total)
		return nil
	},
}

// Command reagency inspects the on-disk state of a research-automation
// workspace: the run ledger, the content-addressable result cache, and
// dataset files.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// explicitFlags reports which of cmd's flags the user actually passed,
// as opposed to left at their zero-value default, so config-file merging
// can tell "explicitly false" apart from "unset".
func explicitFlags(cmd *cobra.Command) map[string]bool {
	set := make(map[string]bool)
	if cmd == nil {
		return set
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		set[f.Name] = true
	})
	return set
}

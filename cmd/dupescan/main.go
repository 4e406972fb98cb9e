// Command dupescan finds structurally similar functions, types, and rule
// blocks across a multi-language codebase.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kelvinlabs/dupescan/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dupescan",
	Short: "A cross-language structural similarity scanner",
	Long: `dupescan detects semantically similar functions, types, and rule
blocks across Python, JavaScript, TypeScript, Go, Rust, and CSS source
files. It canonicalizes each fragment's syntax tree and compares
fragments with tree edit distance, so renamed identifiers and reordered
statements don't hide a duplicate.

Features:
  • Language-agnostic canonicalization via tree-sitter grammars
  • Fingerprint prefiltering to skip unrelated pairs cheaply
  • Tree edit distance and structural multiset comparison
  • Deterministic, priority-ranked match reports`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewScanCommand().CreateCobraCommand())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if ec, ok := err.(*exitCode); ok {
			os.Exit(ec.code)
		}
		os.Exit(1)
	}
}

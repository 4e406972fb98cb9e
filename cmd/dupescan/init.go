package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kelvinlabs/dupescan/internal/config"
)

// InitCommand writes a starter .dupescan.toml.
type InitCommand struct {
	force      bool
	configPath string
}

// NewInitCommand builds an InitCommand defaulting to .dupescan.toml.
func NewInitCommand() *InitCommand {
	return &InitCommand{configPath: ".dupescan.toml"}
}

// CreateCobraCommand builds the "init" subcommand.
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter dupescan configuration file",
		Long: `init creates a .dupescan.toml file in the current directory with
every setting spelled out at its compiled-in default, so you can edit
in place rather than looking up flag names.

Examples:
  # Create .dupescan.toml in the current directory
  dupescan init

  # Overwrite an existing configuration file
  dupescan init --force`,
		RunE: i.run,
	}

	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite an existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", i.configPath, "Configuration file path to write")

	return cmd
}

func (i *InitCommand) run(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(i.configPath)
	if err != nil {
		return exitError(1, fmt.Errorf("failed to resolve config path: %w", err))
	}

	if _, err := os.Stat(path); err == nil && !i.force {
		return exitError(1, fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return exitError(1, fmt.Errorf("failed to create directory: %w", err))
	}

	rendered, err := config.GenerateDefaultConfigTOML()
	if err != nil {
		return exitError(1, fmt.Errorf("failed to render default config: %w", err))
	}

	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return exitError(1, fmt.Errorf("failed to write configuration file: %w", err))
	}

	rel, err := filepath.Rel(".", path)
	if err != nil {
		rel = path
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", rel)
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'dupescan scan --config %s .' to use it.\n", rel)
	return nil
}

// NewInitCmd builds the cobra command directly.
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}

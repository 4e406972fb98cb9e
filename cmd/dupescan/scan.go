package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kelvinlabs/dupescan/app"
	"github.com/kelvinlabs/dupescan/domain"
	"github.com/kelvinlabs/dupescan/internal/config"
	"github.com/kelvinlabs/dupescan/service"
)

// ScanCommand holds the scan subcommand's flag values.
type ScanCommand struct {
	configFile      string
	includePatterns []string
	excludePatterns []string

	threshold     float64
	minLines      int
	minTokens     int
	crossFile     bool
	noSizePenalty bool
	skipTest      bool
	print         bool

	filterFunction     string
	filterFunctionBody string
	renameCost         float64

	includeRuleBlocks bool
	profilesPath      string

	fast    bool
	precise bool

	output         string
	format         string
	sortBy         string
	workers        int
	batchThreshold int
	verbose        bool
}

// fastSizeRatioK and preciseSizeRatioK back the --fast/--precise presets:
// fast widens the prefilter's size-ratio gate, trading a few extra kernel
// calls for fewer size-gate false negatives; precise keeps the gate at
// the tightest sound value.
const (
	fastSizeRatioK    = 4.0
	preciseSizeRatioK = 1.0
)

// NewScanCommand constructs a ScanCommand with its stated defaults.
func NewScanCommand() *ScanCommand {
	return &ScanCommand{
		includePatterns: nil,
		excludePatterns: nil,
		threshold:       0.85,
		minLines:        5,
		minTokens:       10,
		renameCost:      0.3,
		batchThreshold:  2000,
		format:          "text",
		sortBy:          "priority",
	}
}

// CreateCobraCommand builds the "scan" subcommand.
func (c *ScanCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Find structurally similar functions, types, and rule blocks",
		Long: `scan detects semantically similar functions, types, and (optionally)
rule blocks within and across source files using tree edit distance over
canonicalized syntax trees.

Examples:
  # Scan the current directory
  dupescan scan .

  # Raise the similarity bar and compare across files
  dupescan scan --threshold 0.9 --cross-file src/

  # Emit JSON for downstream tooling
  dupescan scan --format json src/ > matches.json`,
		Args: cobra.MinimumNArgs(0),
		RunE: c.run,
	}

	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil, "Glob patterns for files to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil, "Glob patterns for files to exclude")

	cmd.Flags().Float64Var(&c.threshold, "threshold", c.threshold, "Minimum similarity threshold (0.0-1.0)")
	cmd.Flags().IntVar(&c.minLines, "min-lines", c.minLines, "Drop fragments shorter than N lines")
	cmd.Flags().IntVar(&c.minTokens, "min-tokens", c.minTokens, "Drop fragments with fewer than N nodes")
	cmd.Flags().BoolVar(&c.crossFile, "cross-file", false, "Enable across-file comparison")
	cmd.Flags().BoolVar(&c.noSizePenalty, "no-size-penalty", false, "Disable the size penalty multiplier")
	cmd.Flags().BoolVar(&c.skipTest, "skip-test", false, "Exclude test-like fragments")
	cmd.Flags().BoolVar(&c.print, "print", false, "Include source snippets in output")

	cmd.Flags().StringVar(&c.filterFunction, "filter-function", "", "Keep only fragments whose identifier contains NAME")
	cmd.Flags().StringVar(&c.filterFunctionBody, "filter-function-body", "", "Keep only fragments whose source contains TEXT")
	cmd.Flags().Float64Var(&c.renameCost, "rename-cost", c.renameCost, "Override the kernel's rename cost")

	cmd.Flags().BoolVar(&c.includeRuleBlocks, "include-rule-blocks", false, "Also compare CSS rule blocks")
	cmd.Flags().StringVar(&c.profilesPath, "profiles", "", "Path to a JSON file overriding extraction profiles")

	cmd.Flags().BoolVar(&c.fast, "fast", false, "Large-repo preset: widen the prefilter gate, skip the size penalty")
	cmd.Flags().BoolVar(&c.precise, "precise", false, "Small-repo preset: use the tightest sound prefilter gate")

	cmd.Flags().StringVarP(&c.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&c.format, "format", c.format, "Output format: text, json, yaml, csv")
	cmd.Flags().StringVar(&c.sortBy, "sort", c.sortBy, "Sort results by: priority, similarity, location")
	cmd.Flags().IntVar(&c.workers, "workers", 0, "Number of comparison workers (0 = number of CPUs)")
	cmd.Flags().IntVar(&c.batchThreshold, "batch-threshold", c.batchThreshold, "Cap matches per kind-bucket once it exceeds this many fragments (0 = unbounded)")
	cmd.Flags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	return cmd
}

func (c *ScanCommand) run(cmd *cobra.Command, args []string) error {
	logLevel := slog.LevelWarn
	if c.verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	profiles, err := config.LoadProfiles(c.profilesPath)
	if err != nil {
		return exitError(2, err)
	}

	var sizeRatioK float64
	noSizePenalty := c.noSizePenalty
	switch {
	case c.fast && c.precise:
		return exitError(2, fmt.Errorf("--fast and --precise are mutually exclusive"))
	case c.fast:
		sizeRatioK = fastSizeRatioK
		noSizePenalty = true
	case c.precise:
		sizeRatioK = preciseSizeRatioK
	}

	req := domain.ScanRequest{
		Paths:             paths,
		IncludePatterns:   c.includePatterns,
		ExcludePatterns:   c.excludePatterns,
		Threshold:         c.threshold,
		MinLines:          c.minLines,
		MinTokens:         c.minTokens,
		CrossFile:         c.crossFile,
		NoSizePenalty:     noSizePenalty,
		SkipTest:          c.skipTest,
		Print:             c.print,
		FilterFunction:    c.filterFunction,
		FilterBody:        c.filterFunctionBody,
		RenameCost:        c.renameCost,
		IncludeRuleBlocks: c.includeRuleBlocks,
		SizeRatioK:        sizeRatioK,
		BatchThreshold:    c.batchThreshold,
		Workers:           c.workers,
		OutputFormat:      domain.OutputFormat(strings.ToLower(c.format)),
		SortBy:            domain.SortCriteria(c.sortBy),
		ConfigPath:        c.configFile,
		ExplicitFlags:     explicitFlags(cmd),
	}

	if err := req.Validate(); err != nil {
		return exitError(2, err)
	}

	out := cmd.OutOrStdout()
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			return exitError(1, fmt.Errorf("failed to open output file: %w", err))
		}
		defer f.Close()
		out = f
	}
	req.OutputWriter = out

	engine := service.NewEngine(profiles, logger)
	progress := service.NewProgressManager()
	progress.SetWriter(cmd.ErrOrStderr())
	defer progress.Close()
	engine.Progress = progress
	formatter := service.NewFormatter()
	configLoader := service.NewConfigLoader()
	useCase := app.NewScanUseCase(engine, formatter, configLoader)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	if err := useCase.Execute(ctx, req); err != nil {
		return exitError(1, err)
	}
	return nil
}

// exitCode is a cobra RunE error that carries the process exit code for
// each error class: 2 for a configuration error, 1 for anything else that
// stopped the run before a report was produced.
type exitCode struct {
	code int
	err  error
}

func (e *exitCode) Error() string { return e.err.Error() }

func exitError(code int, err error) error {
	return &exitCode{code: code, err: err}
}

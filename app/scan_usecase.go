// Package app orchestrates one scan invocation end to end: validate,
// resolve configuration, run the service, format output.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kelvinlabs/dupescan/domain"
)

// ScanUseCase wires a domain.ScanService, formatter, and config loader
// into a single Execute call the CLI layer invokes.
type ScanUseCase struct {
	service      domain.ScanService
	formatter    domain.ScanFormatter
	configLoader domain.ScanConfigLoader
}

// NewScanUseCase builds a ScanUseCase from its collaborators.
func NewScanUseCase(service domain.ScanService, formatter domain.ScanFormatter, configLoader domain.ScanConfigLoader) *ScanUseCase {
	return &ScanUseCase{service: service, formatter: formatter, configLoader: configLoader}
}

// Execute validates req, merges in file configuration if requested, runs
// the scan, and writes the formatted report to req.OutputWriter.
func (uc *ScanUseCase) Execute(ctx context.Context, req domain.ScanRequest) error {
	start := time.Now()

	if req.ConfigPath != "" {
		fileReq, err := uc.configLoader.Load(req.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		req = mergeRequest(*fileReq, req)
	}

	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if req.OutputWriter == nil {
		return fmt.Errorf("no valid output writer specified")
	}

	resp, err := uc.service.Scan(ctx, &req)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if resp.Statistics != nil {
		resp.Statistics.DurationMillis = time.Since(start).Milliseconds()
	}

	if err := uc.formatter.Format(resp, req.OutputFormat, req.OutputWriter); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

// boolOverride resolves one boolean field's merged value: if the CLI
// flag was explicitly passed, it wins outright (even to turn something
// off that the file config turned on); otherwise the two OR together, so
// a config file's true survives an unset CLI flag.
func boolOverride(explicit map[string]bool, flag string, baseVal, cliVal bool) bool {
	if explicit != nil && explicit[flag] {
		return cliVal
	}
	return baseVal || cliVal
}

// mergeRequest layers cliReq's explicitly-set fields over base (the file
// config); the CLI request takes precedence wherever it set something. A
// zero value on cliReq is treated as "inherit from base" for non-boolean
// fields; booleans consult cliReq.ExplicitFlags (see boolOverride) since
// false is a valid, distinguishable CLI value for them.
func mergeRequest(base, cliReq domain.ScanRequest) domain.ScanRequest {
	merged := base
	if len(cliReq.Paths) > 0 {
		merged.Paths = cliReq.Paths
	}
	if len(cliReq.IncludePatterns) > 0 {
		merged.IncludePatterns = cliReq.IncludePatterns
	}
	if len(cliReq.ExcludePatterns) > 0 {
		merged.ExcludePatterns = cliReq.ExcludePatterns
	}
	if cliReq.Threshold != 0 {
		merged.Threshold = cliReq.Threshold
	}
	if cliReq.MinLines != 0 {
		merged.MinLines = cliReq.MinLines
	}
	if cliReq.MinTokens != 0 {
		merged.MinTokens = cliReq.MinTokens
	}
	if cliReq.RenameCost != 0 {
		merged.RenameCost = cliReq.RenameCost
	}
	if cliReq.SizeRatioK != 0 {
		merged.SizeRatioK = cliReq.SizeRatioK
	}
	if cliReq.BatchThreshold != 0 {
		merged.BatchThreshold = cliReq.BatchThreshold
	}
	if cliReq.FilterFunction != "" {
		merged.FilterFunction = cliReq.FilterFunction
	}
	if cliReq.FilterBody != "" {
		merged.FilterBody = cliReq.FilterBody
	}
	if cliReq.Workers != 0 {
		merged.Workers = cliReq.Workers
	}
	if cliReq.OutputFormat != "" {
		merged.OutputFormat = cliReq.OutputFormat
	}
	if cliReq.SortBy != "" {
		merged.SortBy = cliReq.SortBy
	}
	flags := cliReq.ExplicitFlags
	merged.CrossFile = boolOverride(flags, "cross-file", merged.CrossFile, cliReq.CrossFile)
	merged.NoSizePenalty = boolOverride(flags, "no-size-penalty", merged.NoSizePenalty, cliReq.NoSizePenalty)
	merged.SkipTest = boolOverride(flags, "skip-test", merged.SkipTest, cliReq.SkipTest)
	merged.Print = boolOverride(flags, "print", merged.Print, cliReq.Print)
	merged.IncludeRuleBlocks = boolOverride(flags, "include-rule-blocks", merged.IncludeRuleBlocks, cliReq.IncludeRuleBlocks)
	merged.OutputWriter = cliReq.OutputWriter
	merged.ConfigPath = cliReq.ConfigPath
	merged.ExplicitFlags = nil
	return merged
}

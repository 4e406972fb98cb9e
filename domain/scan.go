// Package domain holds the request/response types and service interfaces
// that internal/similarity's engine is wired behind: request in, response
// out, no business logic lives here.
package domain

import (
	"context"
	"fmt"
	"io"
)

// OutputFormat is one of the supported report renderings.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// SortCriteria orders the matches in a report.
type SortCriteria string

const (
	SortByPriority   SortCriteria = "priority"
	SortBySimilarity SortCriteria = "similarity"
	SortByLocation   SortCriteria = "location"
)

// FragmentKind mirrors similarity.Kind at the domain boundary so callers
// outside internal/similarity (config, CLI) don't need to import it just
// to spell a kind name.
type FragmentKind string

const (
	FragmentKindFunction  FragmentKind = "function"
	FragmentKindType      FragmentKind = "type"
	FragmentKindRuleBlock FragmentKind = "rule_block"
)

// FragmentLocation is the reportable position of a fragment.
type FragmentLocation struct {
	FilePath  string `json:"file_path" yaml:"file_path"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
}

func (l FragmentLocation) String() string {
	return fmt.Sprintf("%s:%d-%d", l.FilePath, l.StartLine, l.EndLine)
}

// FragmentReport is the reportable view of one fragment, appearing in
// both members of a MatchReport.
type FragmentReport struct {
	Identifier string           `json:"identifier" yaml:"identifier"`
	Kind       FragmentKind     `json:"kind" yaml:"kind"`
	Language   string           `json:"language,omitempty" yaml:"language,omitempty"`
	Location   FragmentLocation `json:"location" yaml:"location"`
	Size       int              `json:"size" yaml:"size"`
	IsTestLike bool             `json:"is_test_like" yaml:"is_test_like"`
	Source     string           `json:"source,omitempty" yaml:"source,omitempty"`
}

// MatchReport is one similar-pair result.
type MatchReport struct {
	FragmentA          FragmentReport `json:"fragment_a" yaml:"fragment_a"`
	FragmentB          FragmentReport `json:"fragment_b" yaml:"fragment_b"`
	RawSimilarity      float64        `json:"raw_similarity" yaml:"raw_similarity"`
	AdjustedSimilarity float64        `json:"similarity" yaml:"similarity"`
	Priority           float64        `json:"priority" yaml:"priority"`
	CloneType          string         `json:"clone_type,omitempty" yaml:"clone_type,omitempty"`
}

// ScanStatistics summarizes one run for reporting.
type ScanStatistics struct {
	FilesScanned       int            `json:"files_scanned" yaml:"files_scanned"`
	FragmentsExtracted int            `json:"fragments_extracted" yaml:"fragments_extracted"`
	PairsConsidered    int            `json:"pairs_considered" yaml:"pairs_considered"`
	PairsReported      int            `json:"pairs_reported" yaml:"pairs_reported"`
	PairsTruncated     int            `json:"pairs_truncated,omitempty" yaml:"pairs_truncated,omitempty"`
	MatchesByKind      map[string]int `json:"matches_by_kind" yaml:"matches_by_kind"`
	AverageSimilarity  float64        `json:"average_similarity" yaml:"average_similarity"`
	DurationMillis     int64          `json:"duration_ms" yaml:"duration_ms"`
}

// ScanRequest is the input to one similarity run, gathering both the
// CLI's flag surface and its ambient config.
type ScanRequest struct {
	Paths           []string `json:"paths"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	Threshold       float64 `json:"threshold"`
	MinLines        int     `json:"min_lines"`
	MinTokens       int     `json:"min_tokens"`
	CrossFile       bool    `json:"cross_file"`
	NoSizePenalty   bool    `json:"no_size_penalty"`
	SkipTest        bool    `json:"skip_test"`
	Print           bool    `json:"print"`
	FilterFunction  string  `json:"filter_function"`
	FilterBody      string  `json:"filter_function_body"`
	RenameCost      float64 `json:"rename_cost"`
	IncludeRuleBlocks bool  `json:"include_rule_blocks"`

	// SizeRatioK overrides the prefilter's size-ratio gate constant
	// (similarity.PrefilterConfig.SizeRatioK). 0 means "use the default".
	// The --fast/--precise presets set this via the CLI layer.
	SizeRatioK float64 `json:"size_ratio_k"`

	// BatchThreshold caps how many matches a single kind-bucket can report
	// once it holds more fragments than this; 0 means unbounded.
	BatchThreshold int `json:"batch_threshold"`

	Workers int `json:"workers"`

	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	SortBy       SortCriteria `json:"sort_by"`

	ConfigPath string `json:"config_path"`

	// ExplicitFlags names the fields the CLI layer set from a flag the
	// user actually passed (as opposed to its zero-value default), so
	// mergeRequest can tell "explicitly false" apart from "unset" for
	// boolean fields. nil means every field is treated as unset.
	ExplicitFlags map[string]bool `json:"-"`
}

// Validate checks a ScanRequest's invariants: a violation here is a
// configuration error, fatal and reported with exit code 2 before any
// file is even opened.
func (r *ScanRequest) Validate() error {
	if len(r.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}
	if r.Threshold < 0.0 || r.Threshold > 1.0 {
		return NewValidationError("threshold must be between 0.0 and 1.0")
	}
	if r.MinLines < 0 {
		return NewValidationError("min_lines must be >= 0")
	}
	if r.MinTokens < 0 {
		return NewValidationError("min_tokens must be >= 0")
	}
	if r.RenameCost < 0.0 {
		return NewValidationError("rename_cost must be >= 0.0")
	}
	return nil
}

// DefaultScanRequest returns the stated CLI defaults.
func DefaultScanRequest() *ScanRequest {
	return &ScanRequest{
		Paths:          []string{"."},
		Threshold:      0.85,
		MinLines:       5,
		MinTokens:      10,
		CrossFile:      false,
		NoSizePenalty:  false,
		SkipTest:       false,
		RenameCost:     0.3,
		BatchThreshold: 2000,
		Workers:        0,
		OutputFormat:   OutputFormatText,
		SortBy:         SortByPriority,
	}
}

// CloneGroup unions every match that transitively shares a fragment into
// one reporting unit, a post-processing convenience over the engine's raw
// pair reports (the engine itself "does not collapse the group; it emits
// all three pairs" for an A~B~C triangle — grouping happens here).
type CloneGroup struct {
	ID                int              `json:"id" yaml:"id"`
	Fragments         []FragmentReport `json:"fragments" yaml:"fragments"`
	CloneType         string           `json:"clone_type" yaml:"clone_type"`
	AverageSimilarity float64          `json:"average_similarity" yaml:"average_similarity"`
}

// ScanResponse is the result of one similarity run.
type ScanResponse struct {
	Matches    []MatchReport   `json:"matches" yaml:"matches"`
	Groups     []CloneGroup    `json:"groups,omitempty" yaml:"groups,omitempty"`
	Statistics *ScanStatistics `json:"statistics" yaml:"statistics"`
	Success    bool            `json:"success" yaml:"success"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// ScanService is the interface app.ScanUseCase drives; service.Engine
// implements it by wiring internal/parser, internal/discovery, and
// internal/similarity together.
type ScanService interface {
	Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error)
}

// ScanFormatter renders a ScanResponse in one of the supported formats.
type ScanFormatter interface {
	Format(resp *ScanResponse, format OutputFormat, w io.Writer) error
}

// ScanConfigLoader loads a ScanRequest's ambient configuration from disk.
type ScanConfigLoader interface {
	Load(configPath string) (*ScanRequest, error)
	Default() *ScanRequest
}

// ProgressManager reports file-processing progress during a scan. A
// no-op implementation is fine for non-interactive callers (library
// use, tests); service.NewProgressManager renders an actual bar to a
// terminal.
type ProgressManager interface {
	// Initialize sets the total unit count the run will process.
	Initialize(total int)

	// Start begins rendering, if the destination is interactive.
	Start()

	// Update reports that processed of total units are done.
	Update(processed, total int)

	// Complete finishes the bar. success is cosmetic only.
	Complete(success bool)

	// SetWriter changes the render destination.
	SetWriter(w io.Writer)

	// IsInteractive reports whether Start will actually render a bar.
	IsInteractive() bool

	// Close releases any held resources.
	Close()
}

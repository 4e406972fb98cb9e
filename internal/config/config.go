// Package config loads and validates the ambient configuration for a scan
// run into the flat shape domain.ScanRequest needs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/kelvinlabs/dupescan/domain"
)

// Config is the on-disk configuration shape, one section per concern.
// Field names are mapstructure/toml/yaml/json tagged so the same struct
// decodes whether Viper reads TOML, YAML, or JSON, or go-toml decodes a
// pyproject.toml section directly.
type Config struct {
	Analysis    AnalysisConfig    `mapstructure:"analysis" toml:"analysis" yaml:"analysis" json:"analysis"`
	Filtering   FilteringConfig   `mapstructure:"filtering" toml:"filtering" yaml:"filtering" json:"filtering"`
	Input       InputConfig       `mapstructure:"input" toml:"input" yaml:"input" json:"input"`
	Output      OutputConfig      `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Performance PerformanceConfig `mapstructure:"performance" toml:"performance" yaml:"performance" json:"performance"`

	// ProfilesPath, if set, points to a JSON file overriding or
	// supplementing the compiled-in extraction profiles.
	ProfilesPath string `mapstructure:"profiles_path" toml:"profiles_path" yaml:"profiles_path" json:"profiles_path"`
}

// AnalysisConfig holds the kernel-facing knobs.
type AnalysisConfig struct {
	Threshold     float64 `mapstructure:"threshold" toml:"threshold" yaml:"threshold" json:"threshold"`
	MinLines      int     `mapstructure:"min_lines" toml:"min_lines" yaml:"min_lines" json:"min_lines"`
	MinTokens     int     `mapstructure:"min_tokens" toml:"min_tokens" yaml:"min_tokens" json:"min_tokens"`
	RenameCost    float64 `mapstructure:"rename_cost" toml:"rename_cost" yaml:"rename_cost" json:"rename_cost"`
	NoSizePenalty bool    `mapstructure:"no_size_penalty" toml:"no_size_penalty" yaml:"no_size_penalty" json:"no_size_penalty"`
	CrossFile     bool    `mapstructure:"cross_file" toml:"cross_file" yaml:"cross_file" json:"cross_file"`
}

// FilteringConfig holds the pre/post-run filters.
type FilteringConfig struct {
	SkipTest       bool   `mapstructure:"skip_test" toml:"skip_test" yaml:"skip_test" json:"skip_test"`
	FilterFunction string `mapstructure:"filter_function" toml:"filter_function" yaml:"filter_function" json:"filter_function"`
	FilterBody     string `mapstructure:"filter_function_body" toml:"filter_function_body" yaml:"filter_function_body" json:"filter_function_body"`
}

// InputConfig holds file discovery settings.
type InputConfig struct {
	Paths           []string `mapstructure:"paths" toml:"paths" yaml:"paths" json:"paths"`
	IncludePatterns []string `mapstructure:"include_patterns" toml:"include_patterns" yaml:"include_patterns" json:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" toml:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format" toml:"format" yaml:"format" json:"format"`
	SortBy string `mapstructure:"sort_by" toml:"sort_by" yaml:"sort_by" json:"sort_by"`
	Print  bool   `mapstructure:"print" toml:"print" yaml:"print" json:"print"`
}

// PerformanceConfig holds concurrency and memory-bound settings.
type PerformanceConfig struct {
	Workers int `mapstructure:"workers" toml:"workers" yaml:"workers" json:"workers"`
	// BatchThreshold bounds memory on huge kind-buckets: once a bucket
	// holds more fragments than this, only the highest-priority matches
	// survive (similarity.RunConfig.BatchThreshold). 0 disables the bound.
	BatchThreshold int `mapstructure:"batch_threshold" toml:"batch_threshold" yaml:"batch_threshold" json:"batch_threshold"`
}

// Default returns the stated CLI defaults, expressed as a Config.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Threshold:  0.85,
			MinLines:   5,
			MinTokens:  10,
			RenameCost: 0.3,
		},
		Input: InputConfig{
			Paths:           []string{"."},
			IncludePatterns: []string{"**/*.py", "**/*.js", "**/*.jsx", "**/*.ts", "**/*.tsx", "**/*.go", "**/*.rs", "**/*.css"},
			ExcludePatterns: []string{"**/vendor/**", "**/node_modules/**", "**/.git/**"},
		},
		Output: OutputConfig{
			Format: string(domain.OutputFormatText),
			SortBy: string(domain.SortByPriority),
		},
		Performance: PerformanceConfig{
			BatchThreshold: 2000,
		},
	}
}

// Loader locates and parses a dupescan config file with Viper: TOML is
// the primary format, with YAML and JSON accepted for the same schema.
type Loader struct{}

// NewLoader constructs a config Loader.
func NewLoader() *Loader { return &Loader{} }

// Load reads configPath if given, else searches the current directory
// for .dupescan.toml/.yaml/.json, falling back to a [tool.dupescan]
// section in ./pyproject.toml, merging over Default(). A missing config
// file is not an error; an unparsable one is a fatal configuration error
// (exit code 2).
func (l *Loader) Load(configPath string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	bindDefaults(v, cfg)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName(".dupescan")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("config: failed to read config: %w", err)
			}
			return LoadPyproject("pyproject.toml")
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode config: %w", err)
	}
	return cfg, nil
}

// bindDefaults seeds viper's defaults from cfg so keys absent from the
// config file still resolve to Default()'s values after Unmarshal.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("analysis.threshold", cfg.Analysis.Threshold)
	v.SetDefault("analysis.min_lines", cfg.Analysis.MinLines)
	v.SetDefault("analysis.min_tokens", cfg.Analysis.MinTokens)
	v.SetDefault("analysis.rename_cost", cfg.Analysis.RenameCost)
	v.SetDefault("input.paths", cfg.Input.Paths)
	v.SetDefault("input.include_patterns", cfg.Input.IncludePatterns)
	v.SetDefault("input.exclude_patterns", cfg.Input.ExcludePatterns)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.sort_by", cfg.Output.SortBy)
	v.SetDefault("performance.workers", cfg.Performance.Workers)
	v.SetDefault("performance.batch_threshold", cfg.Performance.BatchThreshold)
}

// ToScanRequest converts a Config into the domain.ScanRequest the service
// layer runs. It applies no CLI flag overrides; the app layer's
// mergeRequest layers the flags over the result.
func (c *Config) ToScanRequest() *domain.ScanRequest {
	return &domain.ScanRequest{
		Paths:           c.Input.Paths,
		IncludePatterns: c.Input.IncludePatterns,
		ExcludePatterns: c.Input.ExcludePatterns,
		Threshold:       c.Analysis.Threshold,
		MinLines:        c.Analysis.MinLines,
		MinTokens:       c.Analysis.MinTokens,
		CrossFile:       c.Analysis.CrossFile,
		NoSizePenalty:   c.Analysis.NoSizePenalty,
		SkipTest:        c.Filtering.SkipTest,
		Print:           c.Output.Print,
		FilterFunction:  c.Filtering.FilterFunction,
		FilterBody:      c.Filtering.FilterBody,
		RenameCost:      c.Analysis.RenameCost,
		Workers:         c.Performance.Workers,
		BatchThreshold:  c.Performance.BatchThreshold,
		OutputFormat:    domain.OutputFormat(c.Output.Format),
		SortBy:          domain.SortCriteria(c.Output.SortBy),
	}
}

// FindConfigFile walks up from dir looking for a .dupescan.toml.
func FindConfigFile(dir string) (string, bool) {
	for {
		path := filepath.Join(dir, ".dupescan.toml")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// pyprojectFile mirrors the [tool.dupescan] section of a pyproject.toml.
// Projects that already carry a pyproject.toml for other tooling can fold
// dupescan's settings in rather than adding a second config file.
type pyprojectFile struct {
	Tool struct {
		Dupescan Config `toml:"dupescan"`
	} `toml:"tool"`
}

// LoadPyproject reads [tool.dupescan] from the pyproject.toml at path and
// merges it over Default(). A missing file is not an error: it returns
// Default() unchanged.
func LoadPyproject(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var doc pyprojectFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	mergePyprojectSection(cfg, &doc.Tool.Dupescan)
	return cfg, nil
}

// mergePyprojectSection overlays non-zero fields from section onto cfg,
// treating a zero value as "unset".
func mergePyprojectSection(cfg *Config, section *Config) {
	if section.Analysis.Threshold > 0 {
		cfg.Analysis.Threshold = section.Analysis.Threshold
	}
	if section.Analysis.MinLines > 0 {
		cfg.Analysis.MinLines = section.Analysis.MinLines
	}
	if section.Analysis.MinTokens > 0 {
		cfg.Analysis.MinTokens = section.Analysis.MinTokens
	}
	if section.Analysis.RenameCost > 0 {
		cfg.Analysis.RenameCost = section.Analysis.RenameCost
	}
	cfg.Analysis.NoSizePenalty = cfg.Analysis.NoSizePenalty || section.Analysis.NoSizePenalty
	cfg.Analysis.CrossFile = cfg.Analysis.CrossFile || section.Analysis.CrossFile

	if len(section.Input.Paths) > 0 {
		cfg.Input.Paths = section.Input.Paths
	}
	if len(section.Input.IncludePatterns) > 0 {
		cfg.Input.IncludePatterns = section.Input.IncludePatterns
	}
	if len(section.Input.ExcludePatterns) > 0 {
		cfg.Input.ExcludePatterns = section.Input.ExcludePatterns
	}

	if section.Output.Format != "" {
		cfg.Output.Format = section.Output.Format
	}
	if section.Output.SortBy != "" {
		cfg.Output.SortBy = section.Output.SortBy
	}
	cfg.Output.Print = cfg.Output.Print || section.Output.Print

	if section.Performance.Workers > 0 {
		cfg.Performance.Workers = section.Performance.Workers
	}
	if section.Performance.BatchThreshold > 0 {
		cfg.Performance.BatchThreshold = section.Performance.BatchThreshold
	}
	if section.ProfilesPath != "" {
		cfg.ProfilesPath = section.ProfilesPath
	}
}

package service

import (
	"github.com/kelvinlabs/dupescan/domain"
	"github.com/kelvinlabs/dupescan/internal/config"
)

// ConfigLoader implements domain.ScanConfigLoader over internal/config's
// Viper-backed Loader.
type ConfigLoader struct {
	loader *config.Loader
}

// NewConfigLoader constructs a ConfigLoader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{loader: config.NewLoader()}
}

// Load reads configPath (or, when it is empty, a .dupescan config file in
// the current directory, then ./pyproject.toml) and returns the resulting
// ScanRequest.
func (l *ConfigLoader) Load(configPath string) (*domain.ScanRequest, error) {
	cfg, err := l.loader.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.ToScanRequest(), nil
}

// Default returns the compiled-in default ScanRequest.
func (l *ConfigLoader) Default() *domain.ScanRequest {
	return config.Default().ToScanRequest()
}

package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// GenerateDefaultConfigTOML renders the embedded default-config template
// against Default()'s values, so `dupescan init` always writes a file
// consistent with the compiled-in defaults.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, Default()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}
	return buf.String(), nil
}

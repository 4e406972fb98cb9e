package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelvinlabs/dupescan/internal/similarity"
)

// LoadProfiles returns the compiled-in extraction profiles, overridden or
// extended by the JSON file at path if non-empty. The JSON file is a map from language
// name to a similarity.LanguageProfile; entries there replace the
// compiled-in profile of the same name outright rather than merging
// field-by-field, since a caller supplying a profile at all almost always
// means to fully describe that language's grammar.
func LoadProfiles(path string) (map[string]*similarity.LanguageProfile, error) {
	profiles := similarity.BuiltinProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read extraction profiles %s: %w", path, err)
	}

	var overrides map[string]*similarity.LanguageProfile
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("config: malformed extraction profiles %s: %w", path, err)
	}
	for name, p := range overrides {
		if p.Name == "" {
			p.Name = name
		}
		profiles[name] = p
	}
	return profiles, nil
}

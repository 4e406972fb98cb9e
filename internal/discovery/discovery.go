// Package discovery walks input paths into a concrete file list, applying
// include/exclude glob patterns across every language internal/parser
// knows how to parse.
package discovery

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kelvinlabs/dupescan/internal/parser"
)

// Options configures one discovery pass.
type Options struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// Resolve walks paths, expanding directories recursively and filtering
// files by extension (must have a registered parser.Language) and by the
// include/exclude glob patterns. A path that is already a regular file is
// kept as-is regardless of patterns, so a pre-collected file list bypasses
// pattern filtering entirely.
func Resolve(paths []string, opts Options) ([]string, error) {
	var out []string
	seen := make(map[string]bool)

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
			continue
		}
		err = filepath.Walk(p, func(path string, fi os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if fi.IsDir() {
				return nil
			}
			if !isRecognizedLanguage(path) {
				return nil
			}
			if !matchesInclude(path, opts.IncludePatterns) {
				return nil
			}
			if matchesExclude(path, opts.ExcludePatterns) {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(out)
	return out, nil
}

func isRecognizedLanguage(path string) bool {
	_, ok := parser.LanguageByExtension[filepath.Ext(path)]
	return ok
}

func matchesInclude(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}

func matchesExclude(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// LanguageFor resolves the parser.Language for a discovered file path.
func LanguageFor(path string) (parser.Language, bool) {
	lang, ok := parser.LanguageByExtension[filepath.Ext(path)]
	return lang, ok
}

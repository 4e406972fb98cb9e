package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinlabs/dupescan/internal/parser"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestResolve_RecognizesOnlyRegisteredLanguages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "b.rb", "x = 1\n")
	writeFile(t, dir, "notes.txt", "hi\n")

	files, err := Resolve([]string{dir}, Options{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "a.py")
}

func TestResolve_ExcludePatternsWin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "vendor/b.py", "x = 1\n")

	files, err := Resolve([]string{dir}, Options{ExcludePatterns: []string{"**/vendor/**"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "a.py")
}

func TestResolve_IncludePatternsRestrictToMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "b.go", "package main\n")

	files, err := Resolve([]string{dir}, Options{IncludePatterns: []string{"**/*.go"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "b.go")
}

func TestResolve_ExplicitFileBypassesPatterns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "single.py", "x = 1\n")

	files, err := Resolve([]string{path}, Options{IncludePatterns: []string{"**/*.go"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, path, files[0])
}

func TestResolve_DeduplicatesAndSorts(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "z.py", "x = 1\n")
	p2 := writeFile(t, dir, "a.py", "x = 1\n")

	files, err := Resolve([]string{dir, p1, p2}, Options{})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.True(t, files[0] < files[1], "results must be sorted")
}

func TestResolve_MissingPathReturnsError(t *testing.T) {
	_, err := Resolve([]string{"/does/not/exist/at/all"}, Options{})
	assert.Error(t, err)
}

func TestLanguageFor(t *testing.T) {
	lang, ok := LanguageFor("a.rs")
	require.True(t, ok)
	assert.Equal(t, parser.LanguageRust, lang)

	_, ok = LanguageFor("a.unknown")
	assert.False(t, ok)
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScanCommand_Defaults(t *testing.T) {
	c := NewScanCommand()
	assert.Equal(t, 0.85, c.threshold)
	assert.Equal(t, 5, c.minLines)
	assert.Equal(t, 10, c.minTokens)
	assert.Equal(t, 0.3, c.renameCost)
	assert.Equal(t, "text", c.format)
	assert.Equal(t, "priority", c.sortBy)
}

func TestScanCommand_CreateCobraCommand_RegistersFlags(t *testing.T) {
	c := NewScanCommand()
	cmd := c.CreateCobraCommand()

	for _, name := range []string{
		"config", "include", "exclude", "threshold", "min-lines", "min-tokens",
		"cross-file", "no-size-penalty", "skip-test", "print",
		"filter-function", "filter-function-body", "rename-cost",
		"include-rule-blocks", "profiles", "output", "format", "sort", "workers", "verbose",
		"fast", "precise", "batch-threshold",
	} {
		require.NotNil(t, cmd.Flags().Lookup(name), "expected flag --%s to be registered", name)
	}
}

func TestScanCommand_FastAndPreciseAreMutuallyExclusive(t *testing.T) {
	c := NewScanCommand()
	cmd := c.CreateCobraCommand()
	cmd.SetArgs([]string{"--fast", "--precise", "."})

	err := cmd.Execute()
	require.Error(t, err)
	ec, ok := err.(*exitCode)
	require.True(t, ok)
	assert.Equal(t, 2, ec.code)
}

func TestExitError_WrapsCodeAndMessage(t *testing.T) {
	err := exitError(2, assertionError("bad config"))
	ec, ok := err.(*exitCode)
	require.True(t, ok)
	assert.Equal(t, 2, ec.code)
	assert.Equal(t, "bad config", ec.Error())
}

type assertionError string

func (e assertionError) Error() string { return string(e) }

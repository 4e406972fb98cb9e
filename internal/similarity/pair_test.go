package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeNamedFragment(kind Kind, file, identifier string, startLine, endLine int, labels ...string) *Fragment {
	tree := buildTree(labels...)
	loc := Location{FilePath: file, StartLine: startLine, EndLine: endLine, StartByte: startLine * 100, EndByte: endLine * 100}
	f := NewFragment(kind, identifier, loc, tree)
	f.IsTestLike = false
	return f
}

func defaultRunConfig() RunConfig {
	return RunConfig{
		Threshold:   0.5,
		MinJaccard:  0,
		CrossFile:   false,
		SizePenalty: true,
		Workers:     2,
	}
}

func TestOrchestrator_Run_MatchesIdenticalFragments(t *testing.T) {
	a := makeNamedFragment(KindFunction, "a.py", "foo", 1, 5, "FunctionDecl", "Block", "Return")
	b := makeNamedFragment(KindFunction, "a.py", "bar", 20, 24, "FunctionDecl", "Block", "Return")

	orch := NewOrchestrator(NewDefaultCostModel(), defaultRunConfig())
	summary := &RunSummary{}
	matches := orch.Run(context.Background(), []*Fragment{a, b}, summary)

	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].RawSimilarity)
	assert.Equal(t, 1, summary.PairsReported)
}

func TestOrchestrator_Run_SkipsOverlappingFragmentsInSameFile(t *testing.T) {
	a := makeNamedFragment(KindFunction, "a.py", "foo", 1, 10, "FunctionDecl")
	b := makeNamedFragment(KindFunction, "a.py", "bar", 5, 15, "FunctionDecl")

	orch := NewOrchestrator(NewDefaultCostModel(), defaultRunConfig())
	matches := orch.Run(context.Background(), []*Fragment{a, b}, nil)
	assert.Empty(t, matches, "overlapping fragments in the same file must never be paired")
}

func TestOrchestrator_Run_DifferentKindsNeverCompared(t *testing.T) {
	a := makeNamedFragment(KindFunction, "a.py", "foo", 1, 5, "FunctionDecl", "Block")
	b := makeNamedFragment(KindType, "a.py", "Foo", 20, 24, "FunctionDecl", "Block")

	orch := NewOrchestrator(NewDefaultCostModel(), defaultRunConfig())
	matches := orch.Run(context.Background(), []*Fragment{a, b}, nil)
	assert.Empty(t, matches)
}

func TestOrchestrator_Run_CrossFileDisabledByDefault(t *testing.T) {
	a := makeNamedFragment(KindFunction, "a.py", "foo", 1, 5, "FunctionDecl", "Block", "Return")
	b := makeNamedFragment(KindFunction, "b.py", "foo", 1, 5, "FunctionDecl", "Block", "Return")

	cfg := defaultRunConfig()
	cfg.CrossFile = false
	orch := NewOrchestrator(NewDefaultCostModel(), cfg)
	matches := orch.Run(context.Background(), []*Fragment{a, b}, nil)
	assert.Empty(t, matches, "cross-file comparison must be opt-in")

	cfg.CrossFile = true
	orchCross := NewOrchestrator(NewDefaultCostModel(), cfg)
	matchesCross := orchCross.Run(context.Background(), []*Fragment{a, b}, nil)
	assert.Len(t, matchesCross, 1)
}

func TestOrchestrator_Run_DifferentLanguagesNeverComparedEvenCrossFile(t *testing.T) {
	a := makeNamedFragment(KindFunction, "a.py", "foo", 1, 5, "FunctionDecl", "Block", "Return")
	a.Language = "python"
	b := makeNamedFragment(KindFunction, "b.go", "foo", 1, 5, "FunctionDecl", "Block", "Return")
	b.Language = "go"

	cfg := defaultRunConfig()
	cfg.CrossFile = true
	orch := NewOrchestrator(NewDefaultCostModel(), cfg)
	matches := orch.Run(context.Background(), []*Fragment{a, b}, nil)
	assert.Empty(t, matches, "fragments from different languages must never be compared")
}

func TestOrchestrator_Run_BelowThresholdIsExcluded(t *testing.T) {
	a := makeNamedFragment(KindFunction, "a.py", "foo", 1, 5, "FunctionDecl", "Block", "Return")
	b := makeNamedFragment(KindFunction, "a.py", "bar", 20, 30, "FunctionDecl", "Loop", "Break")

	cfg := defaultRunConfig()
	cfg.Threshold = 0.99
	orch := NewOrchestrator(NewDefaultCostModel(), cfg)
	summary := &RunSummary{}
	matches := orch.Run(context.Background(), []*Fragment{a, b}, summary)
	assert.Empty(t, matches)
}

func TestOrchestrator_Run_SkipTestLikeFilter(t *testing.T) {
	a := makeNamedFragment(KindFunction, "a.py", "test_foo", 1, 5, "FunctionDecl", "Block", "Return")
	a.IsTestLike = true
	b := makeNamedFragment(KindFunction, "a.py", "test_bar", 20, 24, "FunctionDecl", "Block", "Return")
	b.IsTestLike = true

	cfg := defaultRunConfig()
	cfg.Filters.SkipTestLike = true
	orch := NewOrchestrator(NewDefaultCostModel(), cfg)
	matches := orch.Run(context.Background(), []*Fragment{a, b}, nil)
	assert.Empty(t, matches)
}

func TestOrchestrator_Run_DeterministicOrdering(t *testing.T) {
	a := makeNamedFragment(KindFunction, "a.py", "foo", 1, 5, "FunctionDecl", "Block", "Return")
	b := makeNamedFragment(KindFunction, "a.py", "bar", 20, 24, "FunctionDecl", "Block", "Return")

	orch := NewOrchestrator(NewDefaultCostModel(), defaultRunConfig())

	var previous []Match
	for i := 0; i < 5; i++ {
		matches := orch.Run(context.Background(), []*Fragment{a, b}, nil)
		if previous != nil {
			require.Equal(t, len(previous), len(matches))
			for i := range matches {
				assert.Equal(t, previous[i].FragmentA.Identifier, matches[i].FragmentA.Identifier)
				assert.Equal(t, previous[i].Priority, matches[i].Priority)
			}
		}
		previous = matches
	}
}

func TestOrchestrator_Run_ContextCancellationStopsEarly(t *testing.T) {
	a := makeNamedFragment(KindFunction, "a.py", "foo", 1, 5, "FunctionDecl", "Block", "Return")
	b := makeNamedFragment(KindFunction, "a.py", "bar", 20, 24, "FunctionDecl", "Block", "Return")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := NewOrchestrator(NewDefaultCostModel(), defaultRunConfig())
	summary := &RunSummary{}
	matches := orch.Run(ctx, []*Fragment{a, b}, summary)
	assert.Empty(t, matches)
	assert.True(t, summary.Cancelled)
}

func TestOrchestrator_Run_BatchThresholdCapsHugeBucket(t *testing.T) {
	fragments := []*Fragment{
		makeNamedFragment(KindFunction, "a.py", "f0", 1, 5, "FunctionDecl", "Block", "Return"),
		makeNamedFragment(KindFunction, "a.py", "f1", 10, 14, "FunctionDecl", "Block", "Return"),
		makeNamedFragment(KindFunction, "a.py", "f2", 20, 24, "FunctionDecl", "Block", "Return"),
		makeNamedFragment(KindFunction, "a.py", "f3", 30, 34, "FunctionDecl", "Block", "Return"),
	}

	cfg := defaultRunConfig()
	cfg.BatchThreshold = 3
	orch := NewOrchestrator(NewDefaultCostModel(), cfg)
	summary := &RunSummary{}
	matches := orch.Run(context.Background(), fragments, summary)

	assert.Len(t, matches, 3, "a bucket over the batch threshold reports at most that many matches")
	assert.True(t, summary.PairsTruncated > 0, "excess matches must be recorded as truncated, not silently dropped")
}

func TestOrchestrator_Run_BelowBatchThresholdReportsEverything(t *testing.T) {
	fragments := []*Fragment{
		makeNamedFragment(KindFunction, "a.py", "f0", 1, 5, "FunctionDecl", "Block", "Return"),
		makeNamedFragment(KindFunction, "a.py", "f1", 10, 14, "FunctionDecl", "Block", "Return"),
	}

	cfg := defaultRunConfig()
	cfg.BatchThreshold = 10
	orch := NewOrchestrator(NewDefaultCostModel(), cfg)
	summary := &RunSummary{}
	matches := orch.Run(context.Background(), fragments, summary)

	assert.Len(t, matches, 1)
	assert.Equal(t, 0, summary.PairsTruncated)
}

func TestFilters_Admits(t *testing.T) {
	f := &Fragment{Identifier: "computeTotal", Source: "return a + b", IsTestLike: false}

	assert.True(t, Filters{}.admits(f))
	assert.False(t, Filters{NameSubstring: "missing"}.admits(f))
	assert.True(t, Filters{NameSubstring: "compute"}.admits(f))
	assert.False(t, Filters{BodySubstring: "nope"}.admits(f))

	testFrag := &Fragment{Identifier: "test_foo", IsTestLike: true}
	assert.False(t, Filters{SkipTestLike: true}.admits(testFrag))
}

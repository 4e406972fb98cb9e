package similarity

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// Match is one reported pair: two fragments the orchestrator judged
// similar enough to survive every stage of the pipeline.
type Match struct {
	FragmentA *Fragment
	FragmentB *Fragment

	RawSimilarity      float64
	AdjustedSimilarity float64
	Priority           float64
}

// Filters gates which fragments and pairs the orchestrator considers,
// mirroring the CLI's --skip-test / --filter-function / --filter-function-body
// flags.
type Filters struct {
	SkipTestLike       bool
	NameSubstring      string
	BodySubstring      string
}

func (f Filters) admits(frag *Fragment) bool {
	if f.SkipTestLike && frag.IsTestLike {
		return false
	}
	if f.NameSubstring != "" && !strings.Contains(frag.Identifier, f.NameSubstring) {
		return false
	}
	if f.BodySubstring != "" && !strings.Contains(frag.Source, f.BodySubstring) {
		return false
	}
	return true
}

// RunConfig parameterizes one pair-orchestrator pass over a fragment set.
type RunConfig struct {
	Threshold       float64
	MinJaccard      float64
	SizeRatioK      float64
	CrossFile       bool
	SizePenalty     bool
	MemberThreshold float64
	Workers         int
	Filters         Filters
	// BatchThreshold bounds memory on huge kind-buckets: once a
	// bucket holds more than this many fragments, only the BatchThreshold
	// highest-priority matches survive, via a top-K min-heap rather than
	// materializing every candidate pair's match. 0 disables the bound.
	BatchThreshold int
}

// Orchestrator runs the full compare pipeline over an extracted fragment
// set: bucket by kind (and file, unless cross-file mode), self-overlap
// check, filters, fingerprint prefilter, TSED or structural comparison,
// size penalty, threshold filter.
type Orchestrator struct {
	Kernel     *TSEDKernel
	Structural *StructuralComparator
	Cost       CostModel
	Config     RunConfig
}

// NewOrchestrator builds an Orchestrator with a fresh kernel and
// structural comparator sharing the given cost model. Kernel/Structural
// are used for single-threaded callers; compareParallel gives each worker
// its own kernel instead, since matrixPool's free-list isn't safe for
// concurrent use.
func NewOrchestrator(cost CostModel, cfg RunConfig) *Orchestrator {
	kernel := NewTSEDKernel(cost)
	return &Orchestrator{
		Kernel:     kernel,
		Structural: NewStructuralComparator(kernel, cfg.MemberThreshold),
		Cost:       cost,
		Config:     cfg,
	}
}

// Run compares every eligible pair across fragments and returns matches in
// deterministic order: grouped by fragment_a's file, sorted within a file
// by descending priority, ties broken by ascending fragment_a.line_start.
// It returns early with whatever matches were collected so far if ctx is
// cancelled.
func (o *Orchestrator) Run(ctx context.Context, fragments []*Fragment, summary *RunSummary) []Match {
	buckets := o.bucket(fragments)

	workers := o.Config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var all []Match
	for _, bucket := range buckets {
		pairs := o.candidatePairs(bucket)
		if summary != nil {
			summary.PairsConsidered += len(pairs)
		}
		matches := o.compareParallel(ctx, pairs, workers, summary)
		if o.Config.BatchThreshold > 0 && len(bucket) > o.Config.BatchThreshold {
			topK := newTopKMatches(o.Config.BatchThreshold)
			for _, m := range matches {
				topK.Add(m)
			}
			if summary != nil {
				summary.PairsTruncated += topK.Dropped()
			}
			matches = topK.Result()
		}
		all = append(all, matches...)
		if ctx.Err() != nil {
			if summary != nil {
				summary.Cancelled = true
			}
			break
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.FragmentA.Location.FilePath != b.FragmentA.Location.FilePath {
			return a.FragmentA.Location.FilePath < b.FragmentA.Location.FilePath
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.FragmentA.Location.StartLine < b.FragmentA.Location.StartLine
	})
	if summary != nil {
		summary.PairsReported = len(all)
	}
	return all
}

// bucket groups fragments by kind and language, and by file within kind
// unless cross-file mode is enabled. Fragments from
// different languages are never compared: their canonical node
// vocabularies come from different grammars, so a shared TSED distance
// wouldn't be meaningful.
func (o *Orchestrator) bucket(fragments []*Fragment) [][]*Fragment {
	type key struct {
		kind     Kind
		language string
		file     string
	}
	groups := make(map[key][]*Fragment)
	var order []key
	for _, f := range fragments {
		if !o.Config.Filters.admits(f) {
			continue
		}
		k := key{kind: f.Kind, language: f.Language}
		if !o.Config.CrossFile {
			k.file = f.Location.FilePath
		}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], f)
	}
	out := make([][]*Fragment, 0, len(order))
	for _, k := range order {
		bucket := groups[k]
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Location.Less(bucket[j].Location) })
		out = append(out, bucket)
	}
	return out
}

type candidatePair struct {
	a, b *Fragment
}

// candidatePairs enumerates unordered pairs within a bucket, applying the
// self-overlap rule: identical/overlapping fragments in the same file are
// never a pair.
func (o *Orchestrator) candidatePairs(bucket []*Fragment) []candidatePair {
	var out []candidatePair
	for i := 0; i < len(bucket); i++ {
		for j := i + 1; j < len(bucket); j++ {
			a, b := bucket[i], bucket[j]
			if a.Location.Overlaps(b.Location) {
				continue
			}
			out = append(out, candidatePair{a: a, b: b})
		}
	}
	return out
}

// compareParallel fans candidate pairs out across a worker pool, checking
// ctx between pairs so a cancellation stops new work promptly without
// corrupting whatever was already collected.
func (o *Orchestrator) compareParallel(ctx context.Context, pairs []candidatePair, workers int, summary *RunSummary) []Match {
	if len(pairs) == 0 {
		return nil
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}
	if workers < 1 {
		workers = 1
	}

	chunks := make([][]Match, workers)
	var mu sync.Mutex
	var wg sync.WaitGroup
	perWorker := (len(pairs) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := start + perWorker
		if start >= len(pairs) {
			break
		}
		if end > len(pairs) {
			end = len(pairs)
		}
		wg.Add(1)
		go func(idx int, slice []candidatePair) {
			defer wg.Done()
			kernel := NewTSEDKernel(o.Cost)
			structural := NewStructuralComparator(kernel, o.Config.MemberThreshold)
			var local []Match
			var localSummary RunSummary
			for _, p := range slice {
				if ctx.Err() != nil {
					return
				}
				if m, ok := o.compare(kernel, structural, p.a, p.b, &localSummary); ok {
					local = append(local, m)
				}
			}
			mu.Lock()
			chunks[idx] = local
			if summary != nil {
				summary.PairsRejectedBySizeGate += localSummary.PairsRejectedBySizeGate
				summary.PairsRejectedByJaccard += localSummary.PairsRejectedByJaccard
				summary.PairsBelowThreshold += localSummary.PairsBelowThreshold
			}
			mu.Unlock()
		}(w, pairs[start:end])
	}
	wg.Wait()

	var all []Match
	for _, c := range chunks {
		all = append(all, c...)
	}
	return all
}

// compare runs one pair through the prefilter, comparator, and scoring
// stages. kernel/structural are the caller's own instances so concurrent
// callers never share a matrixPool.
func (o *Orchestrator) compare(kernel *TSEDKernel, structural *StructuralComparator, a, b *Fragment, summary *RunSummary) (Match, bool) {
	cfg := PrefilterConfig{Threshold: o.Config.Threshold, MinJaccard: o.Config.MinJaccard, SizeRatioK: o.Config.SizeRatioK}
	if !sizeRatioPasses(a.SourceSize, b.SourceSize, cfg.Threshold, cfg.SizeRatioK) {
		summary.PairsRejectedBySizeGate++
		return Match{}, false
	}
	if !jaccardPasses(a.Fingerprint, b.Fingerprint, cfg.MinJaccard) {
		summary.PairsRejectedByJaccard++
		return Match{}, false
	}

	if kernel.Overflowed(a.CanonicalTree, b.CanonicalTree) {
		return Match{}, false
	}

	var raw float64
	if a.CanonicalTree.Unordered && b.CanonicalTree.Unordered {
		raw = structural.Similarity(a.CanonicalTree, b.CanonicalTree)
	} else {
		raw = kernel.Similarity(a.CanonicalTree, b.CanonicalTree)
	}

	adjusted := raw
	if o.Config.SizePenalty {
		adjusted = AdjustedSimilarity(raw, a.SourceSize, b.SourceSize)
	}

	if adjusted < o.Config.Threshold {
		summary.PairsBelowThreshold++
		return Match{}, false
	}

	return Match{
		FragmentA:          a,
		FragmentB:          b,
		RawSimilarity:      raw,
		AdjustedSimilarity: adjusted,
		Priority:           Priority(adjusted, a.Location.LineCount()),
	}, true
}

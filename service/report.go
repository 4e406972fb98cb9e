package service

import (
	"fmt"
	"time"

	"github.com/kelvinlabs/dupescan/domain"
	"github.com/kelvinlabs/dupescan/internal/similarity"
)

// Clone-type banding thresholds, labeling the adjusted similarity score with
// the informal Type-1..Type-4 clone vocabulary as a purely informational
// label on top of the reported score rather than a separate detection pass.
const (
	type1Threshold = 0.98
	type2Threshold = 0.90
	type3Threshold = 0.75
)

func classifyCloneType(similarity float64) string {
	switch {
	case similarity >= type1Threshold:
		return "Type-1"
	case similarity >= type2Threshold:
		return "Type-2"
	case similarity >= type3Threshold:
		return "Type-3"
	default:
		return "Type-4"
	}
}

func toFragmentKind(k similarity.Kind) domain.FragmentKind {
	switch k {
	case similarity.KindFunction:
		return domain.FragmentKindFunction
	case similarity.KindType:
		return domain.FragmentKindType
	case similarity.KindRuleBlock:
		return domain.FragmentKindRuleBlock
	default:
		return domain.FragmentKindFunction
	}
}

func toFragmentReport(f *similarity.Fragment) domain.FragmentReport {
	return domain.FragmentReport{
		Identifier: f.Identifier,
		Kind:       toFragmentKind(f.Kind),
		Language:   f.Language,
		Location: domain.FragmentLocation{
			FilePath:  f.Location.FilePath,
			StartLine: f.Location.StartLine,
			EndLine:   f.Location.EndLine,
		},
		Size:       f.SourceSize,
		IsTestLike: f.IsTestLike,
		Source:     f.Source,
	}
}

func toMatchReports(matches []similarity.Match, print bool) []domain.MatchReport {
	out := make([]domain.MatchReport, 0, len(matches))
	for _, m := range matches {
		out = append(out, domain.MatchReport{
			FragmentA:          toFragmentReport(m.FragmentA),
			FragmentB:          toFragmentReport(m.FragmentB),
			RawSimilarity:      m.RawSimilarity,
			AdjustedSimilarity: m.AdjustedSimilarity,
			Priority:           m.Priority,
			CloneType:          classifyCloneType(m.AdjustedSimilarity),
		})
	}
	return out
}

// fragmentKey identifies a fragment for grouping purposes; FragmentReport
// is a value type once it leaves the engine, so identity is location-based
// rather than pointer-based.
func fragmentKey(f domain.FragmentReport) string {
	return fmt.Sprintf("%s:%s:%d:%d", f.Location.FilePath, f.Identifier, f.Location.StartLine, f.Location.EndLine)
}

// groupMatches unions every match that transitively shares a fragment into
// one CloneGroup: iterate pairs once, growing or merging groups keyed by
// fragment identity.
func groupMatches(matches []domain.MatchReport) []domain.CloneGroup {
	fragmentToGroup := make(map[string]int)
	var groups []domain.CloneGroup

	for _, m := range matches {
		keyA, keyB := fragmentKey(m.FragmentA), fragmentKey(m.FragmentB)
		idxA, okA := fragmentToGroup[keyA]
		idxB, okB := fragmentToGroup[keyB]

		switch {
		case !okA && !okB:
			g := domain.CloneGroup{ID: len(groups), CloneType: m.CloneType}
			g.Fragments = append(g.Fragments, m.FragmentA, m.FragmentB)
			idx := len(groups)
			groups = append(groups, g)
			fragmentToGroup[keyA] = idx
			fragmentToGroup[keyB] = idx
		case okA && !okB:
			groups[idxA].Fragments = append(groups[idxA].Fragments, m.FragmentB)
			fragmentToGroup[keyB] = idxA
		case !okA && okB:
			groups[idxB].Fragments = append(groups[idxB].Fragments, m.FragmentA)
			fragmentToGroup[keyA] = idxB
		case idxA != idxB:
			groups[idxA].Fragments = append(groups[idxA].Fragments, groups[idxB].Fragments...)
			for k, idx := range fragmentToGroup {
				if idx == idxB {
					fragmentToGroup[k] = idxA
				}
			}
			groups[idxB].Fragments = nil
		}
	}

	out := make([]domain.CloneGroup, 0, len(groups))
	for _, g := range groups {
		if len(g.Fragments) == 0 {
			continue
		}
		members := make(map[string]bool, len(g.Fragments))
		for _, f := range g.Fragments {
			members[fragmentKey(f)] = true
		}
		var total float64
		count := 0
		for _, m := range matches {
			if members[fragmentKey(m.FragmentA)] && members[fragmentKey(m.FragmentB)] {
				total += m.AdjustedSimilarity
				count++
			}
		}
		if count > 0 {
			g.AverageSimilarity = total / float64(count)
		}
		g.ID = len(out)
		out = append(out, g)
	}
	return out
}

func toStatistics(summary *similarity.RunSummary, matches []similarity.Match, duration time.Duration) *domain.ScanStatistics {
	byKind := make(map[string]int)
	var totalSimilarity float64
	for _, m := range matches {
		byKind[string(toFragmentKind(m.FragmentA.Kind))]++
		totalSimilarity += m.AdjustedSimilarity
	}
	avg := 0.0
	if len(matches) > 0 {
		avg = totalSimilarity / float64(len(matches))
	}
	return &domain.ScanStatistics{
		FilesScanned:       summary.FilesParsed,
		FragmentsExtracted: summary.FragmentsExtracted,
		PairsConsidered:    summary.PairsConsidered,
		PairsReported:      summary.PairsReported,
		PairsTruncated:     summary.PairsTruncated,
		MatchesByKind:      byKind,
		AverageSimilarity:  avg,
		DurationMillis:     duration.Milliseconds(),
	}
}

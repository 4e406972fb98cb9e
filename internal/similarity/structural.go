package similarity

import "sort"

// DefaultMemberThreshold is the suggested member-acceptance threshold
// below which a candidate match is treated as no match at all.
const DefaultMemberThreshold = 0.5

// StructuralComparator compares two Unordered fragments (types, CSS rule
// blocks) as a weighted-Jaccard multiset over their top-level members
// rather than running the ordered TSED kernel over the whole subtree:
// member order carries no meaning for a struct's fields or a rule block's
// declarations, and treating it as ordered would penalize a harmless
// field reordering as if it were a structural difference.
type StructuralComparator struct {
	Kernel          *TSEDKernel
	MemberThreshold float64
}

// NewStructuralComparator builds a comparator that scores member-to-member
// similarity with the given kernel and member-acceptance threshold.
func NewStructuralComparator(kernel *TSEDKernel, memberThreshold float64) *StructuralComparator {
	if memberThreshold <= 0 {
		memberThreshold = DefaultMemberThreshold
	}
	return &StructuralComparator{Kernel: kernel, MemberThreshold: memberThreshold}
}

// Similarity computes sim = Σ weight(mi)*match(mi) / Σ weight(mi ∪ mj):
// each member is greedily matched to its best partner in the other
// fragment; a candidate pair below MemberThreshold is discarded and both
// members fall back to counting only against the denominator. weight
// defaults to a member's canonical node count. Attribute members folded
// in by the extractor participate the same as any other member, since
// they already carry a small node count of their own.
func (c *StructuralComparator) Similarity(a, b *Node) float64 {
	membersA := a.Children
	membersB := b.Children
	if len(membersA) == 0 && len(membersB) == 0 {
		return 1.0
	}
	if len(membersA) == 0 || len(membersB) == 0 {
		return 0.0
	}

	type pair struct {
		i, j int
		sim  float64
	}
	pairs := make([]pair, 0, len(membersA)*len(membersB))
	for i, ma := range membersA {
		for j, mb := range membersB {
			pairs = append(pairs, pair{i, j, c.Kernel.Similarity(ma, mb)})
		}
	}
	sort.Slice(pairs, func(x, y int) bool { return pairs[x].sim > pairs[y].sim })

	matchedA := make([]bool, len(membersA))
	matchedB := make([]bool, len(membersB))

	var numerator, denominator float64
	for _, p := range pairs {
		if matchedA[p.i] || matchedB[p.j] {
			continue
		}
		if p.sim < c.MemberThreshold {
			continue
		}
		matchedA[p.i] = true
		matchedB[p.j] = true
		w := (weight(membersA[p.i]) + weight(membersB[p.j])) / 2.0
		numerator += w * p.sim
		denominator += w
	}
	for i, m := range membersA {
		if !matchedA[i] {
			denominator += weight(m)
		}
	}
	for j, m := range membersB {
		if !matchedB[j] {
			denominator += weight(m)
		}
	}

	if denominator == 0 {
		return 1.0
	}
	return numerator / denominator
}

func weight(n *Node) float64 {
	w := float64(n.Size())
	if w == 0 {
		return 1
	}
	return w
}

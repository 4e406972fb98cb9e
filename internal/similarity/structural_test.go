package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fieldNode(name, typeLabel string) *Node {
	n := NewNode("Field")
	n.AddChild(&Node{Label: "Identifier", Value: name})
	n.AddChild(NewNode(typeLabel))
	return n
}

func TestStructuralComparator_IdenticalMembersScoreOne(t *testing.T) {
	a := NewNode("TypeDecl")
	a.Unordered = true
	a.AddChild(fieldNode("x", "Int"))
	a.AddChild(fieldNode("y", "String"))

	b := NewNode("TypeDecl")
	b.Unordered = true
	b.AddChild(fieldNode("x", "Int"))
	b.AddChild(fieldNode("y", "String"))

	comparator := NewStructuralComparator(NewTSEDKernel(NewDefaultCostModel()), 0)
	assert.Equal(t, 1.0, comparator.Similarity(a, b))
}

func TestStructuralComparator_ReorderedMembersStillMatch(t *testing.T) {
	a := NewNode("TypeDecl")
	a.AddChild(fieldNode("x", "Int"))
	a.AddChild(fieldNode("y", "String"))

	b := NewNode("TypeDecl")
	b.AddChild(fieldNode("y", "String"))
	b.AddChild(fieldNode("x", "Int"))

	comparator := NewStructuralComparator(NewTSEDKernel(NewDefaultCostModel()), 0)
	assert.Equal(t, 1.0, comparator.Similarity(a, b), "member order must not affect the structural score")
}

func TestStructuralComparator_EmptyMembersBothSides(t *testing.T) {
	a := NewNode("TypeDecl")
	b := NewNode("TypeDecl")
	comparator := NewStructuralComparator(NewTSEDKernel(NewDefaultCostModel()), 0)
	assert.Equal(t, 1.0, comparator.Similarity(a, b))
}

func TestStructuralComparator_OneSideEmpty(t *testing.T) {
	a := NewNode("TypeDecl")
	a.AddChild(fieldNode("x", "Int"))
	b := NewNode("TypeDecl")

	comparator := NewStructuralComparator(NewTSEDKernel(NewDefaultCostModel()), 0)
	assert.Equal(t, 0.0, comparator.Similarity(a, b))
}

func TestStructuralComparator_PartialOverlapIsBetweenZeroAndOne(t *testing.T) {
	a := NewNode("TypeDecl")
	a.AddChild(fieldNode("x", "Int"))
	a.AddChild(fieldNode("y", "String"))

	b := NewNode("TypeDecl")
	b.AddChild(fieldNode("x", "Int"))
	b.AddChild(fieldNode("z", "Bool"))

	comparator := NewStructuralComparator(NewTSEDKernel(NewDefaultCostModel()), 0)
	sim := comparator.Similarity(a, b)
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}

func TestStructuralComparator_BelowMemberThresholdCountsAsUnmatched(t *testing.T) {
	a := NewNode("TypeDecl")
	a.AddChild(fieldNode("x", "Int"))

	b := NewNode("TypeDecl")
	b.AddChild(fieldNode("totallyDifferentNameAndShape", "SomeVeryDifferentLongType"))

	// A member threshold of 1.0 rejects any imperfect match, so both
	// members fall back to denominator-only counting.
	comparator := NewStructuralComparator(NewTSEDKernel(NewDefaultCostModel()), 1.0)
	sim := comparator.Similarity(a, b)
	assert.Equal(t, 0.0, sim)
}

func TestNewStructuralComparator_DefaultsThreshold(t *testing.T) {
	c := NewStructuralComparator(NewTSEDKernel(NewDefaultCostModel()), 0)
	assert.Equal(t, DefaultMemberThreshold, c.MemberThreshold)
}

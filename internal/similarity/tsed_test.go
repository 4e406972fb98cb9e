package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTSEDKernel_Distance_EmptyTrees(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Node
		expected float64
	}{
		{name: "both nil", a: nil, b: nil, expected: 0.0},
		{name: "a nil", a: nil, b: NewNode("A"), expected: 1.0},
		{name: "b nil", a: NewNode("A"), b: nil, expected: 1.0},
	}

	kernel := NewTSEDKernel(NewDefaultCostModel())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, kernel.Distance(tt.a, tt.b))
		})
	}
}

func TestTSEDKernel_Distance_IdenticalTrees(t *testing.T) {
	build := func() *Node {
		root := NewNode("FunctionDecl")
		root.AddChild(&Node{Label: "Identifier", Value: "foo"})
		block := NewNode("Block")
		block.AddChild(NewNode("Return"))
		root.AddChild(block)
		return root
	}

	kernel := NewTSEDKernel(NewDefaultCostModel())
	a, b := build(), build()

	assert.Equal(t, 0.0, kernel.Distance(a, b))
	assert.Equal(t, 1.0, kernel.Similarity(a, b))
}

func TestTSEDKernel_Similarity_Symmetric(t *testing.T) {
	a := NewNode("FunctionDecl")
	a.AddChild(&Node{Label: "Identifier", Value: "foo"})
	a.AddChild(NewNode("Return"))

	b := NewNode("FunctionDecl")
	b.AddChild(&Node{Label: "Identifier", Value: "bar"})
	b.AddChild(NewNode("Return"))
	b.AddChild(NewNode("Return"))

	kernel := NewTSEDKernel(NewDefaultCostModel())
	simAB := kernel.Similarity(a, b)
	simBA := kernel.Similarity(b, a)

	assert.InDelta(t, simAB, simBA, 1e-9, "TSED similarity must be symmetric")
	assert.GreaterOrEqual(t, simAB, 0.0)
	assert.LessOrEqual(t, simAB, 1.0)
}

func TestTSEDKernel_Similarity_RenameToleratesIdentifierChange(t *testing.T) {
	build := func(name string) *Node {
		root := NewNode("FunctionDecl")
		root.AddChild(&Node{Label: "Identifier", Value: name})
		return root
	}

	kernel := NewTSEDKernel(NewDefaultCostModel())
	sim := kernel.Similarity(build("alpha"), build("beta"))

	// Only the identifier value differs; a rename cost of 0.3 on a 2-node
	// tree should keep similarity comfortably above zero and below one.
	assert.Greater(t, sim, 0.5)
	assert.Less(t, sim, 1.0)
}

func TestTSEDKernel_Distance_SimpleInsertDelete(t *testing.T) {
	kernel := NewTSEDKernel(NewDefaultCostModel())

	a := NewNode("A")
	b := NewNode("A")
	b.AddChild(NewNode("B"))

	assert.Equal(t, 1.0, kernel.Distance(a, b), "inserting one child costs 1.0")
	assert.Equal(t, 1.0, kernel.Distance(b, a), "deleting one child costs 1.0")
}

func TestTSEDKernel_Overflowed(t *testing.T) {
	kernel := NewTSEDKernel(NewDefaultCostModel())
	small := NewNode("A")
	assert.False(t, kernel.Overflowed(small, small))
}

package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustedSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		sizeA    int
		sizeB    int
		expected float64
	}{
		{name: "equal sizes no penalty", raw: 0.9, sizeA: 10, sizeB: 10, expected: 0.9},
		{name: "half size halves the score", raw: 1.0, sizeA: 5, sizeB: 10, expected: 0.5},
		{name: "order of sizes does not matter", raw: 1.0, sizeA: 10, sizeB: 5, expected: 0.5},
		{name: "zero size yields zero", raw: 1.0, sizeA: 0, sizeB: 10, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, AdjustedSimilarity(tt.raw, tt.sizeA, tt.sizeB), 1e-9)
		})
	}
}

func TestAdjustedSimilarity_MonotonicInSizeRatio(t *testing.T) {
	closer := AdjustedSimilarity(1.0, 8, 10)
	farther := AdjustedSimilarity(1.0, 2, 10)
	assert.Greater(t, closer, farther, "a closer size ratio must not score lower")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 20.0, Priority(0.5, 40))
	assert.Equal(t, 0.0, Priority(0.0, 40))
}

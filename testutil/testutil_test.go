package testutil

import (
	"testing"

	"github.com/hupe1980/pivotring/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Determinism(t *testing.T) {
	a := NewRNG(42).UniformPoints(10, 3)
	b := NewRNG(42).UniformPoints(10, 3)
	assert.Equal(t, a, b)

	r := NewRNG(7)
	first := r.Float64()
	r.Reset()
	assert.Equal(t, first, r.Float64())
	assert.Equal(t, int64(7), r.Seed())
}

func TestUniformPoints(t *testing.T) {
	points := NewRNG(1).UniformPoints(100, 2)
	require.Len(t, points, 100)
	for _, p := range points {
		require.Len(t, p, 2)
		for _, v := range p {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}

	// points must not share spare capacity
	p0 := append(points[0], 9)
	assert.Equal(t, 3, len(p0))
	assert.NotEqual(t, 9.0, points[1][0])
}

func TestClusteredPoints(t *testing.T) {
	points := NewRNG(1).ClusteredPoints(50, 4, 3, 0.01)
	require.Len(t, points, 50)
	for _, p := range points {
		assert.Len(t, p, 4)
	}
}

func TestWords(t *testing.T) {
	words := NewRNG(3).Words(20, 2, 5, "ab")
	require.Len(t, words, 20)
	for _, w := range words {
		assert.GreaterOrEqual(t, len(w), 2)
		assert.LessOrEqual(t, len(w), 5)
		for _, c := range w {
			assert.Contains(t, "ab", string(c))
		}
	}
}

func TestShuffle(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	out := Shuffle(NewRNG(5), items)
	assert.ElementsMatch(t, items, out)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, items)
}

func TestBruteForceRange(t *testing.T) {
	items := [][]float64{{0, 0}, {1, 0}, {0, 0.5}, {3, 3}}
	hits, err := BruteForceRange(items, []float64{0, 0}, 1, distance.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, hits) // distance 1 is not strictly closer

	_, err = BruteForceRange([][]float64{{1}}, []float64{0, 0}, 1, distance.Euclidean)
	assert.Error(t, err)
}

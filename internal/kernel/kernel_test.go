package kernel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Positive values (size 3)", []float64{1, 2, 3}, []float64{4, 5, 6}, 32},
		{"Negative values (size 3)", []float64{-1, -2, -3}, []float64{-4, -5, -6}, 32},
		{"More than 4 (size 6)", []float64{1, 2, 3, 1, 2, 3}, []float64{4, 5, 6, 4, 5, 6}, 64},
		{"Mixed values (size 3)", []float64{1, -2, 3}, []float64{-4, 5, -6}, -32},
		{"Zero values (size 3)", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Positive values (size 9)", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, 285},
		{"Empty", []float64{}, []float64{}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Dot(tc.a, tc.b))
		})
	}
}

func TestUnrolledMatchesGeneric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{1, 3, 4, 5, 17, 100, 1023} {
		a := randomFloats(rng, n)
		b := randomFloats(rng, n)
		assert.InDelta(t, dotGeneric(a, b), dotUnrolled(a, b), 1e-9, "dot n=%d", n)
		assert.InDelta(t, sumGeneric(a), sumUnrolled(a), 1e-9, "sum n=%d", n)
		assert.InDelta(t, sumSquaresGeneric(a), sumSquaresUnrolled(a), 1e-9, "sumsq n=%d", n)
	}
}

func TestDotBatch(t *testing.T) {
	query := []float64{1, 2}
	targets := []float64{1, 0, 0, 1, 2, 2}
	out := make([]float64, 3)
	DotBatch(query, targets, 2, out)
	assert.Equal(t, []float64{1, 2, 6}, out)

	t.Run("InvalidDim", func(t *testing.T) {
		out := []float64{-1}
		DotBatch(query, targets, 0, out)
		assert.Equal(t, []float64{-1}, out)
	})
}

func TestInPlace(t *testing.T) {
	a := []float64{1, 2, 3}
	Scale(a, 2)
	assert.Equal(t, []float64{2, 4, 6}, a)

	AddScalar(a, -4)
	assert.Equal(t, []float64{-2, 0, 2}, a)

	assert.InDelta(t, math.Sqrt(8), Norm(a), 1e-12)
}

func TestRound32(t *testing.T) {
	a := []float64{0.1, 1.0 / 3.0}
	Round32(a)
	assert.Equal(t, float64(float32(0.1)), a[0])
	assert.Equal(t, float64(float32(1.0/3.0)), a[1])
}

func randomFloats(rng *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.Float64()*2 - 1
	}
	return v
}

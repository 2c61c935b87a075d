package queue

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indices(items []Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Index
	}
	return out
}

func TestBoundedHigher(t *testing.T) {
	q := NewBounded(3, true)
	for i, s := range []float64{0.1, 0.9, 0.5, 0.7, 0.2, 0.95} {
		q.Push(i, s)
	}
	assert.Equal(t, 3, q.Len())

	worst, ok := q.Worst()
	require.True(t, ok)
	assert.Equal(t, 3, worst.Index)

	got := q.Drain(nil)
	assert.Equal(t, []int{5, 1, 3}, indices(got))
	assert.Equal(t, 0.95, got[0].Score)
	assert.Zero(t, q.Len())
}

func TestBoundedLower(t *testing.T) {
	q := NewBounded(2, false)
	for i, s := range []float64{3, 1, 2, 0.5} {
		q.Push(i, s)
	}
	assert.Equal(t, []int{3, 1}, indices(q.Drain(nil)))
}

func TestBoundedTiesAndNaN(t *testing.T) {
	q := NewBounded(3, true)
	q.Push(0, math.NaN())
	q.Push(4, 1)
	q.Push(2, 1)
	q.Push(3, math.NaN())
	q.Push(1, 0.5)
	assert.Equal(t, []int{2, 4, 1}, indices(q.Drain(nil)))

	q.Reset()
	q.Push(1, math.NaN())
	q.Push(0, math.NaN())
	assert.Equal(t, []int{0, 1}, indices(q.Drain(nil)))
}

func TestBoundedZero(t *testing.T) {
	q := NewBounded(0, true)
	assert.False(t, q.Push(0, 1))
	_, ok := q.Worst()
	assert.False(t, ok)
	assert.Empty(t, q.Drain(nil))
}

func TestBoundedDrainAppends(t *testing.T) {
	q := NewBounded(2, true)
	q.Push(7, 1)
	q.Push(8, 2)
	got := q.Drain([]Item{{Index: -1}})
	assert.Equal(t, []int{-1, 8, 7}, indices(got))
}

func TestBoundedMatchesSort(t *testing.T) {
	scores := make([]float64, 200)
	state := uint64(42)
	for i := range scores {
		state = state*6364136223846793005 + 1442695040888963407
		scores[i] = float64(state>>40) / float64(1<<24)
	}

	for _, higher := range []bool{true, false} {
		q := NewBounded(10, higher)
		for i, s := range scores {
			q.Push(i, s)
		}

		want := make([]int, len(scores))
		for i := range want {
			want[i] = i
		}
		sort.SliceStable(want, func(a, b int) bool {
			if higher {
				return scores[want[a]] > scores[want[b]]
			}
			return scores[want[a]] < scores[want[b]]
		})
		assert.Equal(t, want[:10], indices(q.Drain(nil)))
	}
}

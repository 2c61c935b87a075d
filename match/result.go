package match

import (
	"fmt"
	"math"

	"github.com/hupe1980/kikgo/internal/queue"
	"github.com/hupe1980/kikgo/ndarray"
)

// Result holds the best dictionary matches of every navigation point.
//
// Row i occupies Indices[i*N:(i+1)*N] and Scores[i*N:(i+1)*N], best first.
// Rows are in row-major order of NavShape.
type Result struct {
	// NavShape is the navigation shape of the experimental patterns. It is
	// empty for a single pattern.
	NavShape ndarray.Shape
	// N is the number of matches kept per navigation point.
	N int
	// Indices are dictionary indices, -1 where no match was computed.
	Indices []int
	// Scores are the similarity scores, NaN where no match was computed.
	Scores []float32
}

func newResult(navShape ndarray.Shape, n int) *Result {
	size := navShape.Size() * n
	r := &Result{
		NavShape: navShape.Clone(),
		N:        n,
		Indices:  make([]int, size),
		Scores:   make([]float32, size),
	}
	nan := float32(math.NaN())
	for i := range r.Indices {
		r.Indices[i] = -1
		r.Scores[i] = nan
	}
	return r
}

// Len returns the number of navigation points.
func (r *Result) Len() int {
	if r.N == 0 {
		return r.NavShape.Size()
	}
	return len(r.Indices) / r.N
}

// Row returns the matches of navigation point i, best first.
func (r *Result) Row(i int) ([]int, []float32) {
	lo, hi := i*r.N, (i+1)*r.N
	return r.Indices[lo:hi], r.Scores[lo:hi]
}

// Best returns the top match of navigation point i.
func (r *Result) Best(i int) (int, float32) {
	return r.Indices[i*r.N], r.Scores[i*r.N]
}

// BestIndices returns the top match of every navigation point.
func (r *Result) BestIndices() []int {
	out := make([]int, r.Len())
	for i := range out {
		out[i], _ = r.Best(i)
	}
	return out
}

func (r *Result) String() string {
	return fmt.Sprintf("Result nav=%v n=%d", r.NavShape, r.N)
}

func (r *Result) setRow(i int, items []queue.Item) {
	idx, scores := r.Row(i)
	for j, it := range items {
		idx[j] = it.Index
		scores[j] = float32(it.Score)
	}
}

// merge folds the matches of other, whose indices start at offset, into r.
func (r *Result) merge(other *Result, offset int, higherIsBetter bool) {
	q := queue.NewBounded(r.N, higherIsBetter)
	var items []queue.Item
	for i := range r.Len() {
		q.Reset()
		for _, src := range []struct {
			res *Result
			off int
		}{{r, 0}, {other, offset}} {
			idx, scores := src.res.Row(i)
			for j, k := range idx {
				if k >= 0 {
					q.Push(k+src.off, float64(scores[j]))
				}
			}
		}
		items = q.Drain(items[:0])
		r.setRow(i, items)
	}
}

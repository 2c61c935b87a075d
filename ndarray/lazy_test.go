package ndarray

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kikgo/resource"
)

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func mustDense(t *testing.T, data []float64, dims ...int) *Dense {
	t.Helper()
	d, err := FromFloat64(data, dims...)
	require.NoError(t, err)
	return d
}

func TestFromDense(t *testing.T) {
	d := mustDense(t, seq(60), 10, 2, 3)

	l := FromDense(d, 3)
	assert.True(t, l.Lazy())
	assert.Equal(t, Shape{10, 2, 3}, l.Shape())
	assert.Equal(t, []int{18, 18, 18, 6}, l.ChunkLens())

	m, err := l.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, d.Data(), m.Data())
	assert.Equal(t, d.Shape(), m.Shape())

	single := FromDense(d, 0)
	assert.Equal(t, 1, single.NumChunks())
}

func TestNewLazy(t *testing.T) {
	load := func(v float64, n int) ChunkFunc {
		return func(context.Context) ([]float64, error) {
			out := make([]float64, n)
			for i := range out {
				out[i] = v
			}
			return out, nil
		}
	}

	l, err := NewLazy(Float64, Shape{2, 3}, []Chunk{{Len: 3, Load: load(1, 3)}, {Len: 0, Load: load(0, 0)}, {Len: 3, Load: load(2, 3)}})
	require.NoError(t, err)
	assert.Equal(t, 2, l.NumChunks())

	m, err := l.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, m.Data())

	_, err = NewLazy(Float64, Shape{2, 3}, []Chunk{{Len: 4, Load: load(1, 4)}})
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = NewLazy(Float64, Shape{1}, []Chunk{{Len: 1}})
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestLazyChunkError(t *testing.T) {
	boom := errors.New("boom")
	l, err := NewLazy(Float64, Shape{2}, []Chunk{
		{Len: 1, Load: func(context.Context) ([]float64, error) { return []float64{1}, nil }},
		{Len: 1, Load: func(context.Context) ([]float64, error) { return nil, boom }},
	})
	require.NoError(t, err)

	_, err = l.Materialize(context.Background())
	assert.ErrorIs(t, err, boom)

	short, err := NewLazy(Float64, Shape{2}, []Chunk{
		{Len: 2, Load: func(context.Context) ([]float64, error) { return []float64{1}, nil }},
	})
	require.NoError(t, err)
	_, err = short.Materialize(context.Background())
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestLazyRechunk(t *testing.T) {
	d := mustDense(t, seq(60), 10, 2, 3)
	l := FromDense(d, 3)

	t.Run("KeepsAlignedPartition", func(t *testing.T) {
		r := l.Rechunk(6, 12).(*Lazy)
		assert.Equal(t, []int{18, 18, 18, 6}, r.ChunkLens())
	})

	t.Run("SplitsOversizedChunks", func(t *testing.T) {
		r := l.Rechunk(6, 6).(*Lazy)
		assert.Equal(t, 10, r.NumChunks())
		m, err := r.Materialize(context.Background())
		require.NoError(t, err)
		assert.Equal(t, d.Data(), m.Data())
	})

	t.Run("RealignsUnits", func(t *testing.T) {
		r := l.Rechunk(4, 8).(*Lazy)
		assert.Equal(t, []int{8, 8, 8, 8, 8, 8, 8, 4}, r.ChunkLens())
		m, err := r.Materialize(context.Background())
		require.NoError(t, err)
		assert.Equal(t, d.Data(), m.Data())
	})

	t.Run("IndivisibleUnitCollapses", func(t *testing.T) {
		r := l.Rechunk(7, 8).(*Lazy)
		assert.Equal(t, []int{60}, r.ChunkLens())
	})
}

func TestLazyViews(t *testing.T) {
	d := mustDense(t, seq(24), 4, 2, 3)
	l := FromDense(d, 1)

	r, err := l.Reshape(-1, 6)
	require.NoError(t, err)
	assert.True(t, r.Lazy())
	assert.Equal(t, Shape{4, 6}, r.Shape())

	e := r.ExpandDims(1)
	assert.Equal(t, Shape{1, 4, 6}, e.Shape())
	assert.Equal(t, Shape{4, 6}, e.Squeeze().Shape())

	m, err := e.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, d.Data(), m.Data())

	_, err = l.Reshape(5, -1)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestLazyAsType(t *testing.T) {
	d := mustDense(t, []float64{0.1, 300, -2, 4.7}, 4)
	l := FromDense(d, 2)

	assert.Same(t, l, l.AsType(Float64))

	m, err := l.AsType(Uint8).Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Uint8, m.DType())
	assert.Equal(t, []float64{0, 255, 0, 4}, m.Data())
	assert.Equal(t, []float64{0.1, 300, -2, 4.7}, d.Data())
}

func TestSchedulerLimits(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100, MaxWorkers: 4})
	sched := &Scheduler{Resources: rc}

	var active, peak atomic.Int32
	chunks := make([]Chunk, 8)
	for i := range chunks {
		chunks[i] = Chunk{Len: 6, Load: func(context.Context) ([]float64, error) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			defer active.Add(-1)
			return make([]float64, 6), nil
		}}
	}

	l, err := NewLazy(Float64, Shape{8, 6}, chunks, WithScheduler(sched))
	require.NoError(t, err)

	_, err = l.Materialize(context.Background())
	require.NoError(t, err)

	// 48 bytes per chunk under a 100 byte budget.
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.LessOrEqual(t, rc.PeakMemoryUsage(), int64(100))
	assert.Equal(t, int64(0), rc.MemoryUsage())

	// Derived arrays keep the scheduler.
	assert.Same(t, sched, l.Squeeze().(*Lazy).sched)
}

func TestMaterializeCanceled(t *testing.T) {
	d := mustDense(t, seq(12), 4, 3)
	rc := resource.NewController(resource.Config{MaxWorkers: 1})
	l := FromDense(d, 1, WithScheduler(&Scheduler{Resources: rc}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Materialize(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

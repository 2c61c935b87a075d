package kikgo

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kikgo/ndarray"
	"github.com/hupe1980/kikgo/testutil"
)

func materialize(t *testing.T, a ndarray.Array) *ndarray.Dense {
	t.Helper()
	d, err := a.Materialize(context.Background())
	require.NoError(t, err)
	return d
}

func tile(t *testing.T, p *ndarray.Dense, n int) *ndarray.Dense {
	t.Helper()
	data := make([]float64, 0, n*p.Len())
	for range n {
		data = append(data, p.Data()...)
	}
	d, err := ndarray.New(p.DType(), data, append([]int{n}, p.Shape()...)...)
	require.NoError(t, err)
	return d
}

func TestZNCCSelf(t *testing.T) {
	rng := testutil.NewRNG(42)
	zncc, err := Lookup("zncc")
	require.NoError(t, err)

	t.Run("OneToOne", func(t *testing.T) {
		x := rng.Uniform(0, 255, 10, 10)
		out, err := zncc.Compare(x, x)
		require.NoError(t, err)
		v, ok := materialize(t, out).Scalar()
		require.True(t, ok)
		assert.InDelta(t, 1.0, v, 1e-5)
	})

	t.Run("ManyToOne", func(t *testing.T) {
		x := rng.Uniform(0, 255, 10, 10)
		e, err := tile(t, x, 6).Reshape(2, 3, 10, 10)
		require.NoError(t, err)

		out, err := zncc.Compare(e, x)
		require.NoError(t, err)
		assert.Equal(t, ndarray.Shape{2, 3}, out.Shape())
		for _, v := range materialize(t, out).Data() {
			assert.InDelta(t, 1.0, v, 1e-5)
		}
	})

	t.Run("AffineIntensity", func(t *testing.T) {
		x := rng.Uniform(0, 1, 10, 10)
		y := make([]float64, x.Len())
		for i, v := range x.Data() {
			y[i] = 3*v + 7
		}
		yd, err := ndarray.FromFloat64(y, 10, 10)
		require.NoError(t, err)

		out, err := zncc.Compare(x, yd)
		require.NoError(t, err)
		v, _ := materialize(t, out).Scalar()
		assert.InDelta(t, 1.0, v, 1e-5)
	})
}

func TestZNCCManyToMany(t *testing.T) {
	rng := testutil.NewRNG(42)
	dict := rng.Patterns(50, 10, 10)
	scan, truth := rng.Scan(dict, 3, 4, 5)

	zncc, err := Lookup("zncc")
	require.NoError(t, err)

	out, err := zncc.Compare(scan, dict)
	require.NoError(t, err)
	assert.False(t, out.Lazy())
	require.Equal(t, ndarray.Shape{3, 4, 50}, out.Shape())

	scores := materialize(t, out).Data()
	for _, v := range scores {
		assert.GreaterOrEqual(t, v, -1-1e-5)
		assert.LessOrEqual(t, v, 1+1e-5)
	}
	assert.Equal(t, truth, testutil.ArgBest(scores, 50, zncc.Sign()))

	t.Run("Lazy", func(t *testing.T) {
		lazy, err := zncc.Compare(ndarray.FromDense(scan, 1), ndarray.FromDense(dict, 7))
		require.NoError(t, err)
		assert.True(t, lazy.Lazy())
		assert.InDeltaSlice(t, scores, materialize(t, lazy).Data(), 1e-6)
	})
}

func TestNDP(t *testing.T) {
	rng := testutil.NewRNG(5)
	ndp, err := Lookup("ndp")
	require.NoError(t, err)

	t.Run("Scalar", func(t *testing.T) {
		out, err := ndp.Compare(rng.Patterns(1, 10, 10).Squeeze(), rng.Patterns(1, 10, 10).Squeeze())
		require.NoError(t, err)
		assert.Equal(t, 0, out.Shape().Rank())
		v, ok := materialize(t, out).Scalar()
		require.True(t, ok)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1+1e-6)
	})

	t.Run("Range", func(t *testing.T) {
		out, err := ndp.Compare(rng.Uniform(0, 1, 2, 3, 6, 6), rng.Uniform(0, 1, 8, 6, 6))
		require.NoError(t, err)
		for _, v := range materialize(t, out).Data() {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1+1e-6)
		}
	})

	t.Run("Self", func(t *testing.T) {
		x := rng.Uniform(0, 1, 4, 4)
		out, err := ndp.Compare(x, x)
		require.NoError(t, err)
		v, _ := materialize(t, out).Scalar()
		assert.InDelta(t, 1.0, v, 1e-5)
	})
}

func TestZNCCRange(t *testing.T) {
	rng := testutil.NewRNG(9)
	out, err := ZNCC(rng.Uniform(-1, 1, 2, 2, 4, 4), rng.Uniform(-1, 1, 5, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, ndarray.Float64, out.DType())
	for _, v := range materialize(t, out).Data() {
		assert.GreaterOrEqual(t, v, -1-1e-9)
		assert.LessOrEqual(t, v, 1+1e-9)
	}
}

func TestZNCCConstantPattern(t *testing.T) {
	flat, err := ndarray.New(ndarray.Float64, make([]float64, 16), 4, 4)
	require.NoError(t, err)
	rng := testutil.NewRNG(1)

	out, err := ZNCC(flat, rng.Uniform(0, 1, 4, 4))
	require.NoError(t, err)
	v, _ := materialize(t, out).Scalar()
	assert.True(t, math.IsNaN(v))
}

func TestShapeHelpers(t *testing.T) {
	rng := testutil.NewRNG(1)

	nav, err := NavigationShape(rng.Uniform(0, 1, 3, 4, 5, 6))
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{3, 4}, nav)

	nav, err = NavigationShape(rng.Uniform(0, 1, 7, 5, 6))
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{7}, nav)

	nav, err = NavigationShape(rng.Uniform(0, 1, 5, 6))
	require.NoError(t, err)
	assert.Equal(t, 0, nav.Rank())

	_, err = NavigationShape(rng.Uniform(0, 1, 1, 2, 3, 5, 6))
	assert.ErrorIs(t, err, ErrIncompatibleShape)

	assert.Equal(t, ndarray.Shape{5, 6}, SignalShape(rng.Uniform(0, 1, 3, 4, 5, 6)))
	assert.Equal(t, 7, SimulatedCount(rng.Uniform(0, 1, 7, 5, 6)))
	assert.Equal(t, 1, SimulatedCount(rng.Uniform(0, 1, 5, 6)))
}

func TestExpandToManyToMany(t *testing.T) {
	rng := testutil.NewRNG(1)
	e := rng.Uniform(0, 1, 5, 5)
	s := rng.Uniform(0, 1, 5, 5)

	pe, ps := ExpandToManyToMany(e, s, false)
	assert.Equal(t, ndarray.Shape{1, 1, 5, 5}, pe.Shape())
	assert.Equal(t, ndarray.Shape{1, 5, 5}, ps.Shape())

	fe, fs := ExpandToManyToMany(rng.Uniform(0, 1, 25), rng.Uniform(0, 1, 25), true)
	assert.Equal(t, ndarray.Shape{1, 25}, fe.Shape())
	assert.Equal(t, ndarray.Shape{1, 25}, fs.Shape())

	me, ms := ExpandToManyToMany(rng.Uniform(0, 1, 2, 3, 5, 5), rng.Uniform(0, 1, 4, 5, 5), false)
	assert.Equal(t, 4, me.Shape().Rank())
	assert.Equal(t, 3, ms.Shape().Rank())
}

func TestZeroMean(t *testing.T) {
	rng := testutil.NewRNG(21)
	e := rng.Uniform(0, 10, 2, 3, 4, 4)
	s := rng.Uniform(0, 10, 5, 4, 4)

	e1, s1, err := ZeroMean(e, s, false)
	require.NoError(t, err)
	assert.Equal(t, e.Shape(), e1.Shape())
	assert.Equal(t, s.Shape(), s1.Shape())

	for p, data := 0, materialize(t, e1).Data(); p < 6; p++ {
		var sum float64
		for _, v := range data[p*16 : (p+1)*16] {
			sum += v
		}
		assert.InDelta(t, 0, sum, 1e-9)
	}

	t.Run("Idempotent", func(t *testing.T) {
		e2, s2, err := ZeroMean(e1, s1, false)
		require.NoError(t, err)
		assert.InDeltaSlice(t, materialize(t, e1).Data(), materialize(t, e2).Data(), 1e-9)
		assert.InDeltaSlice(t, materialize(t, s1).Data(), materialize(t, s2).Data(), 1e-9)
	})

	t.Run("SqueezesLowerScopes", func(t *testing.T) {
		pe, ps, err := ZeroMean(rng.Uniform(0, 1, 4, 4), rng.Uniform(0, 1, 4, 4), false)
		require.NoError(t, err)
		assert.Equal(t, ndarray.Shape{4, 4}, pe.Shape())
		assert.Equal(t, ndarray.Shape{4, 4}, ps.Shape())
	})

	t.Run("KeepsPromotedWithSingleton", func(t *testing.T) {
		pe, ps, err := ZeroMean(rng.Uniform(0, 1, 4, 4), rng.Uniform(0, 1, 1, 4, 4), false)
		require.NoError(t, err)
		assert.Equal(t, ndarray.Shape{1, 1, 4, 4}, pe.Shape())
		assert.Equal(t, ndarray.Shape{1, 4, 4}, ps.Shape())
	})

	t.Run("Flattened", func(t *testing.T) {
		fe, err := e.Reshape(6, 16)
		require.NoError(t, err)
		fs, err := s.Reshape(5, 16)
		require.NoError(t, err)

		ze, zs, err := ZeroMean(fe, fs, true)
		require.NoError(t, err)
		assert.Equal(t, ndarray.Shape{6, 16}, ze.Shape())
		assert.InDeltaSlice(t, materialize(t, e1).Data(), materialize(t, ze).Data(), 1e-12)
		assert.InDeltaSlice(t, materialize(t, s1).Data(), materialize(t, zs).Data(), 1e-12)
	})
}

func TestNormalize(t *testing.T) {
	rng := testutil.NewRNG(23)
	e := rng.Uniform(0, 10, 3, 4, 4)
	e4, err := e.Reshape(1, 3, 4, 4)
	require.NoError(t, err)
	s := rng.Uniform(0, 10, 2, 4, 4)

	ne, ns, err := Normalize(e4, s, false)
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{1, 3, 4, 4}, ne.Shape())

	for _, d := range []*ndarray.Dense{materialize(t, ne), materialize(t, ns)} {
		data := d.Data()
		for p := 0; p < len(data)/16; p++ {
			var sq float64
			for _, v := range data[p*16 : (p+1)*16] {
				sq += v * v
			}
			assert.InDelta(t, 1.0, sq, 1e-9)
		}
	}
}

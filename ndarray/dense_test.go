package ndarray

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDType(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "float32", Float32.String())
		assert.Equal(t, "float64", Float64.String())
		assert.Equal(t, "uint8", Uint8.String())
		assert.Equal(t, "uint16", Uint16.String())
		assert.Equal(t, "DType(99)", DType(99).String())
	})

	t.Run("Parse", func(t *testing.T) {
		for _, dt := range []DType{Float32, Float64, Uint8, Uint16} {
			got, err := ParseDType(dt.String())
			require.NoError(t, err)
			assert.Equal(t, dt, got)
		}
		_, err := ParseDType("complex64")
		assert.Error(t, err)
	})

	t.Run("Cast", func(t *testing.T) {
		assert.Equal(t, float64(float32(0.1)), Float32.Cast(0.1))
		assert.Equal(t, 0.1, Float64.Cast(0.1))
		assert.Equal(t, 255.0, Uint8.Cast(300))
		assert.Equal(t, 0.0, Uint8.Cast(-3))
		assert.Equal(t, 12.0, Uint8.Cast(12.9))
		assert.Equal(t, 0.0, Uint16.Cast(math.NaN()))
		assert.Equal(t, 65535.0, Uint16.Cast(1e9))
	})

	t.Run("ItemSize", func(t *testing.T) {
		assert.Equal(t, 4, Float32.ItemSize())
		assert.Equal(t, 8, Float64.ItemSize())
		assert.Equal(t, 1, Uint8.ItemSize())
		assert.Equal(t, 2, Uint16.ItemSize())
	})
}

func TestShape(t *testing.T) {
	s := Shape{3, 4, 10, 10}
	assert.Equal(t, 4, s.Rank())
	assert.Equal(t, 1200, s.Size())
	assert.Equal(t, Shape{3, 4}, s.Head(2))
	assert.Equal(t, Shape{10, 10}, s.Tail(2))
	assert.Equal(t, "(3, 4, 10, 10)", s.String())
	assert.Equal(t, "(3,)", Shape{3}.String())
	assert.Equal(t, "()", Shape{}.String())
	assert.Equal(t, 1, Shape{}.Size())
	assert.True(t, Shape{1, 2}.Contains(1))
	assert.False(t, s.Contains(1))
	assert.Equal(t, Shape{1, 1, 3}, Shape{3}.prepend(2))
	assert.Equal(t, Shape{3, 2}, Shape{1, 3, 1, 2}.squeeze())
}

func TestDenseConstructors(t *testing.T) {
	t.Run("FromUint8", func(t *testing.T) {
		d, err := FromUint8([]uint8{1, 2, 3, 4, 5, 6}, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, Shape{2, 3}, d.Shape())
		assert.Equal(t, Uint8, d.DType())
		assert.False(t, d.Lazy())
		assert.Equal(t, 6.0, d.At(1, 2))
		assert.Equal(t, 2.0, d.At(0, 1))
	})

	t.Run("FromFloat32", func(t *testing.T) {
		d, err := FromFloat32([]float32{0.5, 1.5}, 2)
		require.NoError(t, err)
		assert.Equal(t, []float32{0.5, 1.5}, d.Float32s())
	})

	t.Run("NewCopiesAndCasts", func(t *testing.T) {
		src := []float64{0.1, 2}
		d, err := New(Float32, src, 2)
		require.NoError(t, err)
		src[1] = 99
		assert.Equal(t, float64(float32(0.1)), d.Data()[0])
		assert.Equal(t, 2.0, d.Data()[1])
	})

	t.Run("SizeMismatch", func(t *testing.T) {
		_, err := FromFloat64([]float64{1, 2, 3}, 2, 2)
		assert.ErrorIs(t, err, ErrInvalidShape)

		_, err = FromUint16([]uint16{1}, -1)
		assert.ErrorIs(t, err, ErrInvalidShape)
	})

	t.Run("Zeros", func(t *testing.T) {
		d, err := Zeros(Float64, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 0, 0}, d.Data())
	})

	t.Run("Scalar", func(t *testing.T) {
		d, err := FromFloat64([]float64{7}, 1, 1)
		require.NoError(t, err)
		v, ok := d.Scalar()
		assert.True(t, ok)
		assert.Equal(t, 7.0, v)
	})
}

func TestDenseViews(t *testing.T) {
	d, err := FromFloat64([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	r, err := d.Reshape(3, -1)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, r.Shape())

	_, err = d.Reshape(4, -1)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = d.Reshape(-1, -1)
	assert.ErrorIs(t, err, ErrInvalidShape)

	e := d.ExpandDims(2)
	assert.Equal(t, Shape{1, 1, 2, 3}, e.Shape())
	assert.Equal(t, Shape{2, 3}, e.Squeeze().Shape())

	m, err := e.Materialize(context.Background())
	require.NoError(t, err)
	assert.Same(t, &d.Data()[0], &m.Data()[0])

	assert.Same(t, d, d.Rechunk(1, 1))
	assert.Same(t, d, d.AsType(Float64))
}

func TestDenseAsType(t *testing.T) {
	d, err := FromFloat64([]float64{-1.5, 0.25, 300}, 3)
	require.NoError(t, err)

	u := d.AsType(Uint8).(*Dense)
	assert.Equal(t, []float64{0, 0, 255}, u.Data())
	// Source is untouched.
	assert.Equal(t, []float64{-1.5, 0.25, 300}, d.Data())
}

func TestDenseAtPanics(t *testing.T) {
	d, err := Zeros(Float32, 2, 2)
	require.NoError(t, err)

	assert.Panics(t, func() { d.At(2, 0) })
	assert.Panics(t, func() { d.At(0) })
}

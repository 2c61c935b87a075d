package ndarray

import (
	"context"
	"fmt"
)

// Dense is an in-memory, row-major array.
type Dense struct {
	shape Shape
	dtype DType
	data  []float64
}

var _ Array = (*Dense)(nil)

// New creates a dense array from a copy of data, cast to dtype.
func New(dtype DType, data []float64, dims ...int) (*Dense, error) {
	shape := Shape(dims).Clone()
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	if shape.Size() != len(data) {
		return nil, fmt.Errorf("%w: %d elements do not fill %v", ErrInvalidShape, len(data), shape)
	}

	buf := append([]float64(nil), data...)
	dtype.castSlice(buf)
	return &Dense{shape: shape, dtype: dtype, data: buf}, nil
}

// Zeros returns a zero-filled dense array.
func Zeros(dtype DType, dims ...int) (*Dense, error) {
	shape := Shape(dims).Clone()
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	return &Dense{shape: shape, dtype: dtype, data: make([]float64, shape.Size())}, nil
}

// FromFloat64 creates a Float64 array from a copy of data.
func FromFloat64(data []float64, dims ...int) (*Dense, error) {
	return New(Float64, data, dims...)
}

// FromFloat32 creates a Float32 array from data.
func FromFloat32(data []float32, dims ...int) (*Dense, error) {
	return fromNumbers(Float32, data, dims)
}

// FromUint8 creates a Uint8 array, the usual storage of gray-tone patterns.
func FromUint8(data []uint8, dims ...int) (*Dense, error) {
	return fromNumbers(Uint8, data, dims)
}

// FromUint16 creates a Uint16 array.
func FromUint16(data []uint16, dims ...int) (*Dense, error) {
	return fromNumbers(Uint16, data, dims)
}

func fromNumbers[T float32 | uint8 | uint16](dtype DType, data []T, dims []int) (*Dense, error) {
	shape := Shape(dims).Clone()
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	if shape.Size() != len(data) {
		return nil, fmt.Errorf("%w: %d elements do not fill %v", ErrInvalidShape, len(data), shape)
	}

	buf := make([]float64, len(data))
	for i, v := range data {
		buf[i] = float64(v)
	}
	return &Dense{shape: shape, dtype: dtype, data: buf}, nil
}

// Shape returns a copy of the array's dimensions.
func (d *Dense) Shape() Shape { return d.shape.Clone() }

// DType returns the numeric type of the values.
func (d *Dense) DType() DType { return d.dtype }

// Lazy always returns false.
func (d *Dense) Lazy() bool { return false }

// Len returns the number of elements.
func (d *Dense) Len() int { return len(d.data) }

// Data returns the underlying row-major values.
// The slice is shared and must not be modified.
func (d *Dense) Data() []float64 { return d.data }

// Float32s returns a float32 copy of the values.
func (d *Dense) Float32s() []float32 {
	out := make([]float32, len(d.data))
	for i, v := range d.data {
		out[i] = float32(v)
	}
	return out
}

// At returns the element at the given index. It panics if the index is out of range.
func (d *Dense) At(idx ...int) float64 {
	if len(idx) != len(d.shape) {
		panic(fmt.Sprintf("ndarray: index %v for shape %v", idx, d.shape))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= d.shape[i] {
			panic(fmt.Sprintf("ndarray: index %v out of range for shape %v", idx, d.shape))
		}
		off = off*d.shape[i] + v
	}
	return d.data[off]
}

// Scalar returns the single value of a one-element array.
func (d *Dense) Scalar() (float64, bool) {
	if len(d.data) != 1 {
		return 0, false
	}
	return d.data[0], true
}

// AsType returns a copy cast to dt, or d itself if the dtype already matches.
func (d *Dense) AsType(dt DType) Array {
	if dt == d.dtype {
		return d
	}
	buf := append([]float64(nil), d.data...)
	dt.castSlice(buf)
	return &Dense{shape: d.shape.Clone(), dtype: dt, data: buf}
}

// Rechunk returns d; dense arrays have no chunks.
func (d *Dense) Rechunk(int, int) Array { return d }

// Reshape returns a view with new dimensions.
func (d *Dense) Reshape(dims ...int) (Array, error) {
	shape, err := resolveShape(len(d.data), dims)
	if err != nil {
		return nil, err
	}
	return &Dense{shape: shape, dtype: d.dtype, data: d.data}, nil
}

// ExpandDims returns a view with n leading singleton axes.
func (d *Dense) ExpandDims(n int) Array {
	return &Dense{shape: d.shape.prepend(n), dtype: d.dtype, data: d.data}
}

// Squeeze returns a view without singleton axes.
func (d *Dense) Squeeze() Array {
	return &Dense{shape: d.shape.squeeze(), dtype: d.dtype, data: d.data}
}

// Materialize returns d.
func (d *Dense) Materialize(context.Context) (*Dense, error) { return d, nil }

func (d *Dense) String() string {
	return fmt.Sprintf("Dense%v %s", d.shape, d.dtype)
}

package ndarray

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidShape is returned for negative dimensions or sizes that do not add up.
	ErrInvalidShape = errors.New("ndarray: invalid shape")
	// ErrShapeMismatch is returned when two arrays cannot be combined.
	ErrShapeMismatch = errors.New("ndarray: shape mismatch")
	// ErrInvalidAxis is returned when an axis count exceeds the rank.
	ErrInvalidAxis = errors.New("ndarray: invalid axis")
)

// Shape lists the size of each dimension, outermost first.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// Size returns the number of elements. A rank-0 shape has one element.
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Equal reports whether both shapes have the same dimensions.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of s.
func (s Shape) Clone() Shape {
	if s == nil {
		return Shape{}
	}
	return append(Shape{}, s...)
}

// Head returns all but the trailing n dimensions.
func (s Shape) Head(n int) Shape {
	if n > len(s) {
		n = len(s)
	}
	return s[:len(s)-n].Clone()
}

// Tail returns the trailing n dimensions.
func (s Shape) Tail(n int) Shape {
	if n > len(s) {
		n = len(s)
	}
	return s[len(s)-n:].Clone()
}

// Contains reports whether any dimension equals d.
func (s Shape) Contains(d int) bool {
	for _, v := range s {
		if v == d {
			return true
		}
	}
	return false
}

// String formats s like a tuple: (), (3,), (3, 4).
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Shape) squeeze() Shape {
	out := Shape{}
	for _, d := range s {
		if d != 1 {
			out = append(out, d)
		}
	}
	return out
}

func (s Shape) prepend(n int) Shape {
	if n <= 0 {
		return s.Clone()
	}
	out := make(Shape, 0, n+len(s))
	for range n {
		out = append(out, 1)
	}
	return append(out, s...)
}

func validateShape(s Shape) error {
	for _, d := range s {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension in %v", ErrInvalidShape, s)
		}
	}
	return nil
}

// resolveShape fills in a single -1 dimension so that the shape holds size elements.
func resolveShape(size int, dims []int) (Shape, error) {
	out := make(Shape, len(dims))
	unknown := -1
	known := 1
	for i, d := range dims {
		switch {
		case d == -1:
			if unknown >= 0 {
				return nil, fmt.Errorf("%w: more than one -1 in %v", ErrInvalidShape, dims)
			}
			unknown = i
		case d < 0:
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrInvalidShape, dims)
		default:
			known *= d
		}
		out[i] = d
	}

	if unknown >= 0 {
		if known == 0 || size%known != 0 {
			return nil, fmt.Errorf("%w: cannot reshape %d elements into %v", ErrInvalidShape, size, dims)
		}
		out[unknown] = size / known
		return out, nil
	}

	if known != size {
		return nil, fmt.Errorf("%w: cannot reshape %d elements into %v", ErrInvalidShape, size, dims)
	}
	return out, nil
}

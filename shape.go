package kikgo

import (
	"fmt"

	"github.com/hupe1980/kikgo/ndarray"
)

// NavigationShape returns the batch dimensions of an experimental array:
// () for rank 2, (d0) for rank 3 and (d0, d1) for rank 4.
func NavigationShape(a ndarray.Array) (ndarray.Shape, error) {
	shape := a.Shape()
	switch shape.Rank() {
	case 2, 3, 4:
		return shape.Head(2), nil
	default:
		return nil, &IncompatibleShapeError{
			Experimental: shape,
			Reason:       fmt.Sprintf("navigation shape needs rank 2, 3 or 4, got %d", shape.Rank()),
		}
	}
}

// SignalShape returns the trailing two dimensions, the shape of one pattern.
func SignalShape(a ndarray.Array) ndarray.Shape {
	return a.Shape().Tail(2)
}

// SimulatedCount returns the number of patterns in a simulated array.
func SimulatedCount(a ndarray.Array) int {
	shape := a.Shape()
	if shape.Rank() == 3 {
		return shape[0]
	}
	return 1
}

// ExpandToManyToMany prepends singleton axes until both arrays have the
// ranks ManyToMany requires in the given layout.
func ExpandToManyToMany(experimental, simulated ndarray.Array, flattened bool) (ndarray.Array, ndarray.Array) {
	want := ManyToMany.Ranks(layoutOf(flattened))
	return expandTo(experimental, want.Experimental), expandTo(simulated, want.Simulated)
}

// ZeroMean subtracts from every pattern its mean.
//
// Both arrays are promoted to ManyToMany ranks first. They are squeezed back
// afterwards unless one of them already had a singleton axis.
func ZeroMean(experimental, simulated ndarray.Array, flattened bool) (ndarray.Array, ndarray.Array, error) {
	return perPattern(experimental, simulated, flattened, ndarray.SubtractMean)
}

// Normalize divides every pattern by its L2 norm, with the same promotion
// rules as ZeroMean. Patterns of norm zero become NaN.
func Normalize(experimental, simulated ndarray.Array, flattened bool) (ndarray.Array, ndarray.Array, error) {
	return perPattern(experimental, simulated, flattened, ndarray.NormalizeL2)
}

func perPattern(e, s ndarray.Array, flattened bool, op func(ndarray.Array, int) (ndarray.Array, error)) (ndarray.Array, ndarray.Array, error) {
	squeeze := !e.Shape().Contains(1) && !s.Shape().Contains(1)
	e, s = ExpandToManyToMany(e, s, flattened)

	axes := signalAxes(flattened)
	e, err := op(e, axes)
	if err != nil {
		return nil, nil, fmt.Errorf("experimental: %w", err)
	}
	s, err = op(s, axes)
	if err != nil {
		return nil, nil, fmt.Errorf("simulated: %w", err)
	}

	if squeeze {
		return e.Squeeze(), s.Squeeze(), nil
	}
	return e, s, nil
}

func signalAxes(flattened bool) int {
	if flattened {
		return 1
	}
	return 2
}

func layoutOf(flattened bool) Layout {
	if flattened {
		return Flattened
	}
	return Nested
}

package kikgo

import (
	"github.com/hupe1980/kikgo/ndarray"
)

// ZNCC computes the zero-mean normalized cross-correlation of every
// experimental pattern with every simulated pattern. For experimental of
// shape (ny, nx, sy, sx) and simulated of shape (n, sy, sx) the result has
// shape (ny, nx, n) with values in [-1, 1].
//
// The result is dense only if both inputs are dense.
func ZNCC(experimental, simulated ndarray.Array) (ndarray.Array, error) {
	return zncc(experimental, simulated, false)
}

// FlatZNCC is ZNCC for patterns whose signal axes are merged into one.
func FlatZNCC(experimental, simulated ndarray.Array) (ndarray.Array, error) {
	return zncc(experimental, simulated, true)
}

// NDP computes the normalized dot product of every experimental pattern
// with every simulated pattern. Values lie in [0, 1] for non-negative
// patterns. Shapes follow ZNCC.
func NDP(experimental, simulated ndarray.Array) (ndarray.Array, error) {
	return ndp(experimental, simulated, false)
}

// FlatNDP is NDP for patterns whose signal axes are merged into one.
func FlatNDP(experimental, simulated ndarray.Array) (ndarray.Array, error) {
	return ndp(experimental, simulated, true)
}

func zncc(e, s ndarray.Array, flattened bool) (ndarray.Array, error) {
	e, s, err := ZeroMean(e, s, flattened)
	if err != nil {
		return nil, err
	}
	return ndp(e, s, flattened)
}

func ndp(e, s ndarray.Array, flattened bool) (ndarray.Array, error) {
	e, s, err := Normalize(e, s, flattened)
	if err != nil {
		return nil, err
	}
	return ndarray.Contract(e, s, signalAxes(flattened))
}

package ndarray

import (
	"fmt"
	"math"
	"strings"
)

// DType is the numeric type an array's values are representable in.
// Values are always held as float64; the dtype decides their precision.
type DType uint8

const (
	Float32 DType = iota
	Float64
	Uint8
	Uint16
)

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	default:
		return fmt.Sprintf("DType(%d)", d)
	}
}

// ParseDType returns the dtype with the given name.
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "f4":
		return Float32, nil
	case "float64", "f8":
		return Float64, nil
	case "uint8", "u1":
		return Uint8, nil
	case "uint16", "u2":
		return Uint16, nil
	default:
		return 0, fmt.Errorf("ndarray: unknown dtype %q", s)
	}
}

// ItemSize returns the encoded size of one element in bytes.
func (d DType) ItemSize() int {
	switch d {
	case Float64:
		return 8
	case Uint8:
		return 1
	case Uint16:
		return 2
	default:
		return 4
	}
}

// Cast rounds v to the nearest value representable in d.
// Integer types truncate toward zero and saturate; NaN becomes 0.
func (d DType) Cast(v float64) float64 {
	switch d {
	case Float32:
		return float64(float32(v))
	case Uint8:
		return saturate(v, math.MaxUint8)
	case Uint16:
		return saturate(v, math.MaxUint16)
	default:
		return v
	}
}

func (d DType) castSlice(a []float64) {
	if d == Float64 {
		return
	}
	for i, v := range a {
		a[i] = d.Cast(v)
	}
}

func saturate(v, upper float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= upper {
		return upper
	}
	return math.Trunc(v)
}

// resultType is the dtype of an operation combining a and b.
func resultType(a, b DType) DType {
	if a == Float64 || b == Float64 {
		return Float64
	}
	return Float32
}

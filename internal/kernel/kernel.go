package kernel

import "math"

// Kernel function pointers, swapped in tests to compare against the plain loops.
var (
	kernelDot        = dotUnrolled
	kernelSum        = sumUnrolled
	kernelSumSquares = sumSquaresUnrolled
	kernelScale      = scaleGeneric
	kernelAddScalar  = addScalarGeneric
)

// Dot calculates the dot product of two vectors.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func Dot(a, b []float64) float64 {
	return kernelDot(a, b)
}

// Sum returns the sum of all elements of a.
func Sum(a []float64) float64 {
	return kernelSum(a)
}

// SumSquares returns the sum of squared elements of a.
func SumSquares(a []float64) float64 {
	return kernelSumSquares(a)
}

// Scale multiplies all elements of a by scalar.
func Scale(a []float64, scalar float64) {
	kernelScale(a, scalar)
}

// AddScalar adds scalar to all elements of a.
func AddScalar(a []float64, scalar float64) {
	kernelAddScalar(a, scalar)
}

// DotBatch computes the dot product of query against each row of targets.
// targets is a row-major block of len(out) rows of dimension dim.
func DotBatch(query, targets []float64, dim int, out []float64) {
	if dim <= 0 || len(out) == 0 || len(query) < dim {
		return
	}

	q := query[:dim]
	n := len(targets) / dim
	if n > len(out) {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		offset := i * dim
		out[i] = kernelDot(q, targets[offset:offset+dim])
	}
}

// Round32 rounds every element of a to the nearest float32 value.
func Round32(a []float64) {
	for i, v := range a {
		a[i] = float64(float32(v))
	}
}

// Norm returns the Euclidean norm of a.
func Norm(a []float64) float64 {
	return math.Sqrt(kernelSumSquares(a))
}

func dotGeneric(a, b []float64) float64 {
	var ret float64
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

func dotUnrolled(a, b []float64) float64 {
	var s0, s1, s2, s3 float64

	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i] * b[i]
	}

	return (s0 + s1) + (s2 + s3)
}

func sumGeneric(a []float64) float64 {
	var ret float64
	for _, v := range a {
		ret += v
	}

	return ret
}

func sumUnrolled(a []float64) float64 {
	var s0, s1, s2, s3 float64

	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i]
		s1 += a[i+1]
		s2 += a[i+2]
		s3 += a[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i]
	}

	return (s0 + s1) + (s2 + s3)
}

func sumSquaresGeneric(a []float64) float64 {
	return dotGeneric(a, a)
}

func sumSquaresUnrolled(a []float64) float64 {
	return dotUnrolled(a, a)
}

func scaleGeneric(a []float64, scalar float64) {
	for i := range a {
		a[i] *= scalar
	}
}

func addScalarGeneric(a []float64, scalar float64) {
	for i := range a {
		a[i] += scalar
	}
}

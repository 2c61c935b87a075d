// Package kernel provides the float64 loops behind ndarray reductions and
// contractions.
//
// # Operations
//
//   - Reductions: Sum, SumSquares, Dot
//   - Batch: DotBatch (one row against a row-major block of rows)
//   - In place: Scale, AddScalar, Round32
//
// All kernels assume equal lengths where two slices are involved; callers
// validate shapes before dispatching here.
package kernel

// Package ndarray provides the n-dimensional float arrays the similarity
// metrics operate on.
//
// Two implementations satisfy the Array interface:
//
//   - *Dense holds its elements in memory; every operation runs eagerly.
//   - *Lazy is a row-major sequence of chunks, each produced on demand by a
//     ChunkFunc. Operations build a deferred graph and nothing is computed
//     until Materialize or Stream is called.
//
// Operations that combine arrays (Contract, SubtractMean, NormalizeL2, Slice)
// return a *Dense only when every input is dense. A lazy input yields a lazy
// result, so dictionaries larger than memory can be compared chunk by chunk.
//
// # Usage
//
//	expt, _ := ndarray.FromUint8(pixels, 3, 4, 60, 60)
//	dict := ndarray.FromDense(simulated, 100) // 100 patterns per chunk
//	sim, _ := ndarray.Contract(expt, dict, 2)
//	out, _ := sim.Materialize(ctx)
//
// Arrays are immutable. Reshape, ExpandDims and Squeeze return views that
// share storage with their source.
package ndarray

// Package kikgo compares gray-tone diffraction patterns for EBSD dictionary
// indexing.
//
// Experimental patterns recorded on a scan grid are compared with a
// dictionary of simulated patterns. A metric returns one score per
// (navigation point, dictionary pattern) pair, and Metric.Sign tells whether
// larger scores are better.
//
// # Quick Start
//
//	zncc, _ := kikgo.Lookup("zncc")
//	scores, _ := zncc.Compare(experimental, dictionary) // (ny, nx, n)
//	dense, _ := scores.Materialize(ctx)
//
// # Scopes
//
// A metric is written for one Scope, which fixes the ranks of its inputs:
//
//	Scope        experimental       simulated     result
//	ManyToMany   (ny, nx, sy, sx)   (n, sy, sx)   (ny, nx, n)
//	OneToMany    (sy, sx)           (n, sy, sx)   (n)
//	ManyToOne    (ny, nx, sy, sx)   (sy, sx)      (ny, nx)
//	OneToOne     (sy, sx)           (sy, sx)      ()
//
// With WithAutoPromote, a metric also accepts inputs of its lower scopes by
// prepending singleton axes. Flattened metrics receive (ny*nx, sy*sx) and
// (n, sy*sx) arrays; callers still pass nested arrays.
//
// # Custom Metrics
//
//	sad := kikgo.MakeMetric(func(e, s ndarray.Array) (ndarray.Array, error) {
//	    ...
//	}, kikgo.WithGreaterIsBetter(false), kikgo.WithScope(kikgo.OneToOne))
//
// # Out-of-core Dictionaries
//
// Lazy arrays (see package ndarray and chunkstore) are compared chunk by
// chunk. A metric given a lazy input returns a lazy result; nothing is
// computed until it is materialized or streamed by package match.
package kikgo

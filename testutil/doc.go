// Package testutil provides testing utilities for kikgo.
//
// This package is intended for use in tests and benchmarks only.
// It generates random gray-tone patterns and scan grids whose best
// dictionary match is known in advance.
//
// # Random Patterns
//
//	rng := testutil.NewRNG(seed)
//	dict := rng.Patterns(50, 10, 10)           // (50, 10, 10) uint8
//	scan, truth := rng.Scan(dict, 3, 4, 5)     // (3, 4, 10, 10), noisy copies
//
// # Ground Truth
//
//	best := testutil.ArgBest(scores, n, sign)
package testutil

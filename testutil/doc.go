// Package testutil provides testing utilities for pivotring.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating deterministic random data and
// computing exact range query answers by linear scan.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformPoints(1000, 2)     // uniform [0, 1)²
//	words := rng.Words(500, 3, 8, "abcde")   // random strings
//
// # Ground Truth
//
//	ids, err := testutil.BruteForceRange(points, query, 0.05, distance.Euclidean)
package testutil

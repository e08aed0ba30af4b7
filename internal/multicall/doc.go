// Package multicall owns the aggregate entry point.
//
// Ownership boundary:
// - sequential sub-call aggregation over a caller-supplied capability
// - the aggregate contract (decode, aggregate, encode)
// - selector routing for the contract's entry points
//
// Nothing in this package logs or keeps state between invocations.
package multicall

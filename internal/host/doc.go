// Package host is an in-memory execution environment for the aggregate
// contract.
//
// Ownership boundary:
// - target registry keyed by address
// - per-invocation gas metering and call depth
// - journaled target storage committed only when an invocation succeeds
//
// Host implements multicall.Caller through the invocations it starts; the
// contract never sees the registry or the meter.
package host

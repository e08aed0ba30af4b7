// Package protocol owns the multicall wire contract.
//
// Ownership boundary:
// - call request stream (count, then target/length/payload records)
// - aggregate response stream (result count, length array, raw payloads)
// - selector and address primitives shared with the entry point
//
// Every routine here is a pure function over byte slices. Integers are
// big-endian to match the host runtime's reader and writer.
package protocol

package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the fixed width of a target address on the wire.
const AddressLength = 32

// Address identifies a call target. The core treats it as an opaque blob.
type Address [AddressLength]byte

// ParseAddress decodes a hex address with an optional 0x prefix.
func ParseAddress(s string) (Address, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("%w: got %d bytes want %d", ErrInvalidAddress, len(b), AddressLength)
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// CallRequest is one sub-call: a target and the calldata forwarded to it.
type CallRequest struct {
	Target  Address
	Payload []byte
}

// CallResult holds the bytes one sub-call returned. Its length is fixed at
// construction and always equals len(Data()).
type CallResult struct {
	data   []byte
	length uint64
}

// NewCallResult wraps data returned by a sub-call.
func NewCallResult(data []byte) CallResult {
	return CallResult{data: data, length: uint64(len(data))}
}

func (r CallResult) Data() []byte {
	return r.data
}

func (r CallResult) Length() uint64 {
	return r.length
}

// AggregateResult is the ordered result set of one aggregate invocation.
// TotalLength is the running sum of every result length and is only used to
// pre-size the response buffer.
type AggregateResult struct {
	totalLength uint64
	results     []CallResult
}

// NewAggregateResult builds a result set from results in request order.
func NewAggregateResult(results ...CallResult) AggregateResult {
	agg := AggregateResult{results: make([]CallResult, 0, len(results))}
	for _, r := range results {
		agg.Append(r)
	}
	return agg
}

// Append adds the next result and accounts its length.
func (a *AggregateResult) Append(r CallResult) {
	a.results = append(a.results, r)
	a.totalLength += r.length
}

func (a AggregateResult) TotalLength() uint64 {
	return a.totalLength
}

// Results returns the results in request order.
func (a AggregateResult) Results() []CallResult {
	return a.results
}

func (a AggregateResult) Len() int {
	return len(a.results)
}

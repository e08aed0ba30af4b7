package protocol

import (
	"fmt"
	"math"
)

const (
	// minRequestSize is the smallest encoded call record: a target and an
	// empty payload.
	minRequestSize = AddressLength + u32Size

	// responseHeaderSize covers the result count and the length array's own
	// count prefix. Both are written.
	responseHeaderSize = u16Size + u16Size

	// MaxResults is the largest result set the u16 count can describe.
	MaxResults = math.MaxUint16

	// DefaultMaxResponseSize is the largest buffer the host runtime can hand
	// back; its buffer sizes are signed 32-bit.
	DefaultMaxResponseSize = math.MaxInt32
)

// Limits constrains response encoding.
type Limits struct {
	MaxResponseSize uint64
}

func DefaultLimits() Limits {
	return Limits{MaxResponseSize: DefaultMaxResponseSize}
}

// EncodeRequests writes reqs in the aggregate calldata layout.
func EncodeRequests(reqs []CallRequest) ([]byte, error) {
	size := uint64(u64Size)
	for i, req := range reqs {
		if uint64(len(req.Payload)) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: call[%d] payload is %d bytes, u32 length field",
				ErrCapacityExceeded, i, len(req.Payload))
		}
		size += minRequestSize + uint64(len(req.Payload))
	}

	w := newWriter(size)
	w.u64(uint64(len(reqs)))
	for _, req := range reqs {
		w.address(req.Target)
		w.u32(uint32(len(req.Payload)))
		w.bytes(req.Payload)
	}
	return w.finish()
}

// ResponseSize returns the exact encoded size of agg.
func ResponseSize(agg AggregateResult) (uint64, error) {
	n := uint64(agg.Len())
	if n > MaxResults {
		return 0, fmt.Errorf("%w: %d results, u16 count holds at most %d",
			ErrCapacityExceeded, n, MaxResults)
	}
	fixed := responseHeaderSize + u64Size*n
	if agg.TotalLength() > math.MaxUint64-fixed {
		return 0, fmt.Errorf("%w: result data of %d bytes overflows response size",
			ErrCapacityExceeded, agg.TotalLength())
	}
	return fixed + agg.TotalLength(), nil
}

// EncodeResponse writes agg as:
//
//	resultCount u16, count u16, count x length u64, payloads back to back
//
// The buffer is allocated once at its final size. More than MaxResults
// results, or a size above limits.MaxResponseSize, is ErrCapacityExceeded.
func EncodeResponse(agg AggregateResult, limits Limits) ([]byte, error) {
	size, err := ResponseSize(agg)
	if err != nil {
		return nil, err
	}
	if limits.MaxResponseSize > 0 && size > limits.MaxResponseSize {
		return nil, fmt.Errorf("%w: response is %d bytes, limit %d",
			ErrCapacityExceeded, size, limits.MaxResponseSize)
	}

	count := uint16(agg.Len())
	w := newWriter(size)
	w.u16(count)
	w.u16(count)
	for _, r := range agg.Results() {
		w.u64(r.Length())
	}
	for _, r := range agg.Results() {
		w.bytes(r.Data())
	}
	return w.finish()
}

package protocol

import "fmt"

// DecodeRequests parses the aggregate calldata:
//
//	count u64, then count x (target [32]byte, payloadLength u32, payload)
//
// It returns nil and ErrMalformedInput on any structural violation,
// including bytes left over after the last record.
func DecodeRequests(buf []byte) ([]CallRequest, error) {
	r := newReader(buf)
	count, err := r.u64("call count")
	if err != nil {
		return nil, err
	}
	if count > uint64(r.remaining())/minRequestSize {
		return nil, fmt.Errorf("%w: call count %d cannot fit in %d remaining bytes",
			ErrMalformedInput, count, r.remaining())
	}

	reqs := make([]CallRequest, 0, count)
	for i := uint64(0); i < count; i++ {
		target, err := r.address(fmt.Sprintf("call[%d] target", i))
		if err != nil {
			return nil, err
		}
		n, err := r.u32(fmt.Sprintf("call[%d] payload length", i))
		if err != nil {
			return nil, err
		}
		payload, err := r.bytes(uint64(n), fmt.Sprintf("call[%d] payload", i))
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, CallRequest{Target: target, Payload: payload})
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return reqs, nil
}

// DecodeResponse parses an aggregate response back into its results. Both
// count prefixes must agree and the payload region must be consumed exactly.
func DecodeResponse(buf []byte) (AggregateResult, error) {
	r := newReader(buf)
	count, err := r.u16("result count")
	if err != nil {
		return AggregateResult{}, err
	}
	arrayCount, err := r.u16("length array count")
	if err != nil {
		return AggregateResult{}, err
	}
	if count != arrayCount {
		return AggregateResult{}, fmt.Errorf("%w: result count %d disagrees with length array count %d",
			ErrMalformedInput, count, arrayCount)
	}

	lengths := make([]uint64, count)
	for i := range lengths {
		lengths[i], err = r.u64(fmt.Sprintf("result[%d] length", i))
		if err != nil {
			return AggregateResult{}, err
		}
	}

	agg := AggregateResult{results: make([]CallResult, 0, count)}
	for i, n := range lengths {
		data, err := r.bytes(n, fmt.Sprintf("result[%d] data", i))
		if err != nil {
			return AggregateResult{}, err
		}
		agg.Append(NewCallResult(data))
	}
	if err := r.done(); err != nil {
		return AggregateResult{}, err
	}
	return agg, nil
}

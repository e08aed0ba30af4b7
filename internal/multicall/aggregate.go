package multicall

import (
	"context"

	"github.com/danmuck/multicall/internal/protocol"
)

// Caller is the host's call primitive. A returned error is a fault: revert,
// resource exhaustion, or any other abort of the sub-call.
type Caller interface {
	Call(ctx context.Context, target protocol.Address, payload []byte) ([]byte, error)
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, target protocol.Address, payload []byte) ([]byte, error)

func (f CallerFunc) Call(ctx context.Context, target protocol.Address, payload []byte) ([]byte, error) {
	return f(ctx, target, payload)
}

// Aggregate issues every request through caller in order, one at a time, and
// collects the results in request order. The first fault stops the run:
// later requests are not issued and no result is returned.
func Aggregate(ctx context.Context, caller Caller, reqs []protocol.CallRequest) (protocol.AggregateResult, error) {
	var agg protocol.AggregateResult
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return protocol.AggregateResult{}, &SubCallFaultError{Index: i, Target: req.Target, Err: err}
		}
		data, err := caller.Call(ctx, req.Target, req.Payload)
		if err != nil {
			return protocol.AggregateResult{}, &SubCallFaultError{Index: i, Target: req.Target, Err: err}
		}
		agg.Append(protocol.NewCallResult(data))
	}
	return agg, nil
}

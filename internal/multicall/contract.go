package multicall

import (
	"context"

	"github.com/danmuck/multicall/internal/protocol"
)

// AggregateMethod is the method name the aggregate selector is derived from.
const AggregateMethod = "aggregate"

// Contract is the aggregate entry point bound to response limits.
type Contract struct {
	Limits protocol.Limits
}

func NewContract(limits protocol.Limits) Contract {
	return Contract{Limits: limits}
}

// Execute decodes calldata, aggregates the calls and encodes the response.
// Any failure returns no output.
func (c Contract) Execute(ctx context.Context, caller Caller, calldata []byte) ([]byte, error) {
	reqs, err := protocol.DecodeRequests(calldata)
	if err != nil {
		return nil, err
	}
	agg, err := Aggregate(ctx, caller, reqs)
	if err != nil {
		return nil, err
	}
	return protocol.EncodeResponse(agg, c.Limits)
}

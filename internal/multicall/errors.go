package multicall

import (
	"errors"
	"fmt"

	"github.com/danmuck/multicall/internal/protocol"
	"github.com/danmuck/multicall/internal/protocol/frame"
)

var (
	ErrSubCallFault    = errors.New("multicall: sub-call fault")
	ErrUnknownSelector = errors.New("multicall: unknown selector")
	ErrSelectorExists  = errors.New("multicall: selector already registered")
)

// SubCallFaultError reports the sub-call that aborted an aggregate run.
type SubCallFaultError struct {
	Index  int
	Target protocol.Address
	Err    error
}

func (e *SubCallFaultError) Error() string {
	return fmt.Sprintf("multicall: call[%d] to %s failed: %v", e.Index, e.Target, e.Err)
}

func (e *SubCallFaultError) Unwrap() error {
	return e.Err
}

func (e *SubCallFaultError) Is(target error) bool {
	return target == ErrSubCallFault
}

// Error kinds reported by Kind.
const (
	KindMalformedInput   = "malformed_input"
	KindCapacityExceeded = "capacity_exceeded"
	KindSubCallFault     = "sub_call_fault"
	KindUnknownSelector  = "unknown_selector"
	KindInternal         = "internal"
)

// Kind classifies an error returned by this package or the codec.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSubCallFault):
		return KindSubCallFault
	case errors.Is(err, protocol.ErrMalformedInput), errors.Is(err, frame.ErrShortSelector):
		return KindMalformedInput
	case errors.Is(err, protocol.ErrCapacityExceeded), errors.Is(err, frame.ErrCalldataTooLarge):
		return KindCapacityExceeded
	case errors.Is(err, ErrUnknownSelector):
		return KindUnknownSelector
	default:
		return KindInternal
	}
}

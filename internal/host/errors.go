package host

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTarget = errors.New("host: unknown target")
	ErrReverted      = errors.New("host: reverted")
	ErrOutOfGas      = errors.New("host: out of gas")
	ErrCallDepth     = errors.New("host: call depth exceeded")
	ErrTargetExists  = errors.New("host: target already registered")
	ErrTargetNil     = errors.New("host: target is nil")
)

// RevertError carries the reason a target reverted with.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("host: reverted: %s", e.Reason)
}

func (e *RevertError) Is(target error) bool {
	return target == ErrReverted
}

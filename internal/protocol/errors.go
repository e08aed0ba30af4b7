package protocol

import "errors"

var (
	ErrMalformedInput   = errors.New("protocol: malformed input")
	ErrCapacityExceeded = errors.New("protocol: capacity exceeded")
	ErrInvalidAddress   = errors.New("protocol: invalid address")
	ErrInvalidSelector  = errors.New("protocol: invalid selector")
)

package host

import (
	"context"
	"encoding/binary"
)

// Target is code reachable at an address.
type Target interface {
	Invoke(ctx context.Context, frame *Frame, payload []byte) ([]byte, error)
}

// TargetFunc adapts a function to Target.
type TargetFunc func(ctx context.Context, frame *Frame, payload []byte) ([]byte, error)

func (f TargetFunc) Invoke(ctx context.Context, frame *Frame, payload []byte) ([]byte, error) {
	return f(ctx, frame, payload)
}

// Static always returns a copy of data.
func Static(data []byte) Target {
	fixed := append([]byte(nil), data...)
	return TargetFunc(func(context.Context, *Frame, []byte) ([]byte, error) {
		return append([]byte(nil), fixed...), nil
	})
}

// Echo returns its calldata.
func Echo() Target {
	return TargetFunc(func(_ context.Context, _ *Frame, payload []byte) ([]byte, error) {
		return append([]byte(nil), payload...), nil
	})
}

// Revert always faults with reason.
func Revert(reason string) Target {
	return TargetFunc(func(context.Context, *Frame, []byte) ([]byte, error) {
		return nil, &RevertError{Reason: reason}
	})
}

const counterKey = "count"

// Counter increments a stored u64 on every call and returns the new value
// big-endian.
func Counter() Target {
	return TargetFunc(func(_ context.Context, frame *Frame, _ []byte) ([]byte, error) {
		var n uint64
		if raw := frame.Load(counterKey); len(raw) == 8 {
			n = binary.BigEndian.Uint64(raw)
		}
		n++
		out := binary.BigEndian.AppendUint64(nil, n)
		frame.Store(counterKey, out)
		return append([]byte(nil), out...), nil
	})
}

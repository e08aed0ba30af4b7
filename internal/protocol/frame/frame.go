// Package frame reads and writes the call envelope handed to an entry point:
// a four byte selector followed by the calldata for that operation.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/danmuck/multicall/internal/protocol"
)

var (
	ErrShortSelector    = errors.New("frame: short selector")
	ErrCalldataTooLarge = errors.New("frame: calldata too large")
)

// Envelope is one complete inbound call.
type Envelope struct {
	Selector protocol.Selector
	Calldata []byte
}

// MaxCalldataLimit is the largest MaxCalldataBytes a reader honours; larger
// limits are clamped to it.
const MaxCalldataLimit = math.MaxInt32

// Limits constrains envelope memory use.
type Limits struct {
	MaxCalldataBytes uint64
}

func DefaultLimits() Limits {
	return Limits{MaxCalldataBytes: 4 * 1024 * 1024}
}

// Read consumes r to EOF and returns the envelope it carries.
func Read(r io.Reader, limits Limits) (Envelope, error) {
	var sel [protocol.SelectorLength]byte
	if _, err := io.ReadFull(r, sel[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Envelope{}, ErrShortSelector
		}
		return Envelope{}, err
	}

	limit := limits.MaxCalldataBytes
	if limit > MaxCalldataLimit {
		limit = MaxCalldataLimit
	}
	calldata, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return Envelope{}, err
	}
	if uint64(len(calldata)) > limit {
		return Envelope{}, fmt.Errorf("%w: limit %d bytes", ErrCalldataTooLarge, limit)
	}

	return Envelope{
		Selector: protocol.Selector(binary.BigEndian.Uint32(sel[:])),
		Calldata: calldata,
	}, nil
}

// Decode splits an in-memory envelope. The calldata aliases b.
func Decode(b []byte) (Envelope, error) {
	if len(b) < protocol.SelectorLength {
		return Envelope{}, ErrShortSelector
	}
	return Envelope{
		Selector: protocol.Selector(binary.BigEndian.Uint32(b[:protocol.SelectorLength])),
		Calldata: b[protocol.SelectorLength:],
	}, nil
}

func Encode(env Envelope) []byte {
	buf := make([]byte, protocol.SelectorLength+len(env.Calldata))
	binary.BigEndian.PutUint32(buf[:protocol.SelectorLength], uint32(env.Selector))
	copy(buf[protocol.SelectorLength:], env.Calldata)
	return buf
}

func Write(w io.Writer, env Envelope, limits Limits) error {
	if uint64(len(env.Calldata)) > limits.MaxCalldataBytes {
		return fmt.Errorf("%w: limit %d bytes", ErrCalldataTooLarge, limits.MaxCalldataBytes)
	}
	_, err := w.Write(Encode(env))
	return err
}

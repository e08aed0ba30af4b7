package protocol

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// SelectorLength is the width of a selector prefix in calldata.
const SelectorLength = 4

// Selector names the operation a piece of calldata is addressed to.
type Selector uint32

// EncodeSelector derives the selector for a method name: the first four
// bytes of its SHA-256 digest, read big-endian.
func EncodeSelector(name string) Selector {
	sum := sha256.Sum256([]byte(name))
	return Selector(binary.BigEndian.Uint32(sum[:SelectorLength]))
}

// ParseSelector reads a selector written as 0x-prefixed hex.
func ParseSelector(s string) (Selector, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if raw == "" || len(raw) > 2*SelectorLength {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelector, s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	}
	return Selector(v), nil
}

func (s Selector) String() string {
	return fmt.Sprintf("0x%08x", uint32(s))
}

// Bytes returns the selector in wire order.
func (s Selector) Bytes() []byte {
	buf := make([]byte, SelectorLength)
	binary.BigEndian.PutUint32(buf, uint32(s))
	return buf
}

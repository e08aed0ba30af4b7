package protocol

import (
	"encoding/binary"
	"fmt"
)

const (
	u16Size = 2
	u32Size = 4
	u64Size = 8
)

// reader walks a byte slice and reports every short read as malformed input.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) take(n uint64, field string) ([]byte, error) {
	if n > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: %s needs %d bytes at offset %d, %d remain",
			ErrMalformedInput, field, n, r.off, r.remaining())
	}
	end := r.off + int(n)
	b := r.buf[r.off:end]
	r.off = end
	return b, nil
}

func (r *reader) u16(field string) (uint16, error) {
	b, err := r.take(u16Size, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) u32(field string) (uint32, error) {
	b, err := r.take(u32Size, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) u64(field string) (uint64, error) {
	b, err := r.take(u64Size, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *reader) address(field string) (Address, error) {
	b, err := r.take(AddressLength, field)
	if err != nil {
		return Address{}, err
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// bytes copies n bytes so decoded values never alias the input buffer.
func (r *reader) bytes(n uint64, field string) ([]byte, error) {
	b, err := r.take(n, field)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (r *reader) done() error {
	if rem := r.remaining(); rem != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformedInput, rem)
	}
	return nil
}

// writer fills a buffer that was sized up front; it never grows.
type writer struct {
	buf []byte
	off int
}

func newWriter(size uint64) *writer {
	return &writer{buf: make([]byte, size)}
}

func (w *writer) u16(v uint16) {
	binary.BigEndian.PutUint16(w.buf[w.off:], v)
	w.off += u16Size
}

func (w *writer) u32(v uint32) {
	binary.BigEndian.PutUint32(w.buf[w.off:], v)
	w.off += u32Size
}

func (w *writer) u64(v uint64) {
	binary.BigEndian.PutUint64(w.buf[w.off:], v)
	w.off += u64Size
}

func (w *writer) address(a Address) {
	w.off += copy(w.buf[w.off:], a[:])
}

func (w *writer) bytes(b []byte) {
	w.off += copy(w.buf[w.off:], b)
}

func (w *writer) finish() ([]byte, error) {
	if w.off != len(w.buf) {
		return nil, fmt.Errorf("protocol: wrote %d of %d pre-sized bytes", w.off, len(w.buf))
	}
	return w.buf, nil
}

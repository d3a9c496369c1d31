package dns

import (
	"encoding/binary"
	"fmt"
)

// reader is a bounds-checked cursor over an immutable byte slice.
// Every read either returns the requested bytes and advances, or returns an
// ErrFormat error and leaves the position unchanged.
type reader struct {
	buf []byte
	off int
}

func newReader(b []byte) *reader {
	return &reader{buf: b}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) done() bool {
	return r.off >= len(r.buf)
}

func (r *reader) readByte(what string) (byte, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("%w: unexpected EOF while reading %s at offset %d", ErrFormat, what, r.off)
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// readBytes returns a sub-slice of the underlying buffer, not a copy.
func (r *reader) readBytes(n int, what string) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("%w: unexpected EOF while reading %s: need %d bytes at offset %d, have %d",
			ErrFormat, what, n, r.off, r.remaining())
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readUint16(what string) (uint16, error) {
	b, err := r.readBytes(2, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

package dns

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Labels is a decoded domain name: one byte slice per label, in wire order.
// The slices alias the buffer they were decoded from.
type Labels [][]byte

// DecodeLabels decodes a label sequence from the start of b (RFC 1035 Section 3.1).
//
// Each label is a length byte followed by that many bytes; a zero length
// terminates the name. It returns the labels and the number of bytes
// consumed, terminator included.
//
// Compression pointers are not recognised. A length byte with the two high
// bits set is taken as a literal length, which usually runs past the end of
// the buffer and fails with ErrFormat.
//
// Label bytes are not validated here; see Labels.Text.
func DecodeLabels(b []byte) (Labels, int, error) {
	r := newReader(b)
	labels, err := readLabels(r)
	if err != nil {
		return nil, 0, err
	}
	return labels, r.off, nil
}

func readLabels(r *reader) (Labels, error) {
	// Pre-allocate for typical domain depth (e.g., www.example.com = 3 labels)
	labels := make(Labels, 0, 4)
	for {
		n, err := r.readByte("label length")
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return labels, nil
		}
		label, err := r.readBytes(int(n), "label")
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
}

// Text joins the labels with dots and lowercases the result.
//
// It fails with ErrEncoding if the joined bytes are not valid UTF-8.
// The root name (no labels) yields the empty string.
func (l Labels) Text() (string, error) {
	if len(l) == 0 {
		return "", nil
	}
	// Pre-calculate size to minimize Builder allocations
	size := len(l) - 1
	for _, label := range l {
		size += len(label)
	}
	var b strings.Builder
	b.Grow(size)
	for i, label := range l {
		if i > 0 {
			b.WriteByte('.')
		}
		b.Write(label)
	}
	s := b.String()
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: domain name contains invalid utf-8", ErrEncoding)
	}
	return strings.ToLower(s), nil
}

// Wire re-encodes the labels as a length-prefixed sequence with terminator.
// Labels longer than 255 bytes cannot be represented and are rejected.
func (l Labels) Wire() ([]byte, error) {
	size := 1
	for _, label := range l {
		size += 1 + len(label)
	}
	out := make([]byte, 0, size)
	for _, label := range l {
		if len(label) == 0 || len(label) > 0xFF {
			return nil, fmt.Errorf("%w: label length %d out of range", ErrFormat, len(label))
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return append(out, 0), nil
}

// EncodeName encodes a dotted domain name to wire format.
//
// Example: "www.example.com" encodes as:
//
//	[3]www[7]example[3]com[0]
//
// A trailing dot is accepted; "" and "." encode the root name. Empty labels
// (as in "a..b") and labels longer than 63 bytes are rejected.
func EncodeName(domain string) ([]byte, error) {
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return []byte{0}, nil
	}
	parts := strings.Split(domain, ".")
	labels := make(Labels, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: invalid domain name (empty label): %q", ErrFormat, domain)
		}
		if len(p) > 63 {
			return nil, fmt.Errorf("%w: DNS label too long (%d > 63): %q", ErrFormat, len(p), p)
		}
		labels = append(labels, []byte(p))
	}
	return labels.Wire()
}

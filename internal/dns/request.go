package dns

import (
	"fmt"
	"math"
)

// Request is a decoded inbound query: a header plus its question list.
//
// The original datagram is retained so it can be forwarded unchanged.
type Request struct {
	Header    Header
	Questions []Question

	raw []byte
}

// ParseRequest decodes a query datagram.
//
// Any failure in the header or question section aborts the whole decode;
// no partial request is returned.
func ParseRequest(msg []byte) (*Request, error) {
	if len(msg) < HeaderSize {
		return nil, fmt.Errorf("%w: %w: request has %d bytes, need at least %d",
			ErrFormat, ErrInvalidHeaderSize, len(msg), HeaderSize)
	}
	h, err := ParseHeader(msg[:HeaderSize])
	if err != nil {
		return nil, err
	}
	qs, err := ParseQuestions(msg[HeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("request %#04x: %w", h.ID, err)
	}
	return &Request{Header: h, Questions: qs, raw: msg}, nil
}

// Bytes returns the wire bytes the request was decoded from.
// Callers must not modify the returned slice.
func (r *Request) Bytes() []byte {
	return r.raw
}

// Marshal serializes the request from its fields: the header with QDCOUNT
// set to the number of questions, followed by the questions.
func (r *Request) Marshal() ([]byte, error) {
	if len(r.Questions) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: too many questions (%d)", ErrFormat, len(r.Questions))
	}
	h := r.Header
	h.QDCount = uint16(len(r.Questions))

	// Estimate capacity: header(12) + question(~32)
	out := make([]byte, 0, HeaderSize+len(r.Questions)*32)
	out, err := h.AppendTo(out)
	if err != nil {
		return nil, err
	}
	for _, q := range r.Questions {
		qb, err := q.Marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, qb...)
	}
	return out, nil
}

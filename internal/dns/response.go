package dns

import "fmt"

// Response is a reply to be written back to a client.
//
// It is either synthesized from a header alone, in which case Marshal writes
// just the 12 header bytes, or decoded from an upstream reply, in which case
// Marshal returns the upstream bytes verbatim. Passthrough keeps the answer,
// authority and additional sections intact even though they are never parsed.
type Response struct {
	Header Header

	raw []byte
}

// NewResponse builds a synthesized response with no body.
func NewResponse(h Header) *Response {
	return &Response{Header: h}
}

// ParseResponse decodes the header of an upstream reply and retains the
// whole message for passthrough. Sections after the header are not parsed.
func ParseResponse(msg []byte) (*Response, error) {
	if len(msg) < HeaderSize {
		return nil, fmt.Errorf("%w: %w: response has %d bytes, need at least %d",
			ErrFormat, ErrInvalidHeaderSize, len(msg), HeaderSize)
	}
	h, err := ParseHeader(msg[:HeaderSize])
	if err != nil {
		return nil, err
	}
	return &Response{Header: h, raw: msg}, nil
}

// IsPassthrough reports whether the response carries raw upstream bytes.
func (r *Response) IsPassthrough() bool {
	return r.raw != nil
}

// Marshal returns the wire form of the response.
func (r *Response) Marshal() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	return r.Header.Marshal()
}

// ServerFailure builds the reply sent when a request could not be forwarded.
//
// ID, opcode and the AA flag are copied from the request so the client can
// correlate the reply. Everything else is cleared and all counts are zero.
func ServerFailure(req Header) *Response {
	return NewResponse(Header{
		ID:            req.ID,
		Type:          MessageReply,
		Opcode:        req.Opcode,
		Authoritative: req.Authoritative,
		RCode:         RCodeServFail,
	})
}

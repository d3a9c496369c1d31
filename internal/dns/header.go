package dns

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of a DNS header in bytes.
const HeaderSize = 12

// Header represents a DNS message header (RFC 1035 Section 4.1.1).
//
// The flags word is kept decoded. The reserved Z bits are not represented,
// so they decode as unset and are written as zero.
//
// QDCount is informational: it is never checked against the number of
// questions actually parsed.
type Header struct {
	ID uint16 // Transaction ID, echoed unchanged from request to reply

	Type               MessageType
	Opcode             Opcode
	Authoritative      bool
	Truncated          bool
	RecursionDesired   bool
	RecursionAvailable bool
	RCode              ResponseCode

	QDCount uint16 // Question count
	ANCount uint16 // Answer count
	NSCount uint16 // Authority (nameserver) count
	ARCount uint16 // Additional records count
}

// ParseHeader decodes a header from exactly HeaderSize bytes.
func ParseHeader(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, fmt.Errorf("%w: %w: header must be %d bytes, got %d",
			ErrFormat, ErrInvalidHeaderSize, HeaderSize, len(b))
	}
	flags := binary.BigEndian.Uint16(b[2:4])
	return Header{
		ID:                 binary.BigEndian.Uint16(b[0:2]),
		Type:               messageTypeFromFlags(flags),
		Opcode:             opcodeFromFlags(flags),
		Authoritative:      flags&AAFlag != 0,
		Truncated:          flags&TCFlag != 0,
		RecursionDesired:   flags&RDFlag != 0,
		RecursionAvailable: flags&RAFlag != 0,
		RCode:              RCodeFromFlags(flags),
		QDCount:            binary.BigEndian.Uint16(b[4:6]),
		ANCount:            binary.BigEndian.Uint16(b[6:8]),
		NSCount:            binary.BigEndian.Uint16(b[8:10]),
		ARCount:            binary.BigEndian.Uint16(b[10:12]),
	}, nil
}

// Flags rebuilds the 16-bit flags word by OR-ing each field's contribution.
func (h Header) Flags() uint16 {
	flags := h.Type.mask() | h.Opcode.mask() | h.RCode.mask()
	if h.Authoritative {
		flags |= AAFlag
	}
	if h.Truncated {
		flags |= TCFlag
	}
	if h.RecursionDesired {
		flags |= RDFlag
	}
	if h.RecursionAvailable {
		flags |= RAFlag
	}
	return flags
}

// AppendTo writes the header to out, which must be empty: the header is
// always the first thing in a message.
func (h Header) AppendTo(out []byte) ([]byte, error) {
	if len(out) != 0 {
		return out, fmt.Errorf("%w: header must start the message, buffer already holds %d bytes", ErrFormat, len(out))
	}
	out = binary.BigEndian.AppendUint16(out, h.ID)
	out = binary.BigEndian.AppendUint16(out, h.Flags())
	out = binary.BigEndian.AppendUint16(out, h.QDCount)
	out = binary.BigEndian.AppendUint16(out, h.ANCount)
	out = binary.BigEndian.AppendUint16(out, h.NSCount)
	out = binary.BigEndian.AppendUint16(out, h.ARCount)
	return out, nil
}

// Marshal serializes the header to wire format (big-endian, 12 bytes).
func (h Header) Marshal() ([]byte, error) {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// IsQuery returns true if this is a query (QR=0).
func (h Header) IsQuery() bool {
	return h.Type == MessageQuery
}

// IsResponse returns true if this is a response (QR=1).
func (h Header) IsResponse() bool {
	return h.Type == MessageReply
}

package dns

import (
	"fmt"
	"strconv"
)

// DNS header flags and masks (RFC 1035 Section 4.1.1)
//
// The DNS header contains a 16-bit flags field with the following layout:
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA|   Z    |   RCODE   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	 15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
//
// The three Z bits (6-4) are reserved. They are ignored on decode and always
// written as zero.
const (
	QRFlag     uint16 = 0x8000 // Query/Response: 1 = response, 0 = query
	OpcodeMask uint16 = 0x7800 // Bits 14-11: operation type (use >> 11 to extract)
	AAFlag     uint16 = 0x0400 // Authoritative Answer
	TCFlag     uint16 = 0x0200 // Truncation
	RDFlag     uint16 = 0x0100 // Recursion Desired
	RAFlag     uint16 = 0x0080 // Recursion Available
	ZMask      uint16 = 0x0070 // Reserved
	RCodeMask  uint16 = 0x000F // Bits 3-0: response code
)

const opcodeShift = 11

// MessageType is the QR bit of the header.
type MessageType uint8

const (
	MessageQuery MessageType = iota
	MessageReply
)

func (m MessageType) String() string {
	if m == MessageReply {
		return "reply"
	}
	return "query"
}

func messageTypeFromFlags(flags uint16) MessageType {
	if flags&QRFlag != 0 {
		return MessageReply
	}
	return MessageQuery
}

func (m MessageType) mask() uint16 {
	if m == MessageReply {
		return QRFlag
	}
	return 0
}

// Opcode is the kind of query carried in the header.
//
// Only QUERY, IQUERY and STATUS are modelled. Every other wire value,
// including the ones assigned after RFC 1035, decodes as OpcodeQuery.
type Opcode uint8

const (
	OpcodeQuery  Opcode = 0
	OpcodeIQuery Opcode = 1
	OpcodeStatus Opcode = 2
)

func (o Opcode) String() string {
	switch o {
	case OpcodeIQuery:
		return "IQUERY"
	case OpcodeStatus:
		return "STATUS"
	default:
		return "QUERY"
	}
}

func opcodeFromFlags(flags uint16) Opcode {
	switch (flags & OpcodeMask) >> opcodeShift {
	case 1:
		return OpcodeIQuery
	case 2:
		return OpcodeStatus
	default:
		return OpcodeQuery
	}
}

func (o Opcode) mask() uint16 {
	switch o {
	case OpcodeIQuery, OpcodeStatus:
		return uint16(o) << opcodeShift
	default:
		return 0
	}
}

// ResponseCode represents DNS response codes (RFC 1035).
//
// Wire values 6 through 15 all decode as RCodeUnknown, which always encodes
// back to 15.
type ResponseCode uint8

const (
	RCodeNoError  ResponseCode = 0 // No error
	RCodeFormErr  ResponseCode = 1 // Format error: query malformed
	RCodeServFail ResponseCode = 2 // Server failure
	RCodeNXDomain ResponseCode = 3 // Non-existent domain
	RCodeNotImp   ResponseCode = 4 // Not implemented
	RCodeRefused  ResponseCode = 5 // Query refused by policy
	RCodeUnknown  ResponseCode = 15
)

func (r ResponseCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImp:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	default:
		return "UNKNOWN"
	}
}

// RCodeFromFlags extracts the response code from the DNS header flags.
func RCodeFromFlags(flags uint16) ResponseCode {
	rc := flags & RCodeMask
	if rc > uint16(RCodeRefused) {
		return RCodeUnknown
	}
	return ResponseCode(rc)
}

func (r ResponseCode) mask() uint16 {
	if r > RCodeRefused {
		return uint16(RCodeUnknown)
	}
	return uint16(r)
}

// RecordType represents the DNS resource record types the relay understands.
//
// The set is closed: ParseRecordType rejects every other code, so a value of
// this type is always one of the constants below.
type RecordType uint16

const (
	TypeA     RecordType = 1  // IPv4 address
	TypeNS    RecordType = 2  // Authoritative name server
	TypeCNAME RecordType = 5  // Canonical name (alias)
	TypeSOA   RecordType = 6  // Start of Authority
	TypeMX    RecordType = 15 // Mail exchange
	TypeTXT   RecordType = 16 // Text strings
	TypeAAAA  RecordType = 28 // IPv6 address (RFC 3596)
	TypeSRV   RecordType = 33 // Service locator (RFC 2782)
)

var recordTypeNames = map[RecordType]string{
	TypeA:     "A",
	TypeNS:    "NS",
	TypeCNAME: "CNAME",
	TypeSOA:   "SOA",
	TypeMX:    "MX",
	TypeTXT:   "TXT",
	TypeAAAA:  "AAAA",
	TypeSRV:   "SRV",
}

// ParseRecordType maps a wire code to a RecordType.
func ParseRecordType(code uint16) (RecordType, error) {
	t := RecordType(code)
	if _, ok := recordTypeNames[t]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRecordType, code)
	}
	return t, nil
}

// Code returns the 16-bit wire code.
func (t RecordType) Code() uint16 {
	return uint16(t)
}

func (t RecordType) String() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return "TYPE" + strconv.Itoa(int(t))
}

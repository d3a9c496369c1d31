// Package dns provides the DNS wire codec used by the relay.
//
// Standards Compliance:
//
// The codec covers the subset of RFC 1035 needed to relay queries:
//
//   - Section 4.1.1: the fixed 12-byte header and its flags word
//   - Section 4.1.2: the question section (name, type, class)
//   - Section 3.1: label-sequence domain names
//
// Answer, authority and additional sections are never parsed. Replies from
// the upstream resolver are carried as raw bytes and relayed unmodified.
// Compression pointers are not followed: a pointer byte is read as a plain
// label length.
//
// Error Handling:
//
// Every failure wraps one of the sentinel errors below with context using
// fmt.Errorf("...: %w", err). Callers classify failures with errors.Is.
package dns

import "errors"

var (
	// ErrFormat reports malformed header or question bytes, including
	// truncation in the middle of a field.
	ErrFormat = errors.New("dns format error")

	// ErrInvalidHeaderSize reports fewer than HeaderSize bytes handed to a
	// header or message decode. It is always accompanied by ErrFormat.
	ErrInvalidHeaderSize = errors.New("invalid dns header size")

	// ErrUnknownRecordType reports a record type code outside the supported set.
	ErrUnknownRecordType = errors.New("unknown dns record type")

	// ErrEncoding reports a domain label that is not valid UTF-8 text.
	ErrEncoding = errors.New("dns name encoding error")

	// ErrNetwork reports a socket bind, send or receive failure.
	ErrNetwork = errors.New("dns network error")

	// ErrTimeout reports an upstream exchange that did not complete in time.
	// It is always accompanied by ErrNetwork.
	ErrTimeout = errors.New("dns upstream timeout")
)

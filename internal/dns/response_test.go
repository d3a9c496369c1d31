package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_Passthrough(t *testing.T) {
	msg := []byte{
		0x12, 0x34, 0x81, 0x80, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x01, 'a', 0x00, 0x00, 0x01, 0x00, 0x01, // question
		0xC0, 0x0C, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x3C, 0x00, 0x04, 1, 2, 3, 4, // answer
	}

	resp, err := ParseResponse(msg)
	require.NoError(t, err)
	assert.True(t, resp.IsPassthrough())
	assert.Equal(t, uint16(0x1234), resp.Header.ID)
	assert.Equal(t, MessageReply, resp.Header.Type)
	assert.Equal(t, uint16(1), resp.Header.ANCount)

	b, err := resp.Marshal()
	require.NoError(t, err)
	assert.Equal(t, msg, b, "passthrough must relay bytes unmodified")
}

func TestParseResponse_TooShort(t *testing.T) {
	_, err := ParseResponse([]byte{0x12, 0x34, 0x81})
	assert.ErrorIs(t, err, ErrInvalidHeaderSize)
}

func TestParseResponse_HeaderOnly(t *testing.T) {
	msg := []byte{0x00, 0x07, 0x81, 0x83, 0, 0, 0, 0, 0, 0, 0, 0}

	resp, err := ParseResponse(msg)
	require.NoError(t, err)
	assert.Equal(t, RCodeNXDomain, resp.Header.RCode)
}

func TestNewResponse_Synthesized(t *testing.T) {
	resp := NewResponse(Header{ID: 0x0102, Type: MessageReply, RCode: RCodeRefused, ANCount: 3})
	assert.False(t, resp.IsPassthrough())

	b, err := resp.Marshal()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x80, 0x05, 0, 0, 0, 3, 0, 0, 0, 0}, b)
}

func TestServerFailure(t *testing.T) {
	req := Header{
		ID:                 0xCAFE,
		Opcode:             OpcodeStatus,
		Authoritative:      true,
		Truncated:          true,
		RecursionDesired:   true,
		RecursionAvailable: true,
		QDCount:            1,
		ANCount:            2,
		NSCount:            3,
		ARCount:            4,
	}

	resp := ServerFailure(req)
	h := resp.Header
	assert.Equal(t, uint16(0xCAFE), h.ID)
	assert.Equal(t, OpcodeStatus, h.Opcode)
	assert.True(t, h.Authoritative)
	assert.Equal(t, MessageReply, h.Type)
	assert.False(t, h.Truncated)
	assert.False(t, h.RecursionDesired)
	assert.False(t, h.RecursionAvailable)
	assert.Equal(t, RCodeServFail, h.RCode)
	assert.Zero(t, h.QDCount)
	assert.Zero(t, h.ANCount)
	assert.Zero(t, h.NSCount)
	assert.Zero(t, h.ARCount)

	b, err := resp.Marshal()
	require.NoError(t, err)
	assert.Len(t, b, HeaderSize)
	assert.Equal(t, []byte{0xCA, 0xFE, 0x94, 0x02}, b[:4])
}

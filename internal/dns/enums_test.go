package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordType_Supported(t *testing.T) {
	tests := []struct {
		code uint16
		want RecordType
		name string
	}{
		{1, TypeA, "A"},
		{2, TypeNS, "NS"},
		{5, TypeCNAME, "CNAME"},
		{6, TypeSOA, "SOA"},
		{15, TypeMX, "MX"},
		{16, TypeTXT, "TXT"},
		{28, TypeAAAA, "AAAA"},
		{33, TypeSRV, "SRV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecordType(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.code, got.Code())
			assert.Equal(t, tt.name, got.String())
		})
	}
}

func TestParseRecordType_Unsupported(t *testing.T) {
	for _, code := range []uint16{0, 3, 4, 12, 41, 255, 0xFFFF} {
		_, err := ParseRecordType(code)
		assert.ErrorIs(t, err, ErrUnknownRecordType, "code %d", code)
	}
}

func TestRCodeFromFlags(t *testing.T) {
	assert.Equal(t, RCodeNoError, RCodeFromFlags(0x8000))
	assert.Equal(t, RCodeServFail, RCodeFromFlags(0x8182))
	assert.Equal(t, RCodeRefused, RCodeFromFlags(0x0005))
	assert.Equal(t, RCodeUnknown, RCodeFromFlags(0x0006))
	assert.Equal(t, RCodeUnknown, RCodeFromFlags(0x000F))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "SERVFAIL", RCodeServFail.String())
	assert.Equal(t, "UNKNOWN", RCodeUnknown.String())
	assert.Equal(t, "IQUERY", OpcodeIQuery.String())
	assert.Equal(t, "QUERY", OpcodeQuery.String())
	assert.Equal(t, "reply", MessageReply.String())
	assert.Equal(t, "TYPE3", RecordType(3).String())
}

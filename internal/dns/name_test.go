package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLabels(t *testing.T) {
	b := []byte{0x03, 'A', 'A', 'A', 0x02, 'B', 'B', 0x00}

	labels, n, err := DecodeLabels(b)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	require.Len(t, labels, 2)
	assert.Equal(t, []byte("AAA"), labels[0])
	assert.Equal(t, []byte("BB"), labels[1])

	s, err := labels.Text()
	require.NoError(t, err)
	assert.Equal(t, "aaa.bb", s)
}

func TestDecodeLabels_TrailingData(t *testing.T) {
	b := []byte{0x03, 'A', 'A', 'A', 0x02, 'B', 'B', 0x00, 0x01, 0x02, 0x03, 0x04}

	labels, n, err := DecodeLabels(b)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Len(t, labels, 2)
}

func TestDecodeLabels_Root(t *testing.T) {
	labels, n, err := DecodeLabels([]byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, labels)

	s, err := labels.Text()
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestDecodeLabels_Truncated(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
	}{
		{"empty", nil},
		{"label overruns buffer", []byte{0x05, 'a', 'b'}},
		{"missing terminator", []byte{0x01, 'a'}},
		{"compression pointer read as length", []byte{0xC0, 0x0C}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeLabels(tt.b)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestLabelsText_InvalidUTF8(t *testing.T) {
	b := []byte{0x03, 'A', 0x80, 'A', 0x00}

	labels, n, err := DecodeLabels(b)
	require.NoError(t, err, "decoding does not validate text")
	assert.Equal(t, 5, n)

	_, err = labels.Text()
	assert.ErrorIs(t, err, ErrEncoding)

	// The raw bytes survive re-encoding as long as they are never stringified.
	wire, err := labels.Wire()
	require.NoError(t, err)
	assert.Equal(t, b, wire)
}

func TestLabelsText_Lowercases(t *testing.T) {
	labels := Labels{[]byte("WWW"), []byte("Example"), []byte("COM")}
	s, err := labels.Text()
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", s)
}

func TestEncodeName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"simple", "example.com", []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}, false},
		{"trailing dot", "a.b.", []byte{1, 'a', 1, 'b', 0}, false},
		{"root", ".", []byte{0}, false},
		{"empty", "", []byte{0}, false},
		{"empty label", "a..b", nil, true},
		{"label too long", string(make([]byte, 64)) + ".com", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeName(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeName_DecodesBack(t *testing.T) {
	b, err := EncodeName("Mail.Example.ORG")
	require.NoError(t, err)

	labels, n, err := DecodeLabels(b)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)

	s, err := labels.Text()
	require.NoError(t, err)
	assert.Equal(t, "mail.example.org", s)
}

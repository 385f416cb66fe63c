package textcodec

import (
	"io"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"golang.org/x/text/transform"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "nil input",
			input:    nil,
			expected: "",
		},
		{
			name:     "player name",
			input:    []byte{0x91, 0x84, 0x83},
			expected: "RED",
		},
		{
			name:     "ligature expands to multiple characters",
			input:    []byte{0x54, 0x8C, 0x8E, 0x8D},
			expected: "POKéMON",
		},
		{
			name:     "empty fragment decodes to nothing",
			input:    []byte{0x80, 0x4F, 0x81},
			expected: "AB",
		},
		{
			name:     "unmapped codes become placeholders",
			input:    []byte{0x00, 0x91, 0x50},
			expected: " R ",
		},
		{
			name:     "digits and punctuation",
			input:    []byte{0xF7, 0xF6, 0xE7, 0xE6},
			expected: "10!?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Default.Decode(tt.input))
		})
	}
}

func TestDecodeTotal(t *testing.T) {
	for code := 0; code < 256; code++ {
		input := []byte{byte(code)}
		first := Default.Decode(input)
		second := Default.Decode(input)
		assert.Equal(t, first, second)

		fragment, mapped := Default.Fragment(byte(code))
		assert.Equal(t, fragment, first)
		if !mapped {
			assert.Equal(t, Placeholder, first)
		}
	}
}

func TestDecodeNotInjective(t *testing.T) {
	assert.Equal(t, Default.Decode([]byte{0xB7}), Default.Decode([]byte{0xF1}))
}

func TestNewCustomTable(t *testing.T) {
	codec := New(map[byte]string{
		0x01: "hello",
		0x02: "",
	})

	assert.Equal(t, "hello hello", codec.Decode([]byte{0x01, 0x02, 0x03, 0x01}))

	_, mapped := codec.Fragment(0x02)
	assert.True(t, mapped)
	_, mapped = codec.Fragment(0x03)
	assert.False(t, mapped)
}

func TestDecoderMatchesDecode(t *testing.T) {
	input := make([]byte, 0, 512)
	for code := 0; code < 256; code++ {
		input = append(input, byte(code), 0x54)
	}

	expected := Default.Decode(input)

	decoded, err := Default.NewDecoder().Bytes(input)
	assert.NoError(t, err)
	assert.Equal(t, expected, string(decoded))

	reader := transform.NewReader(strings.NewReader(string(input)), Default.NewDecoder())
	streamed, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, expected, string(streamed))
}

func TestDecoderShortDestination(t *testing.T) {
	dec := &decoder{codec: Default}
	dst := make([]byte, 3)

	// "POKé" is 5 bytes and must not be split
	nDst, nSrc, err := dec.Transform(dst, []byte{0x80, 0x54}, true)
	assert.Equal(t, transform.ErrShortDst, err)
	assert.Equal(t, 1, nDst)
	assert.Equal(t, 1, nSrc)
	assert.Equal(t, "A", string(dst[:nDst]))
}

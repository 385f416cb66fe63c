// Package textcodec decodes the proprietary single byte character encoding
// used for in-game text.
package textcodec

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Placeholder is substituted for every byte code that has no table entry.
const Placeholder = " "

// Codec maps single byte codes to display string fragments.
// The mapping is not injective, decoded text can not be converted back.
// A Codec is immutable after creation and safe for concurrent use.
type Codec struct {
	fragments [256]string
	mapped    [256]bool
}

// New returns a codec for the given code to fragment entries.
// Entries may map to the empty string, these codes decode to nothing.
func New(entries map[byte]string) *Codec {
	c := &Codec{}
	for code, fragment := range entries {
		if !utf8.ValidString(fragment) {
			fragment = strings.ToValidUTF8(fragment, Placeholder)
		}
		c.fragments[code] = fragment
		c.mapped[code] = true
	}
	return c
}

// Fragment returns the fragment for the code and whether the code is mapped.
// Unmapped codes return the placeholder.
func (c *Codec) Fragment(code byte) (string, bool) {
	if !c.mapped[code] {
		return Placeholder, false
	}
	return c.fragments[code], true
}

// Decode converts a run of raw bytes to its display string.
func (c *Codec) Decode(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for _, code := range b {
		fragment, _ := c.Fragment(code)
		sb.WriteString(fragment)
	}
	return sb.String()
}

// NewDecoder returns a decoder that applies the codec to byte streams.
func (c *Codec) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &decoder{codec: c}}
}

type decoder struct {
	transform.NopResetter
	codec *Codec
}

// Transform writes whole fragments only, a fragment that does not fit into
// dst is left for the next call.
func (d *decoder) Transform(dst, src []byte, _ bool) (int, int, error) {
	var nDst, nSrc int
	for nSrc < len(src) {
		fragment, _ := d.codec.Fragment(src[nSrc])
		if nDst+len(fragment) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], fragment)
		nSrc++
	}
	return nDst, nSrc, nil
}

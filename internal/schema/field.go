package schema

import "fmt"

// Kind defines how the bytes of a field are interpreted.
type Kind uint8

// field kinds.
const (
	InvalidKind Kind = iota
	FixedIntKind     // big-endian unsigned integer of 1 to 4 bytes
	RawBufferKind    // opaque byte run
	TextKind         // byte run decoded through the text codec
)

func (k Kind) String() string {
	switch k {
	case FixedIntKind:
		return "int"
	case RawBufferKind:
		return "buffer"
	case TextKind:
		return "text"
	default:
		return "invalid"
	}
}

// Type is the type tag of a field.
type Type struct {
	Kind Kind
	Len  uint32 // integer width or byte run length
}

// FixedInt returns the type of a big-endian unsigned integer field.
// Width 3 is used for 24-bit money and experience counters.
func FixedInt(width uint32) Type {
	return Type{Kind: FixedIntKind, Len: width}
}

// RawBuffer returns the type of an opaque byte run of the given length.
func RawBuffer(length uint32) Type {
	return Type{Kind: RawBufferKind, Len: length}
}

// Text returns the type of an encoded text field that consumes length bytes.
func Text(length uint32) Type {
	return Type{Kind: TextKind, Len: length}
}

// ByteLength returns the number of bytes the field consumes.
func (t Type) ByteLength() uint32 {
	return t.Len
}

func (t Type) String() string {
	return fmt.Sprintf("%s(%d)", t.Kind, t.Len)
}

func (t Type) validate() error {
	switch t.Kind {
	case FixedIntKind:
		if t.Len < 1 || t.Len > 4 {
			return fmt.Errorf("unsupported integer width %d", t.Len)
		}
	case RawBufferKind, TextKind:
		if t.Len == 0 {
			return fmt.Errorf("zero length %s", t.Kind)
		}
	default:
		return fmt.Errorf("unsupported field kind %d", t.Kind)
	}
	return nil
}

// Field describes one field of an entity schema.
type Field struct {
	Label  string
	Offset uint32 // relative to the entity base address
	Type   Type
}

// End returns the offset of the first byte after the field.
func (f Field) End() uint32 {
	return f.Offset + f.Type.ByteLength()
}

// U8 returns a single byte integer field.
func U8(label string, offset uint32) Field {
	return Field{Label: label, Offset: offset, Type: FixedInt(1)}
}

// U16 returns a 16-bit integer field.
func U16(label string, offset uint32) Field {
	return Field{Label: label, Offset: offset, Type: FixedInt(2)}
}

// U24 returns a 24-bit integer field.
func U24(label string, offset uint32) Field {
	return Field{Label: label, Offset: offset, Type: FixedInt(3)}
}

// U32 returns a 32-bit integer field.
func U32(label string, offset uint32) Field {
	return Field{Label: label, Offset: offset, Type: FixedInt(4)}
}

// Buffer returns a raw byte run field.
func Buffer(label string, offset, length uint32) Field {
	return Field{Label: label, Offset: offset, Type: RawBuffer(length)}
}

// String returns a text field.
func String(label string, offset, length uint32) Field {
	return Field{Label: label, Offset: offset, Type: Text(length)}
}

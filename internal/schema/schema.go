// Package schema describes record layouts in a memory region and decodes
// byte windows into typed entities.
package schema

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/retroenv/memsnap/internal/textcodec"
)

// Schema is the ordered field layout of one record kind.
// A Schema is immutable after creation and safe for concurrent use.
type Schema struct {
	name      string
	singleton bool
	fields    []Field
	index     map[string]int
	window    uint32
}

// New creates a schema. Labels have to be unique, field ranges may overlap.
func New(name string, singleton bool, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidSchema)
	}

	s := &Schema{
		name:      name,
		singleton: singleton,
		fields:    slices.Clone(fields),
		index:     make(map[string]int, len(fields)),
	}

	for i, field := range s.fields {
		if field.Label == "" {
			return nil, fmt.Errorf("%w: %s field %d has no label", ErrInvalidSchema, name, i)
		}
		if _, ok := s.index[field.Label]; ok {
			return nil, fmt.Errorf("%w: %s has duplicate field %s", ErrInvalidSchema, name, field.Label)
		}
		if err := field.Type.validate(); err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", ErrInvalidSchema, name, field.Label, err)
		}
		if end := uint64(field.Offset) + uint64(field.Type.ByteLength()); end > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %s.%s ends at 0x%X beyond the address space",
				ErrInvalidSchema, name, field.Label, end)
		}

		s.index[field.Label] = i
		s.window = max(s.window, field.End())
	}

	return s, nil
}

// MustNew is like New but panics if the schema is invalid.
// It is intended for package level schema tables.
func MustNew(name string, singleton bool, fields ...Field) *Schema {
	s, err := New(name, singleton, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the record kind name.
func (s *Schema) Name() string {
	return s.name
}

// Singleton returns whether the record exists once per process,
// as opposed to being an element of a repeated collection.
func (s *Schema) Singleton() bool {
	return s.singleton
}

// Fields returns a copy of the fields in declaration order.
func (s *Schema) Fields() []Field {
	return slices.Clone(s.fields)
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Field returns the field with the given label.
func (s *Schema) Field(label string) (Field, bool) {
	i, ok := s.index[label]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// WindowLength returns the minimum number of bytes a record of this kind
// needs, the maximum end offset over all fields.
func (s *Schema) WindowLength() uint32 {
	return s.window
}

// Decode decodes the buffer that starts at the base address of a record.
// The buffer has to be at least WindowLength bytes long, a shorter buffer
// returns a BoundsError and no entity. A nil codec uses textcodec.Default.
// The returned entity does not reference the buffer.
func (s *Schema) Decode(buf []byte, codec *textcodec.Codec) (*Entity, error) {
	if uint64(len(buf)) < uint64(s.window) {
		return nil, &BoundsError{
			Schema: s.name,
			Need:   s.window,
			Have:   uint32(len(buf)),
		}
	}
	if codec == nil {
		codec = textcodec.Default
	}

	values := make([]Value, len(s.fields))
	for i, field := range s.fields {
		data := buf[field.Offset:field.End()]
		values[i] = decodeValue(field.Type, data, codec)
	}

	return &Entity{
		schema: s,
		values: values,
	}, nil
}

func decodeValue(typ Type, data []byte, codec *textcodec.Codec) Value {
	switch typ.Kind {
	case FixedIntKind:
		return Value{kind: FixedIntKind, num: decodeUint(data)}
	case RawBufferKind:
		return Value{kind: RawBufferKind, raw: slices.Clone(data)}
	case TextKind:
		return Value{kind: TextKind, text: codec.Decode(data)}
	default:
		return Value{}
	}
}

// decodeUint interprets data as big-endian unsigned integer.
func decodeUint(data []byte) uint64 {
	switch len(data) {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(data))
	case 3:
		return uint64(data[0])<<16 | uint64(data[1])<<8 | uint64(data[2])
	case 4:
		return uint64(binary.BigEndian.Uint32(data))
	default:
		var v uint64
		for _, b := range data {
			v = v<<8 | uint64(b)
		}
		return v
	}
}

package schema

import (
	"fmt"
	"slices"
	"strconv"
)

// Value is a decoded field value.
type Value struct {
	kind Kind
	num  uint64
	raw  []byte
	text string
}

// Kind returns the kind of the field the value was decoded from.
func (v Value) Kind() Kind {
	return v.kind
}

// Uint returns the value of an integer field.
func (v Value) Uint() uint64 {
	return v.num
}

// Bytes returns a copy of the value of a raw buffer field.
func (v Value) Bytes() []byte {
	return slices.Clone(v.raw)
}

// Text returns the value of a text field.
func (v Value) Text() string {
	return v.text
}

// Interface returns the value as uint64, []byte or string.
func (v Value) Interface() any {
	switch v.kind {
	case FixedIntKind:
		return v.num
	case RawBufferKind:
		return v.Bytes()
	case TextKind:
		return v.text
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case FixedIntKind:
		return strconv.FormatUint(v.num, 10)
	case RawBufferKind:
		return fmt.Sprintf("% X", v.raw)
	case TextKind:
		return strconv.Quote(v.text)
	default:
		return "<invalid>"
	}
}

// Entity is one decoded record. It is immutable and does not reference
// the buffer it was decoded from.
type Entity struct {
	schema *Schema
	values []Value // indexed like the schema fields
}

// Blank returns an entity with default values for every field: zero
// integers, zero filled raw buffers and empty text. It is meant for tooling
// that explicitly asks for a placeholder record, decoding never returns it.
func Blank(s *Schema) *Entity {
	values := make([]Value, len(s.fields))
	for i, field := range s.fields {
		values[i] = Value{kind: field.Type.Kind}
		if field.Type.Kind == RawBufferKind {
			values[i].raw = make([]byte, field.Type.Len)
		}
	}
	return &Entity{
		schema: s,
		values: values,
	}
}

// Schema returns the schema the entity was decoded with.
func (e *Entity) Schema() *Schema {
	return e.schema
}

// Name returns the record kind name.
func (e *Entity) Name() string {
	return e.schema.name
}

// Value returns the value of the field with the given label.
func (e *Entity) Value(label string) (Value, error) {
	i, ok := e.schema.index[label]
	if !ok {
		return Value{}, &FieldError{Schema: e.schema.name, Label: label}
	}
	return e.values[i], nil
}

// Uint returns the value of an integer field.
func (e *Entity) Uint(label string) (uint64, error) {
	v, err := e.typed(label, FixedIntKind)
	if err != nil {
		return 0, err
	}
	return v.num, nil
}

// Bytes returns a copy of the value of a raw buffer field.
func (e *Entity) Bytes(label string) ([]byte, error) {
	v, err := e.typed(label, RawBufferKind)
	if err != nil {
		return nil, err
	}
	return v.Bytes(), nil
}

// Text returns the value of a text field.
func (e *Entity) Text(label string) (string, error) {
	v, err := e.typed(label, TextKind)
	if err != nil {
		return "", err
	}
	return v.text, nil
}

func (e *Entity) typed(label string, kind Kind) (Value, error) {
	v, err := e.Value(label)
	if err != nil {
		return Value{}, err
	}
	if v.kind != kind {
		return Value{}, fmt.Errorf("%s.%s is %s, not %s", e.schema.name, label, v.kind, kind)
	}
	return v, nil
}

// Map returns all values keyed by label.
func (e *Entity) Map() map[string]any {
	m := make(map[string]any, len(e.values))
	for i, field := range e.schema.fields {
		m[field.Label] = e.values[i].Interface()
	}
	return m
}

// Each calls fn for every field in declaration order.
func (e *Entity) Each(fn func(field Field, value Value)) {
	for i, field := range e.schema.fields {
		fn(field, e.values[i])
	}
}

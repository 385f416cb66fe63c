package schema

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrOutOfBounds   = errors.New("out of bounds")
	ErrUnknownField  = errors.New("field not found")
	ErrInvalidSchema = errors.New("invalid schema")
)

// BoundsError is returned when a buffer is shorter than the window
// that is required to decode a record.
type BoundsError struct {
	Schema string
	Need   uint32
	Have   uint32
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("decoding %s: buffer of %d bytes, need %d: %s",
		e.Schema, e.Have, e.Need, ErrOutOfBounds)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// FieldError is returned when a label is requested that the schema
// does not declare.
type FieldError struct {
	Schema string
	Label  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Schema, e.Label, ErrUnknownField)
}

func (e *FieldError) Unwrap() error {
	return ErrUnknownField
}

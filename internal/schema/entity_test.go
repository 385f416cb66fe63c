package schema

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

var testSchema = MustNew("Location", true,
	U8("map_number", 0x00),
	U16("event_displacement", 0x01),
	String("sign", 0x03, 2),
	Buffer("raw", 0x05, 2),
)

func TestEntityUnknownField(t *testing.T) {
	entity, err := testSchema.Decode(make([]byte, testSchema.WindowLength()), nil)
	assert.NoError(t, err)

	_, err = entity.Value("map_numbr")
	assert.True(t, errors.Is(err, ErrUnknownField))

	var fieldErr *FieldError
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "Location", fieldErr.Schema)
	assert.Equal(t, "map_numbr", fieldErr.Label)

	_, err = entity.Uint("x_position")
	assert.True(t, errors.Is(err, ErrUnknownField))
	_, err = entity.Text("name")
	assert.True(t, errors.Is(err, ErrUnknownField))
	_, err = entity.Bytes("tiles")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestEntityKindMismatch(t *testing.T) {
	entity, err := testSchema.Decode(make([]byte, testSchema.WindowLength()), nil)
	assert.NoError(t, err)

	_, err = entity.Text("map_number")
	assert.Error(t, err, "Location.map_number is int, not text")
	assert.False(t, errors.Is(err, ErrUnknownField))

	_, err = entity.Uint("raw")
	assert.Error(t, err, "Location.raw is buffer, not int")
}

func TestEntityAllZero(t *testing.T) {
	entity, err := testSchema.Decode(make([]byte, testSchema.WindowLength()), nil)
	assert.NoError(t, err)

	mapNumber, err := entity.Uint("map_number")
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), mapNumber)

	sign, err := entity.Text("sign")
	assert.NoError(t, err)
	assert.Equal(t, "  ", sign)
}

func TestBlank(t *testing.T) {
	entity := Blank(testSchema)
	assert.Equal(t, "Location", entity.Name())

	displacement, err := entity.Uint("event_displacement")
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), displacement)

	sign, err := entity.Text("sign")
	assert.NoError(t, err)
	assert.Equal(t, "", sign)

	raw, err := entity.Bytes("raw")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, raw)
}

func TestEntityEach(t *testing.T) {
	entity, err := testSchema.Decode([]byte{0x01, 0x00, 0x02, 0x80, 0x81, 0xAA, 0xBB}, nil)
	assert.NoError(t, err)

	var labels, values []string
	entity.Each(func(field Field, value Value) {
		labels = append(labels, field.Label)
		values = append(values, value.String())
	})

	assert.Equal(t, []string{"map_number", "event_displacement", "sign", "raw"}, labels)
	assert.Equal(t, []string{"1", "2", `"AB"`, "AA BB"}, values)
}

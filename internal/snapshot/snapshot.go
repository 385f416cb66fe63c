// Package snapshot decodes a complete working memory buffer into singleton
// entities and the repeated sprite and party collections.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/retroenv/memsnap/internal/addrmap"
	"github.com/retroenv/memsnap/internal/schema"
)

// ErrUnmappedSchema is returned when a record or collection is requested
// that the layout does not declare.
var ErrUnmappedSchema = errors.New("unmapped schema")

// Snapshot is the decoded object graph of one memory buffer. It holds no
// reference to the buffer and is never modified after decoding.
type Snapshot struct {
	layout     string
	names      []string // singleton names in layout order
	singletons map[string]*schema.Entity
	sprites    []*schema.Entity
	party      []*schema.Entity
}

// Layout returns the name of the address map the snapshot was decoded with.
func (s *Snapshot) Layout() string {
	return s.layout
}

// Names returns the singleton record names in layout order.
func (s *Snapshot) Names() []string {
	return append([]string(nil), s.names...)
}

// Singleton returns the singleton entity with the given record name.
func (s *Snapshot) Singleton(name string) (*schema.Entity, error) {
	entity, ok := s.singletons[name]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", name, ErrUnmappedSchema)
	}
	return entity, nil
}

// SingletonOrBlank returns the decoded singleton for the schema name, or a
// blank entity of the given schema if the layout does not map it.
// This is an explicit opt-in for tooling that works on records whose
// address is not known yet.
func (s *Snapshot) SingletonOrBlank(sch *schema.Schema) *schema.Entity {
	if entity, ok := s.singletons[sch.Name()]; ok {
		return entity
	}
	return schema.Blank(sch)
}

// Sprites returns the sprite slots ordered by slot index.
func (s *Snapshot) Sprites() []*schema.Entity {
	return append([]*schema.Entity(nil), s.sprites...)
}

// Party returns the party member slots ordered by slot index.
func (s *Snapshot) Party() []*schema.Entity {
	return append([]*schema.Entity(nil), s.party...)
}

// Collection returns the slots of the named collection.
func (s *Snapshot) Collection(name string) ([]*schema.Entity, error) {
	switch name {
	case addrmap.Sprites:
		return s.Sprites(), nil
	case addrmap.Party:
		return s.Party(), nil
	default:
		return nil, fmt.Errorf("collection %s: %w", name, ErrUnmappedSchema)
	}
}

// Slot returns one slot of the named collection.
func (s *Snapshot) Slot(collection string, index int) (*schema.Entity, error) {
	var slots []*schema.Entity
	switch collection {
	case addrmap.Sprites:
		slots = s.sprites
	case addrmap.Party:
		slots = s.party
	default:
		return nil, fmt.Errorf("collection %s: %w", collection, ErrUnmappedSchema)
	}

	if index < 0 || index >= len(slots) {
		return nil, fmt.Errorf("collection %s slot %d of %d: %w",
			collection, index, len(slots), schema.ErrOutOfBounds)
	}
	return slots[index], nil
}

// Field returns a field value of a singleton record.
func (s *Snapshot) Field(record, label string) (schema.Value, error) {
	entity, err := s.Singleton(record)
	if err != nil {
		return schema.Value{}, err
	}
	return entity.Value(label)
}

// SlotField returns a field value of one collection slot.
func (s *Snapshot) SlotField(collection string, index int, label string) (schema.Value, error) {
	entity, err := s.Slot(collection, index)
	if err != nil {
		return schema.Value{}, err
	}
	return entity.Value(label)
}

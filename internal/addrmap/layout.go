// Package addrmap contains the address maps that place record schemas in
// the working memory region of a game revision.
package addrmap

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/retroenv/memsnap/internal/schema"
	"github.com/retroenv/memsnap/internal/textcodec"
)

// ErrInvalidLayout is returned for address maps that can not be decoded.
var ErrInvalidLayout = errors.New("invalid layout")

// ErrUnknownLayout is returned when a layout name is not registered.
var ErrUnknownLayout = errors.New("unknown layout")

// Placement places a singleton record at an absolute address.
type Placement struct {
	Schema  *schema.Schema
	Address uint32
}

// Collection describes a fixed size array of repeated records.
type Collection struct {
	Name   string
	Schema *schema.Schema
	Base   uint32 // absolute address of slot 0
	Stride uint32 // distance between slots
	Count  int
}

// SlotAddress returns the absolute address of the slot with the given index.
func (c Collection) SlotAddress(index int) uint32 {
	return c.Base + uint32(index)*c.Stride
}

// Layout is the complete address map of a memory region. A layout can be
// swapped for a different game revision without touching the decoder.
type Layout struct {
	Name        string
	RegionStart uint32 // absolute address of the first buffer byte
	RegionSize  uint32 // size of the full memory region
	Codec       *textcodec.Codec

	Singletons []Placement
	Sprites    Collection
	Party      Collection
}

// Collections returns the repeated record collections.
func (l *Layout) Collections() []Collection {
	return []Collection{l.Sprites, l.Party}
}

// Schema returns the schema of the singleton or collection record kind with
// the given name.
func (l *Layout) Schema(name string) (*schema.Schema, bool) {
	for _, p := range l.Singletons {
		if p.Schema.Name() == name {
			return p.Schema, true
		}
	}
	for _, c := range l.Collections() {
		if c.Schema.Name() == name {
			return c.Schema, true
		}
	}
	return nil, false
}

// MinBufferLength returns the number of bytes a buffer starting at the
// region start needs to hold every declared record.
func (l *Layout) MinBufferLength() uint32 {
	var end uint32
	for _, p := range l.Singletons {
		end = max(end, p.Address+p.Schema.WindowLength())
	}
	for _, c := range l.Collections() {
		if c.Count == 0 {
			continue
		}
		end = max(end, c.SlotAddress(c.Count-1)+c.Schema.WindowLength())
	}
	if end < l.RegionStart {
		return 0
	}
	return end - l.RegionStart
}

// WithRegionStart returns a copy of the layout for buffers that start at a
// different absolute address.
func (l *Layout) WithRegionStart(start uint32) *Layout {
	rebased := *l
	rebased.Singletons = slices.Clone(l.Singletons)
	if start > l.RegionStart {
		rebased.RegionSize -= min(start-l.RegionStart, l.RegionSize)
	} else {
		rebased.RegionSize += l.RegionStart - start
	}
	rebased.RegionStart = start
	return &rebased
}

// Validate checks that every record fits into the region and that record
// names are unique.
func (l *Layout) Validate() error {
	if l.Codec == nil {
		return fmt.Errorf("%w: %s has no text codec", ErrInvalidLayout, l.Name)
	}

	names := make(map[string]struct{}, len(l.Singletons)+2)
	for _, p := range l.Singletons {
		if p.Schema == nil {
			return fmt.Errorf("%w: placement at 0x%04X has no schema", ErrInvalidLayout, p.Address)
		}
		name := p.Schema.Name()
		if _, ok := names[name]; ok {
			return fmt.Errorf("%w: duplicate record %s", ErrInvalidLayout, name)
		}
		names[name] = struct{}{}

		if !p.Schema.Singleton() {
			return fmt.Errorf("%w: %s is placed as singleton but declared as array element", ErrInvalidLayout, name)
		}
		if err := l.checkWindow(name, p.Address, p.Schema.WindowLength()); err != nil {
			return err
		}
	}

	for _, c := range l.Collections() {
		if c.Schema == nil {
			return fmt.Errorf("%w: collection %s has no schema", ErrInvalidLayout, c.Name)
		}
		if _, ok := names[c.Name]; ok {
			return fmt.Errorf("%w: duplicate record %s", ErrInvalidLayout, c.Name)
		}
		names[c.Name] = struct{}{}

		if c.Schema.Singleton() {
			return fmt.Errorf("%w: collection %s uses singleton schema %s", ErrInvalidLayout, c.Name, c.Schema.Name())
		}
		if c.Count <= 0 {
			return fmt.Errorf("%w: collection %s has no slots", ErrInvalidLayout, c.Name)
		}
		for i := 0; i < c.Count; i++ {
			name := fmt.Sprintf("%s[%d]", c.Name, i)
			if err := l.checkWindow(name, c.SlotAddress(i), c.Schema.WindowLength()); err != nil {
				return err
			}
		}
	}

	return nil
}

func (l *Layout) checkWindow(name string, address, length uint32) error {
	if address < l.RegionStart {
		return fmt.Errorf("%w: %s at 0x%04X is before region start 0x%04X",
			ErrInvalidLayout, name, address, l.RegionStart)
	}
	if uint64(address-l.RegionStart)+uint64(length) > uint64(l.RegionSize) {
		return fmt.Errorf("%w: %s at 0x%04X with window 0x%X exceeds region end 0x%04X",
			ErrInvalidLayout, name, address, length, uint64(l.RegionStart)+uint64(l.RegionSize))
	}
	return nil
}

var registry = map[string]func() *Layout{
	"red":     RedBlue,
	"blue":    RedBlue,
	"redblue": RedBlue,
}

// Lookup returns the layout registered for the game revision name.
func Lookup(name string) (*Layout, error) {
	constructor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s (valid options: %s)", ErrUnknownLayout, name, strings.Join(Names(), ", "))
	}
	return constructor(), nil
}

// Names returns the registered layout names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

package snapshot

import (
	"fmt"

	"github.com/retroenv/memsnap/internal/addrmap"
	"github.com/retroenv/memsnap/internal/schema"
	"github.com/retroenv/retrogolib/log"
)

// RegionError is returned when a record window is not fully contained in
// the supplied buffer.
type RegionError struct {
	Record  string
	Address uint32
	Window  uint32
	Start   uint32 // region start of the buffer
	Size    int    // buffer length
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("record %s at 0x%04X with window 0x%X outside of buffer 0x%04X-0x%04X: %s",
		e.Record, e.Address, e.Window, e.Start, uint64(e.Start)+uint64(e.Size), schema.ErrOutOfBounds)
}

func (e *RegionError) Unwrap() error {
	return schema.ErrOutOfBounds
}

// Decoder decodes memory buffers using one address map.
// It holds no per buffer state and is safe for concurrent use.
type Decoder struct {
	logger *log.Logger
	layout *addrmap.Layout
}

// New returns a decoder for the layout. The layout is validated once here
// so that decoding only has to check the buffer length.
func New(layout *addrmap.Layout, logger *log.Logger) (*Decoder, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("validating layout %s: %w", layout.Name, err)
	}
	if logger == nil {
		logger = log.NewNop()
	}

	return &Decoder{
		logger: logger,
		layout: layout,
	}, nil
}

// Layout returns the address map of the decoder.
func (d *Decoder) Layout() *addrmap.Layout {
	return d.layout
}

// Decode decodes the buffer, which has to start at the region start of the
// layout. Any failing record aborts the decode and no snapshot is returned.
// The buffer can be reused once Decode returns.
func (d *Decoder) Decode(buffer []byte) (*Snapshot, error) {
	l := d.layout
	snap := &Snapshot{
		layout:     l.Name,
		names:      make([]string, 0, len(l.Singletons)),
		singletons: make(map[string]*schema.Entity, len(l.Singletons)),
	}

	for _, p := range l.Singletons {
		entity, err := d.decodeRecord(p.Schema.Name(), p.Schema, p.Address, buffer)
		if err != nil {
			return nil, err
		}
		name := p.Schema.Name()
		snap.names = append(snap.names, name)
		snap.singletons[name] = entity
	}

	var err error
	snap.sprites, err = d.decodeCollection(l.Sprites, buffer)
	if err != nil {
		return nil, err
	}
	snap.party, err = d.decodeCollection(l.Party, buffer)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("Decoded snapshot",
		log.String("layout", l.Name),
		log.Int("buffer", len(buffer)),
		log.Int("singletons", len(snap.singletons)),
		log.Int("sprites", len(snap.sprites)),
		log.Int("party", len(snap.party)))

	return snap, nil
}

func (d *Decoder) decodeCollection(c addrmap.Collection, buffer []byte) ([]*schema.Entity, error) {
	slots := make([]*schema.Entity, c.Count)
	for i := range slots {
		name := fmt.Sprintf("%s[%d]", c.Name, i)
		entity, err := d.decodeRecord(name, c.Schema, c.SlotAddress(i), buffer)
		if err != nil {
			return nil, err
		}
		slots[i] = entity
	}
	return slots, nil
}

// decodeRecord slices the record window out of the buffer and decodes it.
func (d *Decoder) decodeRecord(name string, sch *schema.Schema, address uint32, buffer []byte) (*schema.Entity, error) {
	window := sch.WindowLength()
	start := d.layout.RegionStart
	if address < start || uint64(address-start)+uint64(window) > uint64(len(buffer)) {
		return nil, &RegionError{
			Record:  name,
			Address: address,
			Window:  window,
			Start:   start,
			Size:    len(buffer),
		}
	}

	relative := address - start
	entity, err := sch.Decode(buffer[relative:relative+window], d.layout.Codec)
	if err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", name, err)
	}
	return entity, nil
}

// Decode decodes the buffer with a one-off decoder for the layout.
func Decode(layout *addrmap.Layout, buffer []byte) (*Snapshot, error) {
	d, err := New(layout, nil)
	if err != nil {
		return nil, err
	}
	return d.Decode(buffer)
}

// DecodeRegion decodes a buffer that starts at the given absolute address
// instead of the region start of the layout.
func DecodeRegion(layout *addrmap.Layout, regionStart uint32, buffer []byte) (*Snapshot, error) {
	return Decode(layout.WithRegionStart(regionStart), buffer)
}

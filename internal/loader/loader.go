// Package loader handles memory dump file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/retroenv/memsnap/internal/addrmap"
	"github.com/retroenv/retrogolib/log"
)

// ErrShortDump is returned when a dump is too small to hold every record
// of the layout.
var ErrShortDump = errors.New("dump too short")

// Loader handles loading memory dump files from disk.
type Loader struct {
	logger *log.Logger
	layout *addrmap.Layout
}

// New creates a new dump loader for the layout.
func New(logger *log.Logger, layout *addrmap.Layout) *Loader {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Loader{
		logger: logger,
		layout: layout,
	}
}

// Load reads a raw memory dump that starts at the region start of the layout.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := l.Read(file)
	if err != nil {
		return nil, fmt.Errorf("loading dump %s: %w", path, err)
	}

	l.logger.Debug("Loaded dump",
		log.String("file", path),
		log.String("size", humanize.Bytes(uint64(len(data)))))
	return data, nil
}

// Read reads a raw memory dump from the reader and checks that it covers
// every record of the layout.
func (l *Loader) Read(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dump: %w", err)
	}

	need := l.layout.MinBufferLength()
	if uint64(len(data)) < uint64(need) {
		return nil, fmt.Errorf("%w: %s of %s needed by layout %s", ErrShortDump,
			humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(need)), l.layout.Name)
	}
	if len(data) > int(l.layout.RegionSize) {
		l.logger.Warn("Dump is larger than the memory region, trailing bytes are ignored",
			log.String("size", humanize.Bytes(uint64(len(data)))),
			log.String("region", humanize.Bytes(uint64(l.layout.RegionSize))))
	}
	return data, nil
}

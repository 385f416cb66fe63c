// Package writer implements the text output of decoded snapshots.
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/retroenv/memsnap/internal/addrmap"
	"github.com/retroenv/memsnap/internal/schema"
	"github.com/retroenv/memsnap/internal/snapshot"
	"github.com/retroenv/memsnap/internal/textcodec"
	"golang.org/x/text/transform"
)

const dataBytesPerLine = 16

// AllRecords selects every singleton record and both collections.
const AllRecords = "all"

// ErrUnknownRecord is returned for a record selection that names a record
// the layout does not declare.
var ErrUnknownRecord = errors.New("unknown record")

// Options of the writer.
type Options struct {
	Records []string // record and collection names in layout spelling, nil selects all
	Text    bool     // also print raw buffers decoded as in-game text
}

// Writer prints decoded snapshots as sections of label value lines.
type Writer struct {
	codec   *textcodec.Codec
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(writer io.Writer, codec *textcodec.Codec, options Options) *Writer {
	if codec == nil {
		codec = textcodec.Default
	}
	return &Writer{
		codec:   codec,
		options: options,
		writer:  writer,
	}
}

// ParseRecords resolves a comma separated record selection against the
// layout. Names are matched case insensitively.
func ParseRecords(layout *addrmap.Layout, selection string) ([]string, error) {
	if selection == "" || strings.EqualFold(selection, AllRecords) {
		return nil, nil
	}

	known := make([]string, 0, len(layout.Singletons)+2)
	for _, p := range layout.Singletons {
		known = append(known, p.Schema.Name())
	}
	for _, c := range layout.Collections() {
		known = append(known, c.Name)
	}

	var records []string
	for _, name := range strings.Split(selection, ",") {
		if name == "" {
			continue
		}
		if strings.EqualFold(name, AllRecords) {
			return nil, nil
		}
		idx := slices.IndexFunc(known, func(s string) bool { return strings.EqualFold(s, name) })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s (valid options: %s, %s)", ErrUnknownRecord, name,
				AllRecords, strings.Join(known, ", "))
		}
		if !slices.Contains(records, known[idx]) {
			records = append(records, known[idx])
		}
	}
	return records, nil
}

// Write writes all selected records of the snapshot. The source is written
// as a comment header if it is not empty.
func (w Writer) Write(source string, snap *snapshot.Snapshot) error {
	if source != "" {
		if _, err := fmt.Fprintf(w.writer, "; %s\n", source); err != nil {
			return fmt.Errorf("writing source header: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w.writer, "; layout: %s\n\n", snap.Layout()); err != nil {
		return fmt.Errorf("writing layout header: %w", err)
	}

	for _, name := range snap.Names() {
		if !w.selected(name) {
			continue
		}
		entity, err := snap.Singleton(name)
		if err != nil {
			return err
		}
		if err := w.WriteEntity(name, entity); err != nil {
			return err
		}
	}

	for _, collection := range []string{addrmap.Sprites, addrmap.Party} {
		if !w.selected(collection) {
			continue
		}
		slots, err := snap.Collection(collection)
		if err != nil {
			return err
		}
		for i, entity := range slots {
			if err := w.WriteEntity(fmt.Sprintf("%s[%d]", collection, i), entity); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEntity writes one record section with a line per field in schema order.
func (w Writer) WriteEntity(title string, entity *schema.Entity) error {
	if _, err := fmt.Fprintf(w.writer, "[%s]\n", title); err != nil {
		return fmt.Errorf("writing section %s: %w", title, err)
	}

	width := 0
	entity.Each(func(field schema.Field, _ schema.Value) {
		width = max(width, len(field.Label))
	})

	var err error
	entity.Each(func(field schema.Field, value schema.Value) {
		if err != nil {
			return
		}
		err = w.writeValue(width, field, value)
	})
	if err != nil {
		return fmt.Errorf("writing section %s: %w", title, err)
	}

	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (w Writer) writeValue(width int, field schema.Field, value schema.Value) error {
	if value.Kind() != schema.RawBufferKind {
		_, err := fmt.Fprintf(w.writer, "%-*s = %s\n", width, field.Label, value)
		return err
	}

	data := value.Bytes()
	if len(data) <= dataBytesPerLine {
		if _, err := fmt.Fprintf(w.writer, "%-*s = %s\n", width, field.Label, value); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w.writer, "%-*s =\n", width, field.Label); err != nil {
			return err
		}
		indent := strings.Repeat(" ", width+3)
		err := BundleDataWrites(data, func(line string) error {
			_, err := fmt.Fprintf(w.writer, "%s%s\n", indent, line)
			return err
		})
		if err != nil {
			return err
		}
	}

	if !w.options.Text {
		return nil
	}
	text, err := w.decodeText(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w.writer, "%-*s ~ %q\n", width, field.Label, text)
	return err
}

// decodeText streams the buffer through the text codec decoder.
func (w Writer) decodeText(data []byte) (string, error) {
	reader := transform.NewReader(bytes.NewReader(data), w.codec.NewDecoder())
	text, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return string(text), nil
}

func (w Writer) selected(name string) bool {
	return len(w.options.Records) == 0 || slices.Contains(w.options.Records, name)
}

// BundleDataWrites bundles data bytes to dataBytesPerLine bytes per line.
func BundleDataWrites(data []byte, lineWriter func(line string) error) error {
	for i := 0; i < len(data); i += dataBytesPerLine {
		end := min(i+dataBytesPerLine, len(data))
		chunk := data[i:end:end]
		if err := lineWriter(fmt.Sprintf("% X", chunk)); err != nil {
			return fmt.Errorf("writing data line: %w", err)
		}
	}
	return nil
}

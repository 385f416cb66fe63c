package writer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/memsnap/internal/addrmap"
	"github.com/retroenv/memsnap/internal/snapshot"
	"github.com/retroenv/retrogolib/assert"
)

func testSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()

	layout := addrmap.RedBlue()
	buffer := make([]byte, layout.MinBufferLength())
	copy(buffer[0xD158-layout.RegionStart:], []byte{0x91, 0x84, 0x83})
	copy(buffer[0xD52B+7-layout.RegionStart:], []byte{0x80, 0x81, 0x82})

	snap, err := snapshot.Decode(layout, buffer)
	assert.NoError(t, err)
	return snap
}

func TestWriteSelection(t *testing.T) {
	snap := testSnapshot(t)

	var buf bytes.Buffer
	w := New(&buf, nil, Options{Records: []string{addrmap.Player, addrmap.Party}})
	assert.NoError(t, w.Write("dump.bin", snap))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "; dump.bin\n; layout: redblue\n\n[Player]\n"))
	assert.True(t, strings.Contains(output, "pokemon_in_party = 0\n"))
	assert.True(t, strings.Contains(output, `"RED`))
	assert.True(t, strings.Contains(output, "[party[0]]\n"))
	assert.True(t, strings.Contains(output, "[party[5]]\n"))
	assert.False(t, strings.Contains(output, "[sprites[0]]"))
	assert.False(t, strings.Contains(output, "[Tile]"))
}

func TestWriteAll(t *testing.T) {
	snap := testSnapshot(t)

	var buf bytes.Buffer
	assert.NoError(t, New(&buf, nil, Options{}).Write("", snap))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "; layout: redblue\n"))
	for _, name := range snap.Names() {
		assert.True(t, strings.Contains(output, "["+name+"]\n"))
	}
	assert.True(t, strings.Contains(output, "[sprites[15]]\n"))
	assert.True(t, strings.Contains(output, "[party[5]]\n"))
}

func TestWriteText(t *testing.T) {
	snap := testSnapshot(t)
	entity, err := snap.Singleton(addrmap.TilesetHeader)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, New(&buf, nil, Options{}).WriteEntity(addrmap.TilesetHeader, entity))
	assert.True(t, strings.Contains(buf.String(), "= 80 81 82\n"))
	assert.False(t, strings.Contains(buf.String(), "~"))

	buf.Reset()
	assert.NoError(t, New(&buf, nil, Options{Text: true}).WriteEntity(addrmap.TilesetHeader, entity))
	assert.True(t, strings.Contains(buf.String(), `~ "ABC"`))
}

func TestWriteLongBuffer(t *testing.T) {
	snap := testSnapshot(t)
	entity, err := snap.Singleton(addrmap.EventFlags)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, New(&buf, nil, Options{}).WriteEntity(addrmap.EventFlags, entity))

	// 31 bytes are split into a full and a partial line
	output := buf.String()
	assert.True(t, strings.Contains(output, "disappearing_sprites      =\n"))
	assert.True(t, strings.Contains(output, strings.Repeat("00 ", 15)+"00\n"))
	assert.True(t, strings.Contains(output, strings.Repeat("00 ", 14)+"00\n"))
}

func TestParseRecords(t *testing.T) {
	layout := addrmap.RedBlue()

	tests := []struct {
		name      string
		selection string
		want      []string
	}{
		{name: "empty", selection: "", want: nil},
		{name: "all", selection: "all", want: nil},
		{name: "all in list", selection: "player,ALL", want: nil},
		{name: "case insensitive", selection: "player,PARTY", want: []string{addrmap.Player, addrmap.Party}},
		{name: "duplicates", selection: "Badges,badges", want: []string{addrmap.Badges}},
		{name: "empty entries", selection: "Sprites,,", want: []string{addrmap.Sprites}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseRecords(layout, tt.selection)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, records)
		})
	}

	_, err := ParseRecords(layout, "Player,Rival")
	assert.True(t, errors.Is(err, ErrUnknownRecord))
}

func TestBundleDataWrites(t *testing.T) {
	data := make([]byte, 33)
	for i := range data {
		data[i] = byte(i)
	}

	var lines []string
	err := BundleDataWrites(data, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "00 01 02 03 04 05 06 07 08 09 0A 0B 0C 0D 0E 0F", lines[0])
	assert.Equal(t, "20", lines[2])
}

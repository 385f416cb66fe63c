package fileprocessor

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/memsnap/internal/addrmap"
	"github.com/retroenv/memsnap/internal/loader"
	"github.com/retroenv/memsnap/internal/options"
	"github.com/retroenv/memsnap/internal/writer"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func testOptions(t *testing.T) options.Program {
	t.Helper()
	return options.Program{
		Parameters: options.Parameters{
			Output: filepath.Join(t.TempDir(), "out.txt"),
			Layout: "redblue",
		},
		Flags: options.Flags{
			Records: addrmap.Player,
			Polls:   1,
			Rate:    1000,
			Timeout: 5 * time.Second,
			Workers: 2,
		},
	}
}

// writeDump writes a dump with the player name set to the given codes.
func writeDump(t *testing.T, dir, name string, playerName []byte) string {
	t.Helper()

	layout := addrmap.RedBlue()
	data := make([]byte, layout.RegionSize)
	copy(data[0xD158-layout.RegionStart:], playerName)

	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func readOutput(t *testing.T, opts options.Program) string {
	t.Helper()
	data, err := os.ReadFile(opts.Output)
	assert.NoError(t, err)
	return string(data)
}

func TestProcessFile(t *testing.T) {
	opts := testOptions(t)
	opts.Input = writeDump(t, t.TempDir(), "red.bin", []byte{0x91, 0x84, 0x83})

	assert.NoError(t, ProcessFile(context.Background(), log.NewTestLogger(t), opts))

	output := readOutput(t, opts)
	assert.True(t, strings.Contains(output, "; "+opts.Input+"\n"))
	assert.True(t, strings.Contains(output, "[Player]\n"))
	assert.True(t, strings.Contains(output, `"RED`))
	assert.False(t, strings.Contains(output, "[Badges]"))
}

func TestProcessFilesOrder(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeDump(t, dir, "a.bin", []byte{0x80}),
		writeDump(t, dir, "b.bin", []byte{0x81}),
		writeDump(t, dir, "c.bin", []byte{0x82}),
	}
	opts := testOptions(t)

	assert.NoError(t, ProcessFiles(context.Background(), log.NewTestLogger(t), opts, files))

	output := readOutput(t, opts)
	a := strings.Index(output, files[0])
	b := strings.Index(output, files[1])
	c := strings.Index(output, files[2])
	assert.True(t, a >= 0 && a < b && b < c)
}

func TestProcessFilesPartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeDump(t, dir, "good.bin", []byte{0x80})
	short := filepath.Join(dir, "short.bin")
	assert.NoError(t, os.WriteFile(short, make([]byte, 16), 0o600))
	opts := testOptions(t)

	// failing files are logged at error level, which fails a test logger
	err := ProcessFiles(context.Background(), log.NewNop(), opts, []string{short, good})
	assert.True(t, errors.Is(err, loader.ErrShortDump))

	output := readOutput(t, opts)
	assert.True(t, strings.Contains(output, good))
	assert.False(t, strings.Contains(output, short))
}

func TestProcessValidate(t *testing.T) {
	opts := testOptions(t)
	opts.Validate = true
	opts.Input = writeDump(t, t.TempDir(), "red.bin", nil)

	assert.NoError(t, ProcessFile(context.Background(), log.NewTestLogger(t), opts))
	assert.Equal(t, "", readOutput(t, opts))
}

func TestProcessUnknownRecord(t *testing.T) {
	opts := testOptions(t)
	opts.Records = "Rival"
	opts.Input = writeDump(t, t.TempDir(), "red.bin", nil)

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts)
	assert.True(t, errors.Is(err, writer.ErrUnknownRecord))
}

func TestProcessLive(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	layout := addrmap.RedBlue()
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		command := make([]byte, len("dump_wram"))
		dump := make([]byte, layout.RegionSize)
		copy(dump[0xD158-layout.RegionStart:], []byte{0x91, 0x84, 0x83})
		for {
			if _, err := io.ReadFull(conn, command); err != nil {
				return
			}
			if _, err := conn.Write(dump); err != nil {
				return
			}
		}
	}()

	opts := testOptions(t)
	opts.Emulator = listener.Addr().String()
	opts.Polls = 2

	assert.NoError(t, ProcessLive(context.Background(), log.NewTestLogger(t), opts))

	output := readOutput(t, opts)
	assert.True(t, strings.Contains(output, "poll 0"))
	assert.True(t, strings.Contains(output, "poll 1"))
	assert.Equal(t, 2, strings.Count(output, "[Player]\n"))
}

func TestProcessLivePress(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	layout := addrmap.RedBlue()
	const expected = "B:AclearB:startcleardump_wram"
	received := make(chan string, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		commands := make([]byte, len(expected))
		if _, err := io.ReadFull(conn, commands); err != nil {
			return
		}
		received <- string(commands)
		_, _ = conn.Write(make([]byte, layout.RegionSize))
	}()

	opts := testOptions(t)
	opts.Emulator = listener.Addr().String()
	opts.Press = "A, start"

	assert.NoError(t, ProcessLive(context.Background(), log.NewTestLogger(t), opts))
	assert.Equal(t, expected, <-received)
}

func TestProcessLiveReconnect(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	layout := addrmap.RedBlue()
	go func() {
		command := make([]byte, len("dump_wram"))

		// the first connection answers with a partial dump
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		if _, err := io.ReadFull(conn, command); err == nil {
			_, _ = conn.Write(make([]byte, 10))
		}
		_ = conn.Close()

		conn, err = listener.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		if _, err := io.ReadFull(conn, command); err != nil {
			return
		}
		_, _ = conn.Write(make([]byte, layout.RegionSize))
	}()

	opts := testOptions(t)
	opts.Emulator = listener.Addr().String()

	assert.NoError(t, ProcessLive(context.Background(), log.NewTestLogger(t), opts))
	assert.Equal(t, 1, strings.Count(readOutput(t, opts), "[Player]\n"))
}

func TestProcessLiveInvalidButton(t *testing.T) {
	opts := testOptions(t)
	opts.Emulator = "127.0.0.1:1"
	opts.Press = "turbo"

	err := ProcessLive(context.Background(), log.NewTestLogger(t), opts)
	assert.Error(t, err, "unsupported button 'turbo'")
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	writeDump(t, dir, "a.bin", nil)
	writeDump(t, dir, "b.bin", nil)

	files, err := GetFilesToProcess(&options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.bin")}})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(files))

	pattern := filepath.Join(dir, "*.sav")
	_, err = GetFilesToProcess(&options.Program{Parameters: options.Parameters{Batch: pattern}})
	assert.Error(t, err, "no files match batch pattern "+pattern)

	files, err = GetFilesToProcess(&options.Program{Parameters: options.Parameters{Input: "dump.bin"}})
	assert.NoError(t, err)
	assert.Equal(t, []string{"dump.bin"}, files)
}

// Package fileprocessor handles dump loading and processing operations
package fileprocessor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"github.com/retroenv/memsnap/internal/config"
	"github.com/retroenv/memsnap/internal/loader"
	"github.com/retroenv/memsnap/internal/options"
	"github.com/retroenv/memsnap/internal/snapshot"
	"github.com/retroenv/memsnap/internal/textcodec"
	"github.com/retroenv/memsnap/internal/transport"
	"github.com/retroenv/memsnap/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/time/rate"
)

// ProcessFile decodes a single dump file and writes the selected records.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	return ProcessFiles(ctx, logger, opts, []string{opts.Input})
}

// ProcessFiles decodes the dump files using opts.Workers parallel workers
// and writes the snapshots in input order. Files that fail to load or decode
// are logged and reported as a combined error after all files were processed.
func ProcessFiles(ctx context.Context, logger *log.Logger, opts options.Program, files []string) error {
	decoder, err := config.CreateDecoder(logger, opts)
	if err != nil {
		return err
	}
	out, err := newOutput(logger, decoder, opts)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	load := loader.New(logger, decoder.Layout())
	results := make([]result, len(files))
	swg := sizedwaitgroup.New(max(opts.Workers, 1))

	for i, file := range files {
		if err := swg.AddWithContext(ctx); err != nil {
			swg.Wait()
			return fmt.Errorf("processing %s: %w", file, err)
		}
		i, file := i, file
		go func() {
			defer swg.Done()
			results[i] = decodeFile(load, decoder, file)
		}()
	}
	swg.Wait()

	var errs []error
	for i, res := range results {
		if res.err != nil {
			logger.Error("Decoding failed", res.err, log.String("file", files[i]))
			errs = append(errs, res.err)
			continue
		}
		if err := out.write(files[i], res.snap); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}

// ProcessLive polls the working memory of a running emulator opts.Polls
// times at opts.Rate polls per second and writes every snapshot. The buttons
// of opts.Press are pressed in order before every poll. A failing poll
// reconnects and is retried once.
func ProcessLive(ctx context.Context, logger *log.Logger, opts options.Program) error {
	buttons, err := parseButtons(opts.Press)
	if err != nil {
		return err
	}
	decoder, err := config.CreateDecoder(logger, opts)
	if err != nil {
		return err
	}
	out, err := newOutput(logger, decoder, opts)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	layout := decoder.Layout()
	dialCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	client, err := transport.Dial(dialCtx, logger, opts.Emulator,
		transport.WithRegionSize(int(layout.RegionSize)))
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to emulator: %w", err)
	}
	defer func() { _ = client.Close() }()

	limiter := rate.NewLimiter(rate.Limit(opts.Rate), 1)
	for poll := 0; poll < opts.Polls; poll++ {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for poll %d: %w", poll, err)
		}

		if err := pressButtons(ctx, client, buttons, opts.Timeout); err != nil {
			return fmt.Errorf("poll %d: %w", poll, err)
		}

		snap, err := pollSnapshot(ctx, client, decoder, opts.Timeout)
		if err != nil && ctx.Err() == nil {
			logger.Warn("Poll failed, reconnecting", log.Int("poll", poll), log.Err(err))
			snap, err = retryPoll(ctx, client, decoder, opts.Timeout)
		}
		if err != nil {
			return fmt.Errorf("poll %d: %w", poll, err)
		}
		source := fmt.Sprintf("%s poll %d at %s", opts.Emulator, poll, time.Now().Format(time.RFC3339Nano))
		if err := out.write(source, snap); err != nil {
			return err
		}
	}
	return nil
}

// retryPoll drops the connection, which may be out of sync after a partial
// response, and polls again.
func retryPoll(ctx context.Context, client *transport.Client, decoder *snapshot.Decoder,
	timeout time.Duration) (*snapshot.Snapshot, error) {

	resetCtx, cancel := context.WithTimeout(ctx, timeout)
	err := client.Reset(resetCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("reconnecting: %w", err)
	}
	return pollSnapshot(ctx, client, decoder, timeout)
}

func pressButtons(ctx context.Context, client *transport.Client, buttons []transport.Button,
	timeout time.Duration) error {

	for _, button := range buttons {
		pressCtx, cancel := context.WithTimeout(ctx, timeout)
		err := client.Press(pressCtx, button)
		cancel()
		if err != nil {
			return fmt.Errorf("pressing %s: %w", button, err)
		}
	}
	return nil
}

func parseButtons(list string) ([]transport.Button, error) {
	var buttons []transport.Button
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		button, err := transport.ParseButton(name)
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, button)
	}
	return buttons, nil
}

func pollSnapshot(ctx context.Context, client *transport.Client, decoder *snapshot.Decoder,
	timeout time.Duration) (*snapshot.Snapshot, error) {

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dump, err := client.DumpWRAM(reqCtx)
	if err != nil {
		return nil, fmt.Errorf("dumping memory: %w", err)
	}
	snap, err := decoder.Decode(dump)
	if err != nil {
		return nil, fmt.Errorf("decoding memory: %w", err)
	}
	return snap, nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match batch pattern %s", opts.Batch)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("memsnap", log.String("version", buildinfo.Version(version, commit, date)))
}

type result struct {
	snap *snapshot.Snapshot
	err  error
}

func decodeFile(load *loader.Loader, decoder *snapshot.Decoder, file string) result {
	data, err := load.Load(file)
	if err != nil {
		return result{err: err}
	}
	snap, err := decoder.Decode(data)
	if err != nil {
		return result{err: fmt.Errorf("decoding %s: %w", file, err)}
	}
	return result{snap: snap}
}

// output writes snapshots to the configured destination. In validate mode
// only a summary line per snapshot is logged.
type output struct {
	logger   *log.Logger
	codec    *textcodec.Codec
	options  writer.Options
	file     io.Writer
	validate bool
}

func newOutput(logger *log.Logger, decoder *snapshot.Decoder, opts options.Program) (*output, error) {
	layout := decoder.Layout()
	records, err := writer.ParseRecords(layout, opts.Records)
	if err != nil {
		return nil, err
	}

	file, err := createWriter(opts)
	if err != nil {
		return nil, fmt.Errorf("creating writer: %w", err)
	}

	return &output{
		logger:   logger,
		codec:    layout.Codec,
		options:  writer.Options{Records: records, Text: opts.Text},
		file:     file,
		validate: opts.Validate,
	}, nil
}

func (o *output) write(source string, snap *snapshot.Snapshot) error {
	if o.validate {
		o.logger.Info("Decoded snapshot", log.String("source", source), log.String("layout", snap.Layout()))
		return nil
	}

	// buffer a whole snapshot so that a failing write does not leave a partial section
	var buf bytes.Buffer
	if err := writer.New(&buf, o.codec, o.options).Write(source, snap); err != nil {
		return fmt.Errorf("formatting %s: %w", source, err)
	}
	if _, err := o.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", source, err)
	}
	return nil
}

func (o *output) Close() error {
	if closer, ok := o.file.(io.Closer); ok && o.file != os.Stdout {
		return closer.Close()
	}
	return nil
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/retroenv/memsnap/internal/addrmap"
	"github.com/retroenv/memsnap/internal/options"
	"github.com/retroenv/memsnap/internal/transport"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(osArgs []string) (options.Program, error) {
	flags := flag.NewFlagSet(osArgs[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(osArgs[1:])
	args := flags.Args()
	if err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	if len(args) == 0 && opts.Input == "" && opts.Batch == "" && !opts.Live() {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(flags, args); err != nil {
		return opts, err
	}

	if opts.Input == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: memsnap [options] <memory dump file>\n\n")
	e.flags.SetOutput(os.Stdout)
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				flags: flags,
				msg: fmt.Sprintf("Potential argument %s found after dump file, please pass the dump file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Layout = strings.ToLower(opts.Layout)
	if _, err := addrmap.Lookup(opts.Layout); err != nil {
		return err
	}

	opts.Records = strings.ReplaceAll(opts.Records, " ", "")
	if opts.Records == "" {
		opts.Records = "all"
	}

	if opts.Polls < 1 {
		return fmt.Errorf("invalid number of polls %d, has to be at least 1", opts.Polls)
	}
	if opts.Rate <= 0 {
		return fmt.Errorf("invalid poll rate %g, has to be positive", opts.Rate)
	}
	opts.Press = strings.ReplaceAll(opts.Press, " ", "")
	for _, button := range strings.Split(opts.Press, ",") {
		if button == "" {
			continue
		}
		if _, err := transport.ParseButton(button); err != nil {
			return err
		}
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return nil
}

// validateOptionCombinations checks that exactly one memory source is given
func validateOptionCombinations(opts options.Program) error {
	sources := 0
	for _, set := range []bool{opts.Input != "", opts.Batch != "", opts.Live()} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of dump file, -batch or -e has to be given")
	}
	if opts.Polls > 1 && !opts.Live() {
		return fmt.Errorf("-n can only be used together with -e")
	}
	if opts.Press != "" && !opts.Live() {
		return fmt.Errorf("-press can only be used together with -e")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input memory dump file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask, for example dumps/*.bin")
	flags.StringVar(&opts.Emulator, "e", "", "read memory from the emulator socket server at host:port, for example localhost:10018")
	flags.StringVar(&opts.Layout, "layout", "redblue", "address map of the game revision ("+strings.Join(addrmap.Names(), "/")+")")
	flags.StringVar(&opts.Records, "r", "all", "comma separated records to print: all, sprites, party or record names like Player")
	flags.IntVar(&opts.Polls, "n", 1, "number of emulator polls")
	flags.Float64Var(&opts.Rate, "rate", 10, "emulator polls per second")
	flags.DurationVar(&opts.Timeout, "timeout", 5*time.Second, "timeout of a single emulator request")
	flags.StringVar(&opts.Press, "press", "", "comma separated buttons pressed before every emulator poll (A, B, U, D, L, R, start, select)")
	flags.IntVar(&opts.Workers, "j", 4, "number of dump files decoded in parallel in batch mode")
	flags.BoolVar(&opts.Text, "text", false, "also print raw buffers decoded as in-game text")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Validate, "validate", false, "only decode and report errors, do not print records")
}

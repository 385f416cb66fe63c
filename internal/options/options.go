// Package options contains the program options.
package options

import "time"

// Parameters contains input and output options.
type Parameters struct {
	Input    string `flag:"i" usage:"input memory dump file"`
	Output   string `flag:"o" usage:"output file (default: stdout)"`
	Batch    string `flag:"batch" usage:"batch process dump files matching pattern (e.g. *.bin)"`
	Emulator string `flag:"e" usage:"read memory from the emulator socket server at host:port"`
	Layout   string `flag:"layout" usage:"address map of the game revision" default:"redblue"`
}

// Flags contains behavior options.
type Flags struct {
	Records  string        `flag:"r" usage:"comma separated records to print: all, sprites, party or record names" default:"all"`
	Polls    int           `flag:"n" usage:"number of emulator polls" default:"1"`
	Rate     float64       `flag:"rate" usage:"emulator polls per second" default:"10"`
	Timeout  time.Duration `flag:"timeout" usage:"timeout of a single emulator request" default:"5s"`
	Press    string        `flag:"press" usage:"comma separated buttons pressed before every emulator poll"`
	Workers  int           `flag:"j" usage:"number of dump files decoded in parallel in batch mode" default:"4"`
	Text     bool          `flag:"text" usage:"also print raw buffers decoded as in-game text"`
	Debug    bool          `flag:"debug" usage:"enable debug logging"`
	Quiet    bool          `flag:"q" usage:"quiet mode"`
	Validate bool          `flag:"validate" usage:"only decode and report errors, do not print records"`
}

// Program options of the snapshot tool.
type Program struct {
	Parameters
	Flags
}

// Live returns whether memory is read from a running emulator.
func (p Program) Live() bool {
	return p.Emulator != ""
}

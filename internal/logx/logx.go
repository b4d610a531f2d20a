// Package logx configures the global zerolog logger.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects the level and format of the global logger.
type Config struct {
	Debug  bool
	Pretty bool
	Output io.Writer // defaults to os.Stderr
}

// DefaultConfig is used when Init gets no Config: info level, console format.
var DefaultConfig = &Config{
	Debug:  false,
	Pretty: true,
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init replaces log.Logger according to the first Config given, or
// DefaultConfig.
func Init(opts ...Config) {
	conf := safe(opts...)

	out := conf.Output
	if out == nil {
		out = os.Stderr
	}

	if conf.Pretty {
		// colors only when writing to the terminal, never into log files
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: out != os.Stderr}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}

	if conf.Debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}
}

// Discard silences the global logger, e.g. while a TUI owns the terminal.
func Discard() {
	log.Logger = zerolog.Nop()
}

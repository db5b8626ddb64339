// Package logging owns the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the shared logger. Packages tag their lines with a "module"
// field rather than constructing sub-loggers.
var Logger zerolog.Logger

func init() {
	Logger = build(os.Stderr, nil)
	log.Logger = Logger
}

// Setup reconfigures the shared logger. level accepts the usual zerolog
// names (debug, info, warn, error); logFile, when non-empty, is appended to
// in addition to the console.
func Setup(level, logFile string) error {
	var file io.Writer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		file = f
	}
	Logger = build(os.Stderr, file)
	if lvl, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && level != "" {
		Logger = Logger.Level(lvl)
	}
	log.Logger = Logger
	return nil
}

func build(console io.Writer, file io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: "15:04:05",
		FormatCaller: func(i interface{}) string {
			s, _ := i.(string)
			return filepath.Base(s)
		},
	}
	out := io.Writer(cw)
	if file != nil {
		out = zerolog.MultiLevelWriter(cw, file)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	return zerolog.New(out).With().Timestamp().Caller().Logger()
}

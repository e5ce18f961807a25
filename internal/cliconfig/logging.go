package cliconfig

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger builds the console logger used by the command line tool.
func Logger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

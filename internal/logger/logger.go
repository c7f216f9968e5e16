package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Development gets colorized
// console output; every other environment logs JSON lines.
func Init(level string, development bool) {
	InitWithWriter(os.Stderr, level, development)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(w io.Writer, level string, development bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if development {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

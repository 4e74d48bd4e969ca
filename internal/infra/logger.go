package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages outside infra can accept a
// logger without importing the third-party module directly.
type Logger = zerolog.Logger

// NewLogger builds the process-wide logger. Development environments get
// console output at debug level, everything else gets JSON at info.
func NewLogger(appEnv, service string) zerolog.Logger {
	var out = zerolog.New(os.Stdout)
	level := zerolog.InfoLevel
	if appEnv == "development" {
		out = out.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
		level = zerolog.DebugLevel
	}
	return out.Level(level).With().
		Timestamp().
		Str("service", service).
		Logger()
}

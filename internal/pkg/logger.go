package pkg

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logOnce sync.Once
	logInst zerolog.Logger
)

// InitLogger builds the process-wide zerolog logger. Only the first call has
// any effect; later calls return the same instance.
func InitLogger(level string, pretty bool) zerolog.Logger {
	logOnce.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var out = os.Stdout
		w := zerolog.New(out)
		if pretty {
			w = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
		}

		lvl := parseLevel(level)
		zerolog.SetGlobalLevel(lvl)
		logInst = w.Level(lvl).With().Timestamp().Logger()
	})
	return logInst
}

// Logger returns the process logger; a no-op logger before InitLogger.
func Logger() *zerolog.Logger {
	return &logInst
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Package logger configures the process-wide zerolog logger and hands out
// component-scoped child loggers for the engine, transports, and cmd/wmgrd
// to tag their own output with.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide logger. Init reconfigures it; components
// should hold onto the *zerolog.Logger WithComponent returns rather than
// reading this directly, since a config reload may call Init again.
var Logger zerolog.Logger

// Component names used across wmgrd's own packages, kept here so the
// engine, transports, and the daemon entry point all spell them the same
// way in log output.
const (
	ComponentDaemon         = "wmgrd"
	ComponentEngine         = "engine"
	ComponentTransportHTTP  = "transport-http"
	ComponentTransportStdio = "transport-stdio"
)

func init() {
	Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = Logger
}

// Init reconfigures the global logger at the given level ("debug", "info",
// "warn"/"warning", or "error", defaulting to info). When pretty is set,
// output goes through zerolog's ConsoleWriter instead of raw JSON lines,
// for interactive `wmgrd serve` runs; otherwise wmgrd emits JSON lines
// suitable for a log collector.
func Init(level string, pretty bool) {
	var zlLevel zerolog.Level
	switch strings.ToLower(level) {
	case "debug":
		zlLevel = zerolog.DebugLevel
	case "info":
		zlLevel = zerolog.InfoLevel
	case "warn", "warning":
		zlLevel = zerolog.WarnLevel
	case "error":
		zlLevel = zerolog.ErrorLevel
	default:
		zlLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(zlLevel)

	var output io.Writer = os.Stdout
	if pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	Logger = zerolog.New(output).With().Timestamp().Logger()
	log.Logger = Logger
}

// WithComponent returns a child logger tagging every line with the given
// component name. This is the only logging entry point the rest of wmgrd
// uses; there is no package-level Debug/Info/Warn helper because every
// caller already has a specific component to log under.
func WithComponent(component string) *zerolog.Logger {
	l := Logger.With().Str("component", component).Logger()
	return &l
}

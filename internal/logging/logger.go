package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level  string    // debug, info, warn, error
	Pretty bool      // human-readable console output instead of JSON lines
	Out    io.Writer // defaults to os.Stderr
}

// Init sets the process-wide zerolog options. Call it once from main.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a structured logger. Output goes to stderr so forecast
// output on stdout stays machine readable.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = cfg.Out
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
			NoColor:    cfg.Out != nil,
		}
	}

	return zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// Adapter exposes a zerolog logger through the printf-style logging
// interface used by the forecast engine
type Adapter struct {
	Log zerolog.Logger
}

// NewAdapter wraps l, tagging every event with the component name
func NewAdapter(l zerolog.Logger, component string) Adapter {
	if component != "" {
		l = l.With().Str("component", component).Logger()
	}
	return Adapter{Log: l}
}

func (a Adapter) Debugf(format string, args ...any) { a.Log.Debug().Msgf(format, args...) }
func (a Adapter) Infof(format string, args ...any)  { a.Log.Info().Msgf(format, args...) }
func (a Adapter) Warnf(format string, args ...any)  { a.Log.Warn().Msgf(format, args...) }
func (a Adapter) Errorf(format string, args ...any) { a.Log.Error().Msgf(format, args...) }

// Package logging sets up zerolog for the host tools.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"runsched/core"
)

const consoleTimeFormat = "15:04:05.000"

// New creates a logger writing to w.
//
// format: "text" (human-readable console) or "json"
func New(level zerolog.Level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	var out io.Writer = w
	if strings.ToLower(format) != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: true}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// ParseLevel converts a string log level to a zerolog level.
// Returns zerolog.InfoLevel for unrecognized values.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// OverrunLogger reports dispatcher overruns as warnings without flooding the
// log when the host falls behind for a long stretch. Events over the limit
// are counted and the count is attached to the next warning that gets out.
//
// It is called from the dispatcher goroutine only.
type OverrunLogger struct {
	log        zerolog.Logger
	limiter    *rate.Limiter
	now        func() time.Time
	suppressed uint64
}

// NewOverrunLogger allows perSecond warnings with the given burst
func NewOverrunLogger(log zerolog.Logger, perSecond float64, burst int) *OverrunLogger {
	if burst < 1 {
		burst = 1
	}
	return &OverrunLogger{
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		now:     time.Now,
	}
}

// Log is a core.WithOverrunHook callback
func (l *OverrunLogger) Log(ev core.OverrunEvent) {
	if !l.limiter.AllowN(l.now(), 1) {
		l.suppressed++
		return
	}

	e := l.log.Warn().
		Int("idx", ev.Index).
		Str("runnable", ev.Name).
		Uint32("tick", ev.Tick).
		Uint32("late", ev.Lateness).
		Uint32("runs", ev.Runs).
		Uint32("skipped", ev.Skipped).
		Str("policy", ev.Policy.String())
	if l.suppressed > 0 {
		e = e.Uint64("suppressed", l.suppressed)
		l.suppressed = 0
	}
	e.Msg("runnable overrun")
}

// Suppressed returns the number of warnings dropped since the last one logged
func (l *OverrunLogger) Suppressed() uint64 {
	return l.suppressed
}

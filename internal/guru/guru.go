// Package guru is the error handling and logging hub. It writes the log file,
// counts non-fatal errors toward a cascade failure, and tracks halt state.
package guru

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Severity grades a log line or non-fatal error.
type Severity int

const (
	Info Severity = iota
	Warn
	Error
	Critical
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	case Critical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func (s Severity) valid() bool { return s >= Info && s <= Critical }

func (s Severity) weight() int {
	switch s {
	case Critical:
		return CascadeWeightCritical
	case Error:
		return CascadeWeightError
	case Warn:
		return CascadeWeightWarn
	default:
		return 0
	}
}

func (s Severity) level() log.Level {
	switch s {
	case Warn:
		return log.WarnLevel
	case Error:
		return log.ErrorLevel
	case Critical:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Options configures Open.
type Options struct {
	// LogPath is truncated and written on every run. Empty disables the file log.
	LogPath string
	// Console receives a copy of every line. Nil means os.Stderr.
	Console io.Writer
	// Now is the clock used for the cascade window.
	Now func() time.Time
}

// Guru owns the loggers and the cascade counter.
type Guru struct {
	console *log.Logger
	file    *log.Logger
	closer  io.Closer
	cascade *Cascade
	err     error
	halting bool
}

// Open creates the log file (replacing any previous one) and the loggers.
func Open(opts Options) (*Guru, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	g := &Guru{
		console: newLogger(console),
		cascade: NewCascade(opts.Now),
	}
	if opts.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogPath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.Create(opts.LogPath)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		g.file = newLogger(f)
		g.closer = f
	}
	g.Log("Guru error-handling system is online.", Info)
	return g, nil
}

// Discard returns a Guru that logs nowhere, for tests and headless tools.
func Discard() *Guru {
	g, _ := Open(Options{Console: io.Discard})
	return g
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.DebugLevel,
		Prefix:          "gorp",
	})
}

// Log writes a line to the console and the log file.
func (g *Guru) Log(msg string, sev Severity, keyvals ...any) {
	g.console.Log(sev.level(), msg, keyvals...)
	if g.file != nil {
		g.file.Log(sev.level(), msg, keyvals...)
	}
}

// Nonfatal logs an error and feeds it to the cascade counter. It returns the
// cascade failure on the call that trips it; the same error stays available
// from Err.
func (g *Guru) Nonfatal(msg string, sev Severity) error {
	if g.err != nil || g.halting {
		return nil
	}
	if !sev.valid() {
		return g.Nonfatal(fmt.Sprintf("Nonfatal error reported with incorrect severity specified: %s", msg), Warn)
	}
	g.Log(msg, sev)
	if g.cascade.Add(sev) {
		g.err = &Meditation{Msg: "Cascade failure detected!"}
		return g.err
	}
	return nil
}

// Err returns the cascade failure, if one has been detected.
func (g *Guru) Err() error { return g.err }

// BeginHalt logs a fatal error and marks the system as halting. It returns
// false if a halt is already in progress.
func (g *Guru) BeginHalt(err error) bool {
	if g.halting {
		g.Log("Detected re-entrant halt: "+err.Error(), Critical)
		return false
	}
	g.halting = true
	msg, code := Describe(err)
	if code != "" {
		g.Log(msg, Critical, "code", code)
	} else {
		g.Log(msg, Critical)
	}
	return true
}

// Halting reports whether BeginHalt has been called.
func (g *Guru) Halting() bool { return g.halting }

// Close flushes and closes the log file.
func (g *Guru) Close() error {
	if g.closer == nil {
		return nil
	}
	g.Log("Guru system shutting down. Have a nice day.", Info)
	err := g.closer.Close()
	g.closer = nil
	g.file = nil
	return err
}

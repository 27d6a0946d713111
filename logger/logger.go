package logger

import (
	"fmt"
	"github.com/meysamhadeli/sandkit/logger/contracts"
	"github.com/pterm/pterm"
	"io"
	"strings"
	"sync"
)

// ptermLogger adapts pterm's structured logger to contracts.ILogger.
type ptermLogger struct {
	logger *pterm.Logger
}

// NewLogger creates a logger writing to w at the given level
// ("trace", "debug", "info", "warn", "error" or "disabled").
func NewLogger(w io.Writer, level string, json bool) (contracts.ILogger, error) {
	logLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	l := pterm.DefaultLogger.WithLevel(logLevel).WithWriter(w)
	if json {
		l = l.WithFormatter(pterm.LogFormatterJSON)
	}

	return &ptermLogger{logger: l}, nil
}

func (p *ptermLogger) Debug(msg string, args ...any) {
	p.logger.Debug(msg, p.logger.Args(args...))
}

func (p *ptermLogger) Info(msg string, args ...any) {
	p.logger.Info(msg, p.logger.Args(args...))
}

func (p *ptermLogger) Warn(msg string, args ...any) {
	p.logger.Warn(msg, p.logger.Args(args...))
}

func (p *ptermLogger) Error(msg string, args ...any) {
	p.logger.Error(msg, p.logger.Args(args...))
}

// ParseLevel maps a level name to a pterm log level.
func ParseLevel(level string) (pterm.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace, nil
	case "debug":
		return pterm.LogLevelDebug, nil
	case "", "info":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	case "disabled", "off", "none":
		return pterm.LogLevelDisabled, nil
	default:
		return pterm.LogLevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

type nopLogger struct{}

// NewNop returns a logger that discards everything.
func NewNop() contracts.ILogger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Entry is a single line captured by a Recorder.
type Entry struct {
	Level   string
	Message string
	Args    []any
}

// Recorder keeps every logged line in memory. Tests use it to observe what a
// helper reported.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg, Args: args})
}

func (r *Recorder) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.record("error", msg, args) }

// Entries returns a copy of the captured lines.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Messages returns the captured messages for one level, in order.
func (r *Recorder) Messages(level string) []string {
	var messages []string
	for _, e := range r.Entries() {
		if e.Level == level {
			messages = append(messages, e.Message)
		}
	}
	return messages
}

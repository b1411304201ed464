// Package logger provides a ring-buffered event log for soft, non-fatal
// events inside the core (an unmapped IO port, a BIOS auto-disable trigger,
// a cartridge RAM size mismatch) that are worth observing but don't warrant
// a Go error.
package logger

import (
	"fmt"
	"io"
	"sync"
)

// Permission allows a caller to gate whether a particular log call is
// recorded. This lets a host silence noisy categories of log entries
// without the core needing to know about them.
type Permission interface {
	AllowLogging() bool
}

type allowPermission struct{}

func (allowPermission) AllowLogging() bool { return true }

// Allow is the permission that always allows logging.
var Allow Permission = allowPermission{}

type entry struct {
	tag    string
	detail string
}

// Logger is a bounded, append-only log of tagged events.
type Logger struct {
	mu      sync.Mutex
	entries []entry
	max     int
}

// NewLogger creates a Logger that retains at most max entries, discarding
// the oldest entry once full.
func NewLogger(max int) *Logger {
	if max <= 0 {
		max = 1
	}
	return &Logger{max: max}
}

func detailString(detail interface{}) string {
	switch v := detail.(type) {
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Log records an entry under tag, if perm allows logging.
func (l *Logger) Log(perm Permission, tag string, detail interface{}) {
	if perm != nil && !perm.AllowLogging() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry{tag: tag, detail: detailString(detail)})
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// Logf records a formatted entry under tag, if perm allows logging.
func (l *Logger) Logf(perm Permission, tag string, format string, values ...interface{}) {
	l.Log(perm, tag, fmt.Sprintf(format, values...))
}

// Clear empties the log.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Write writes every retained entry, oldest first, to w.
func (l *Logger) Write(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.detail)
	}
}

// Tail writes the n most recently retained entries, oldest first, to w.
func (l *Logger) Tail(w io.Writer, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 {
		return
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}

	tail := l.entries[len(l.entries)-n:]
	for _, e := range tail {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.detail)
	}
}

// central is the package-level logger used by the convenience functions
// below, matching the scale of log volume a single emulated machine can
// produce in a session.
var central = NewLogger(1024)

// Log records an entry in the central logger.
func Log(tag string, detail interface{}) {
	central.Log(Allow, tag, detail)
}

// Logf records a formatted entry in the central logger.
func Logf(tag string, format string, values ...interface{}) {
	central.Logf(Allow, tag, format, values...)
}

// Write writes the central logger's entries to w.
func Write(w io.Writer) {
	central.Write(w)
}

// Tail writes the central logger's n most recent entries to w.
func Tail(w io.Writer, n int) {
	central.Tail(w, n)
}

// Clear empties the central logger.
func Clear() {
	central.Clear()
}

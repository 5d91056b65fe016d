// Package logger provides the logging stack for vidnav.
//
// Debug loggers are namespaced and switched on through the DEBUG environment
// variable, using the same pattern syntax as the debug npm package:
//
//	DEBUG=*                    everything
//	DEBUG=vidnav:*             one subsystem
//	DEBUG=*,-mcp:client        everything except one namespace
//
// Enabled debug lines go to stderr and are mirrored into the file logger
// (see InitFileLogger) with level DEBUG and the namespace as category.
package logger

import (
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/vidnavigator/vidnav/internal/tty"
)

const colorReset = "\033[0m"

var (
	// debugColors is false when DEBUG_COLORS=0
	debugColors = os.Getenv("DEBUG_COLORS") != "0"
	isTTY       = tty.IsStderrTerminal()

	colorPalette = []string{
		"\033[38;5;33m",
		"\033[38;5;39m",
		"\033[38;5;41m",
		"\033[38;5;118m",
		"\033[38;5;166m",
		"\033[38;5;170m",
		"\033[38;5;178m",
		"\033[38;5;196m",
		"\033[38;5;202m",
		"\033[38;5;214m",
	}
)

// Logger is a namespaced debug logger.
type Logger struct {
	namespace string
	enabled   bool
	color     string

	mu   sync.Mutex
	last time.Time
}

// New creates a debug logger for namespace. Whether it is enabled is decided
// once, from the DEBUG variable at construction time.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   computeEnabled(namespace),
		color:     selectColor(namespace),
	}
}

// Enabled reports whether the logger writes anything.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf formats and writes a debug line.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.output(fmt.Sprintf(format, args...))
}

// Print writes a debug line built with fmt.Sprint.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.output(fmt.Sprint(args...))
}

func (l *Logger) output(message string) {
	l.mu.Lock()
	now := time.Now()
	var diff time.Duration
	if !l.last.IsZero() {
		diff = now.Sub(l.last)
	}
	l.last = now
	l.mu.Unlock()

	if l.color != "" {
		fmt.Fprintf(os.Stderr, "%s%s%s %s %s+%s%s\n", l.color, l.namespace, colorReset, message, l.color, formatDiff(diff), colorReset)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, message, formatDiff(diff))
	}

	LogDebug(l.namespace, "%s", message)
}

func formatDiff(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
}

// computeEnabled evaluates the DEBUG patterns for namespace. Exclusions win
// over inclusions regardless of their position in the list.
func computeEnabled(namespace string) bool {
	debugEnv := os.Getenv("DEBUG")
	if debugEnv == "" {
		return false
	}

	enabled := false
	for _, pattern := range strings.Split(debugEnv, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if excluded, ok := strings.CutPrefix(pattern, "-"); ok {
			if matchPattern(namespace, excluded) {
				return false
			}
			continue
		}
		if matchPattern(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

// matchPattern matches namespace against a pattern where '*' matches any run
// of characters, including ':' separators.
func matchPattern(namespace, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return namespace == pattern
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(namespace, parts[0]) {
		return false
	}
	rest := namespace[len(parts[0]):]
	for _, middle := range parts[1 : len(parts)-1] {
		idx := strings.Index(rest, middle)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(middle):]
	}
	return strings.HasSuffix(rest, parts[len(parts)-1])
}

// selectColor picks a stable palette entry for namespace, or "" when colors
// are disabled or stderr is not a terminal.
func selectColor(namespace string) string {
	if !debugColors || !isTTY {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(namespace))
	return colorPalette[h.Sum32()%uint32(len(colorPalette))]
}

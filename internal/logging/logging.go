// Package logging provides the diagnostic channel. Diagnostics are split
// into categories that can be switched on independently; the report
// itself never goes through here.
package logging

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phuslu/log"
)

// Flags is a bitmask of enabled diagnostic categories.
type Flags uint16

const (
	ParseError Flags = 1 << iota
	ParseInput
	ParseTime
	Output

	None Flags = 0
	All  Flags = 0xffff

	// Default only traces parse errors.
	Default = ParseError
)

var flagNames = []struct {
	name string
	flag Flags
}{
	{"parse-error", ParseError},
	{"parse-input", ParseInput},
	{"parse-time", ParseTime},
	{"output", Output},
}

// String returns the category name for a single flag, or a hex mask.
func (f Flags) String() string {
	for _, n := range flagNames {
		if n.flag == f {
			return n.name
		}
	}
	return fmt.Sprintf("0x%x", uint16(f))
}

// ParseFlags turns category names ("parse-input", "all", "none") or
// numeric masks ("0x5") into a bitmask.
func ParseFlags(names []string) (Flags, error) {
	var out Flags
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		switch name {
		case "all":
			out |= All
			continue
		case "none":
			continue
		}
		if v, err := strconv.ParseUint(name, 0, 16); err == nil {
			out |= Flags(v)
			continue
		}
		found := false
		for _, n := range flagNames {
			if n.name == name {
				out |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown debug category %q", raw)
		}
	}
	return out, nil
}

// Logger writes categorised diagnostics.
type Logger struct {
	log   log.Logger
	flags Flags
}

// New returns a Logger writing plain console lines to w.
func New(w io.Writer, flags Flags) *Logger {
	return &Logger{
		log: log.Logger{
			Level:      log.DebugLevel,
			TimeFormat: "15:04:05",
			Writer: &log.ConsoleWriter{
				Writer:      w,
				ColorOutput: false,
			},
		},
		flags: flags,
	}
}

// Discard returns a Logger with every category disabled.
func Discard() *Logger {
	return New(io.Discard, None)
}

// Flags returns the enabled categories.
func (l *Logger) Flags() Flags {
	if l == nil {
		return None
	}
	return l.flags
}

// Enabled reports whether any of the categories in f is on.
func (l *Logger) Enabled(f Flags) bool {
	return l != nil && l.flags&f != 0
}

// Debug starts an entry for category f. It returns nil when the category
// is off; a nil entry discards everything chained onto it.
func (l *Logger) Debug(f Flags) *log.Entry {
	if !l.Enabled(f) {
		return nil
	}
	return l.log.Debug().Str("category", f.String())
}

// Warn starts a parse error entry, gated by ParseError.
func (l *Logger) Warn() *log.Entry {
	if !l.Enabled(ParseError) {
		return nil
	}
	return l.log.Warn().Str("category", ParseError.String())
}

// Error logs unconditionally; used for failures that abort the run.
func (l *Logger) Error() *log.Entry {
	if l == nil {
		return nil
	}
	return l.log.Error()
}

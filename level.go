package sawmill

import (
	"errors"
	"fmt"
	"strings"
)

// Level represents log severity. Levels are ordered: a logger configured at
// level L emits records for every call at severity L or above.
type Level int

const (
	// LevelDebug is the lowest severity, for developer diagnostics.
	LevelDebug Level = iota
	// LevelInfo is for routine operational messages.
	LevelInfo
	// LevelWarn is for recoverable or suspicious conditions.
	LevelWarn
	// LevelError is for failed operations.
	LevelError
	// LevelFatal is the highest severity. Logging at this level does not
	// terminate the process; that decision belongs to the caller.
	LevelFatal
)

const numLevels = int(LevelFatal) + 1

// ErrInvalidLevel indicates an unrecognized log level name.
var ErrInvalidLevel = errors.New("invalid log level")

var levelNames = [numLevels]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

// String returns the canonical upper-case level name.
func (l Level) String() string {
	if l < 0 || int(l) >= numLevels {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}

	return levelNames[l]
}

func (l Level) valid() bool {
	return l >= 0 && int(l) < numLevels
}

// ParseLevel parses a level name, case-insensitively.
// It returns an error wrapping [ErrInvalidLevel] for unknown names.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// LevelStrings returns the accepted level names in ascending severity order,
// suitable for CLI flag help and shell completion.
func LevelStrings() []string {
	return []string{"debug", "info", "warn", "error", "fatal"}
}

// DefaultTraceLevels returns the severities that include full stack traces in
// rendered error causes by default.
func DefaultTraceLevels() []Level {
	return []Level{LevelError, LevelFatal}
}

// levelMask converts a level list into a constant-time membership table.
func levelMask(levels []Level) [numLevels]bool {
	var m [numLevels]bool
	for _, l := range levels {
		if l.valid() {
			m[l] = true
		}
	}

	return m
}

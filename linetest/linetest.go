// Package linetest provides helpers for asserting on rendered log lines in
// tests: explicit line-ending joins, ANSI stripping, and fixed clocks.
package linetest

import (
	"strings"
	"time"
)

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected multi-line log output explicitly.
//
// Example:
//
//	want := linetest.JoinLF(
//		"ERROR boom",
//		"      caused by: Error: io failure",
//	) // -> "ERROR boom\n      caused by: Error: io failure"
func JoinLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}

// StripANSI removes CSI escape sequences (colors and text attributes) from
// s, leaving the plain text a colorized formatter produced.
func StripANSI(s string) string {
	var sb strings.Builder

	inEscape := false

	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			inEscape = true
			i++

			continue
		}

		if inEscape {
			if s[i] >= '@' && s[i] <= '~' {
				inEscape = false
			}

			continue
		}

		sb.WriteByte(s[i])
	}

	return sb.String()
}

// ClockAt returns a clock function frozen at t.
func ClockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Epoch returns the Unix epoch in UTC, the conventional fixed timestamp for
// golden log lines.
func Epoch() time.Time {
	return time.Unix(0, 0).UTC()
}

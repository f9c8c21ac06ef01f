package sawmill

import (
	"fmt"
	"time"
)

// Record is the canonical resolved log call: one Record is built per enabled
// level invocation, rendered by exactly one formatter, and discarded.
type Record struct {
	// Time is the moment the call was resolved, from the logger's clock.
	Time time.Time
	// Level is the severity of the call.
	Level Level
	// Context is the merged ambient and per-call context.
	Context Context
	// Message is the primary value to render. It may be any type, including
	// [Undefined] when the call supplied no message.
	Message any
	// Args are the values interpolated into or appended after Message.
	Args []any
	// Cause is the associated error, if the call led with one.
	Cause error
}

// undefinedValue marks a log call that supplied no message at all. It renders
// literally as "undefined" in every formatter, distinct from an empty string.
type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined is the message of a record whose call supplied no message.
var Undefined undefinedValue

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// formatTime renders a timestamp as ISO-8601 with millisecond precision, in
// UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// stringify renders a single value the way message and argument positions
// expect: strings pass through, errors render as their summary, and anything
// else falls back to its default formatting.
func stringify(v any) string {
	switch x := v.(type) {
	case undefinedValue:
		return x.String()
	case string:
		return x
	case error:
		return errorSummary(x)
	case time.Time:
		return formatTime(x)
	case fmt.Stringer:
		return x.String()
	}

	return fmt.Sprint(v)
}

package sawmill

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-logfmt/logfmt"
)

// DefaultNotAvailable is the placeholder the [Delimited] formatter emits for
// absent or falsy fields.
const DefaultNotAvailable = "n/a"

// wellKnownKeys are the context keys promoted into the fixed field prefix,
// in output order.
var wellKnownKeys = []string{"corr", "trans", "op"}

// Delimited renders records as "key=value" pairs joined by " | ": a fixed
// prefix of time, lvl, corr, trans and op, then the remaining context keys,
// then the interpolated message as the trailing msg field. Absent or falsy
// fields are substituted with a configurable placeholder.
//
// Create instances with [NewDelimited].
type Delimited struct {
	notAvailable string
}

// DelimitedOption configures a [Delimited] formatter.
type DelimitedOption func(*Delimited)

// WithNotAvailable sets the placeholder for absent fields.
func WithNotAvailable(s string) DelimitedOption {
	return func(d *Delimited) {
		d.notAvailable = s
	}
}

// NewDelimited creates a [Delimited] formatter.
func NewDelimited(opts ...DelimitedOption) *Delimited {
	d := &Delimited{
		notAvailable: DefaultNotAvailable,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SetNotAvailable changes the absent-field placeholder for subsequent calls.
func (d *Delimited) SetNotAvailable(s string) {
	d.notAvailable = s
}

// Format renders rec per the rules above.
//
// The message is applied by whole-line interpolation: the constructed field
// prefix becomes the first interpolation argument of "%s | msg=<message>",
// so a message containing specifiers consumes the call's args exactly as a
// plain message position would.
func (d *Delimited) Format(rec Record) string {
	parts := []string{
		"time=" + formatTime(rec.Time),
		"lvl=" + rec.Level.String(),
	}

	for _, k := range wellKnownKeys {
		parts = append(parts, k+"="+d.fieldValue(rec.Context[k]))
	}

	parts = append(parts, d.extraPairs(rec.Context)...)

	prefix := strings.Join(parts, " | ")
	lineArgs := append([]any{prefix}, rec.Args...)
	line := interpolate("%s | msg="+stringify(rec.Message), lineArgs)

	if rec.Cause != nil {
		summary := errorSummary(rec.Cause)
		if summary != formatMessage(rec.Message, rec.Args) {
			line += " [" + summary + "]"
		}
	}

	return line
}

// extraPairs encodes the context keys outside the fixed prefix, sorted for
// stable output. Function-valued entries are dropped; falsy values render as
// the placeholder.
func (d *Delimited) extraPairs(ctx Context) []string {
	keys := make([]string, 0, len(ctx))

	for k := range ctx {
		if isWellKnown(k) || isFunc(ctx[k]) {
			continue
		}

		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, d.encodePair(k, ctx[k]))
	}

	return pairs
}

func (d *Delimited) encodePair(key string, v any) string {
	if isFalsy(v) {
		return key + "=" + d.notAvailable
	}

	b, err := logfmt.MarshalKeyvals(key, v)
	if err != nil || len(b) == 0 {
		return fmt.Sprintf("%s=%v", key, v)
	}

	return string(b)
}

func (d *Delimited) fieldValue(v any) string {
	if isFalsy(v) {
		return d.notAvailable
	}

	return stringify(v)
}

func isWellKnown(key string) bool {
	for _, k := range wellKnownKeys {
		if k == key {
			return true
		}
	}

	return false
}

func isFunc(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}

// isFalsy reports whether v is nil, an empty string, false, or a numeric
// zero, the values substituted with the not-available placeholder.
func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	default:
		return false
	}
}

package sawmill

import (
	"encoding/json"
	"fmt"
)

// Structured renders records as single-line JSON objects: all context
// entries, then time, lvl, msg, and err (present only when a cause was
// supplied). Encoding failures are contained by a lossy fallback that
// replaces unencodable values, so Format never panics over application data.
//
// Create instances with [NewStructured].
type Structured struct {
	traceAt [numLevels]bool
}

// StructuredOption configures a [Structured] formatter.
type StructuredOption func(*Structured)

// WithStructuredTraceLevels sets the severities whose err field carries the
// full detail, including stack traces. The default is [DefaultTraceLevels].
func WithStructuredTraceLevels(levels ...Level) StructuredOption {
	return func(s *Structured) {
		s.traceAt = levelMask(levels)
	}
}

// NewStructured creates a [Structured] formatter.
func NewStructured(opts ...StructuredOption) *Structured {
	s := &Structured{
		traceAt: levelMask(DefaultTraceLevels()),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Format renders rec per the rules above.
func (s *Structured) Format(rec Record) string {
	m := make(map[string]any, len(rec.Context)+4)

	for k, v := range rec.Context {
		m[k] = v
	}

	m["time"] = formatTime(rec.Time)
	m["lvl"] = rec.Level.String()
	m["msg"] = formatMessage(rec.Message, rec.Args)

	if rec.Cause != nil {
		trace := rec.Level.valid() && s.traceAt[rec.Level]
		desc := Describe(rec.Cause, trace)

		errObj := map[string]any{"summary": desc.Summary}
		if trace && desc.Detail != "" {
			errObj["detail"] = desc.Detail
		}

		m["err"] = errObj
	}

	b, err := json.Marshal(m)
	if err != nil {
		b = lossyMarshal(m)
	}

	return string(b)
}

// lossyMarshal replaces every value that cannot be JSON-encoded (cyclic
// structures, channels, functions) with a typed placeholder string, then
// encodes the rest. It trades fidelity for the guarantee that the structured
// formatter never raises.
func lossyMarshal(m map[string]any) []byte {
	safe := make(map[string]any, len(m))

	for k, v := range m {
		if _, err := json.Marshal(v); err != nil {
			safe[k] = fmt.Sprintf("!(unencodable %T)", v)
			continue
		}

		safe[k] = v
	}

	b, err := json.Marshal(safe)
	if err != nil {
		// Every value was individually vetted above.
		return []byte("{}")
	}

	return b
}

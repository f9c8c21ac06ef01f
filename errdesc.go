package sawmill

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrorDescriptor is the printable form of a cause error: a one-line summary
// and an optional multi-line detail covering the cause chain and, when
// requested, stack traces.
type ErrorDescriptor struct {
	// Summary is "Name: message" for the outermost error.
	Summary string
	// Detail is the full multi-line rendering. Its first line repeats
	// Summary; it is empty when there is nothing beyond the summary.
	Detail string
}

// Remainder returns Detail without its leading summary line, for callers
// that have already rendered the summary.
func (d ErrorDescriptor) Remainder() string {
	if d.Detail == "" {
		return ""
	}

	if i := strings.IndexByte(d.Detail, '\n'); i >= 0 {
		return d.Detail[i+1:]
	}

	return ""
}

// namedError lets an error control the name used in its summary. Errors
// without it render as "Error".
type namedError interface {
	Name() string
}

// stackTracer is the stack contract of [github.com/pkg/errors]. Errors
// without a recorded stack simply have their frames omitted.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// errorName uses a direct assertion rather than errors.As: each entry in a
// cause chain reports its own name, never a wrapped one's.
func errorName(err error) string {
	if n, ok := err.(namedError); ok {
		return n.Name()
	}

	return "Error"
}

func errorSummary(err error) string {
	return errorName(err) + ": " + err.Error()
}

// Describe builds an [ErrorDescriptor] for err. When includeTrace is set,
// stack frames recorded on the error or any of its causes are listed under
// the line that introduced them.
func Describe(err error, includeTrace bool) ErrorDescriptor {
	if err == nil {
		return ErrorDescriptor{}
	}

	lines := []string{errorSummary(err)}

	for e, depth := err, 0; e != nil; e, depth = errors.Unwrap(e), depth+1 {
		if depth > 0 {
			lines = append(lines, "caused by: "+errorSummary(e))
		}

		if includeTrace {
			lines = append(lines, stackLines(e)...)
		}
	}

	detail := ""
	if len(lines) > 1 {
		detail = strings.Join(lines, "\n")
	}

	return ErrorDescriptor{
		Summary: lines[0],
		Detail:  detail,
	}
}

// stackLines renders the frames recorded directly on err, one per line.
// Frames recorded on wrapped causes are reported by their own chain entry,
// so errors.As is deliberately not used here.
func stackLines(err error) []string {
	st, ok := err.(stackTracer)
	if !ok {
		return nil
	}

	frames := st.StackTrace()
	lines := make([]string, 0, len(frames))

	for _, f := range frames {
		lines = append(lines, fmt.Sprintf("    at %n (%v)", f, f))
	}

	return lines
}

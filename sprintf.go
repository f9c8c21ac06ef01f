package sawmill

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// interpolate substitutes printf-style specifiers in format with args.
//
// Supported specifiers are %s (stringify), %d and %i (number), %f (float),
// %j (JSON), and the literal %%. A specifier with no remaining argument is
// passed through literally; arguments left over after interpolation are
// appended space-separated.
func interpolate(format string, args []any) string {
	var sb strings.Builder

	next := 0

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			sb.WriteByte(c)
			continue
		}

		verb := format[i+1]
		if verb == '%' {
			sb.WriteByte('%')
			i++

			continue
		}

		if !isVerb(verb) {
			sb.WriteByte(c)
			continue
		}

		// Recognized specifier with no argument left: keep the literal text.
		if next >= len(args) {
			sb.WriteByte(c)
			sb.WriteByte(verb)
			i++

			continue
		}

		sb.WriteString(substitute(verb, args[next]))
		next++
		i++
	}

	for ; next < len(args); next++ {
		sb.WriteByte(' ')
		sb.WriteString(stringify(args[next]))
	}

	return sb.String()
}

func isVerb(b byte) bool {
	switch b {
	case 's', 'd', 'i', 'f', 'j':
		return true
	}

	return false
}

func substitute(verb byte, arg any) string {
	switch verb {
	case 's':
		return stringify(arg)
	case 'd', 'i', 'f':
		if isNumeric(arg) {
			return fmt.Sprint(arg)
		}

		return "NaN"
	case 'j':
		b, err := json.Marshal(arg)
		if err != nil {
			return "[unserializable]"
		}

		return string(b)
	}

	return stringify(arg)
}

func isNumeric(v any) bool {
	if v == nil {
		return false
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// formatMessage renders a record's message and args. String messages act as
// format strings for interpolate; any other message is stringified with the
// args appended space-separated.
func formatMessage(msg any, args []any) string {
	if s, ok := msg.(string); ok {
		return interpolate(s, args)
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, stringify(msg))

	for _, a := range args {
		parts = append(parts, stringify(a))
	}

	return strings.Join(parts, " ")
}

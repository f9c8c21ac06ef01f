package sawmill

// Formatter renders a resolved [Record] to a single output line. A Formatter
// must be pure: it never mutates the record, and rendering the same record
// twice yields identical output.
type Formatter interface {
	Format(rec Record) string
}

// FormatterFunc adapts a function to the [Formatter] interface.
type FormatterFunc func(rec Record) string

// Format calls f with rec.
func (f FormatterFunc) Format(rec Record) string {
	return f(rec)
}

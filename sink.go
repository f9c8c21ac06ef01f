package sawmill

import (
	"errors"
	"io"
)

// Sink is the destination for rendered log lines. Implementations append
// their own line terminator and are called synchronously from the logging
// call; the logger neither buffers nor retries.
type Sink interface {
	WriteLine(line string) error
}

type writerSink struct {
	w io.Writer
}

// WriterSink adapts an [io.Writer] to the [Sink] contract, appending a
// trailing newline to every line.
func WriterSink(w io.Writer) Sink {
	return writerSink{w: w}
}

func (s writerSink) WriteLine(line string) error {
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// MultiSink tees every line to all member sinks. All members are written
// even when one fails; the errors are joined.
type MultiSink []Sink

// WriteLine delivers line to every member sink.
func (m MultiSink) WriteLine(line string) error {
	var errs []error

	for _, s := range m {
		if err := s.WriteLine(line); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

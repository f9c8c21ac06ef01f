package sawmill

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Logger ties a severity threshold, an ambient context provider, a formatter
// and a sink together. All bindings live in one immutable state value behind
// an atomic pointer: setters build a fresh state and swap it, so concurrent
// log calls never observe a partially updated configuration.
//
// Create instances with [New], derive scoped instances with [Logger.Child],
// or use the process-wide [Default].
type Logger struct {
	mu    sync.Mutex // serializes setters
	state atomic.Pointer[state]
}

// state is the complete immutable binding set of a [Logger]. The emit table
// is rebuilt wholesale whenever the threshold changes; disabled severities
// bind a no-op so their calls skip resolution and formatting entirely.
type state struct {
	level     Level
	formatter Formatter
	sink      Sink
	context   ContextFunc
	clock     func() time.Time
	emit      [numLevels]emitFunc
}

type emitFunc func(st *state, level Level, args []any) error

// Option configures a [Logger] at construction time.
type Option func(*state)

// WithLevel sets the minimum severity. The default is [LevelInfo].
func WithLevel(l Level) Option {
	return func(st *state) {
		st.level = l
	}
}

// WithFormatter sets the formatter. The default is [NewStructured].
func WithFormatter(f Formatter) Option {
	return func(st *state) {
		st.formatter = f
	}
}

// WithSink sets the output sink.
func WithSink(s Sink) Option {
	return func(st *state) {
		st.sink = s
	}
}

// WithWriter sets the output sink to a [WriterSink] over w.
// The default writer is [os.Stderr].
func WithWriter(w io.Writer) Option {
	return func(st *state) {
		st.sink = WriterSink(w)
	}
}

// WithContextGetter sets the ambient context provider. The default returns
// an empty context.
func WithContextGetter(fn ContextFunc) Option {
	return func(st *state) {
		st.context = fn
	}
}

// WithContext sets a fixed ambient context.
func WithContext(ctx Context) Option {
	return func(st *state) {
		st.context = func() Context { return ctx }
	}
}

// WithClock sets the time source used to stamp records, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(st *state) {
		st.clock = clock
	}
}

// New creates a [Logger]. Without options it logs at [LevelInfo] through the
// structured formatter to os.Stderr.
func New(opts ...Option) *Logger {
	st := &state{
		level:     LevelInfo,
		formatter: NewStructured(),
		sink:      WriterSink(os.Stderr),
		context:   emptyContext,
		clock:     time.Now,
	}

	for _, opt := range opts {
		opt(st)
	}

	st.emit = gate(st.level)

	l := &Logger{}
	l.state.Store(st)

	return l
}

// gate builds the per-severity emit table for threshold min. The table is
// always rebuilt whole, never patched in place.
func gate(min Level) [numLevels]emitFunc {
	var t [numLevels]emitFunc

	for i := range t {
		if Level(i) >= min {
			t[i] = emit
		} else {
			t[i] = nopEmit
		}
	}

	return t
}

func nopEmit(*state, Level, []any) error { return nil }

func emit(st *state, level Level, args []any) error {
	rec := resolve(st, level, args)
	return st.sink.WriteLine(st.formatter.Format(rec))
}

// resolve classifies the variadic arguments of a level call into a [Record].
// First match wins: a leading error becomes the cause, a leading context map
// merges over the ambient context, anything else is the message. The ambient
// provider is invoked exactly once per call.
func resolve(st *state, level Level, args []any) Record {
	rec := Record{
		Time:    st.clock(),
		Level:   level,
		Context: st.context(),
		Message: Undefined,
	}

	if len(args) == 0 {
		return rec
	}

	switch first := args[0].(type) {
	case error:
		rec.Cause = first
		if len(args) == 1 {
			rec.Message = errorSummary(first)
		} else {
			rec.Message = args[1]
			rec.Args = args[2:]
		}
	case Context:
		rec.Context = Merge(rec.Context, first)
		resolveTail(&rec, args)
	case map[string]any:
		rec.Context = Merge(rec.Context, Context(first))
		resolveTail(&rec, args)
	default:
		// Covers nil, strings, numbers, slices, time.Time: all are message
		// material, never an implicit context.
		rec.Message = first
		rec.Args = args[1:]
	}

	return rec
}

func resolveTail(rec *Record, args []any) {
	if len(args) > 1 {
		rec.Message = args[1]
		rec.Args = args[2:]
	}
}

// Debug logs at [LevelDebug].
func (l *Logger) Debug(args ...any) { l.logAt(LevelDebug, args) }

// Info logs at [LevelInfo].
func (l *Logger) Info(args ...any) { l.logAt(LevelInfo, args) }

// Warn logs at [LevelWarn].
func (l *Logger) Warn(args ...any) { l.logAt(LevelWarn, args) }

// Error logs at [LevelError].
func (l *Logger) Error(args ...any) { l.logAt(LevelError, args) }

// Fatal logs at [LevelFatal]. It does not terminate the process.
func (l *Logger) Fatal(args ...any) { l.logAt(LevelFatal, args) }

func (l *Logger) logAt(level Level, args []any) {
	st := l.state.Load()
	_ = st.emit[level](st, level, args)
}

// Log writes at an arbitrary severity and surfaces the sink's write error,
// for callers that need to observe delivery failures.
func (l *Logger) Log(level Level, args ...any) error {
	if !level.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}

	st := l.state.Load()

	return st.emit[level](st, level, args)
}

// SetLevel sets the minimum severity by name, case-insensitively. Unknown
// names return an error wrapping [ErrInvalidLevel] and leave the logger
// unchanged.
func (l *Logger) SetLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}

	l.update(func(st *state) {
		st.level = lvl
		st.emit = gate(lvl)
	})

	return nil
}

// Level returns the active minimum severity.
func (l *Logger) Level() Level {
	return l.state.Load().level
}

// SetFormatter replaces the formatter for subsequent calls.
func (l *Logger) SetFormatter(f Formatter) {
	l.update(func(st *state) {
		st.formatter = f
	})
}

// Formatter returns the active formatter.
func (l *Logger) Formatter() Formatter {
	return l.state.Load().formatter
}

// SetStream replaces the output sink for subsequent calls.
func (l *Logger) SetStream(s Sink) {
	l.update(func(st *state) {
		st.sink = s
	})
}

// Stream returns the active sink.
func (l *Logger) Stream() Sink {
	return l.state.Load().sink
}

// SetContextGetter replaces the ambient context provider.
func (l *Logger) SetContextGetter(fn ContextFunc) {
	l.update(func(st *state) {
		st.context = fn
	})
}

// GetContext invokes the ambient context provider once and returns its
// result.
func (l *Logger) GetContext() Context {
	return l.state.Load().context()
}

// Child derives a logger that captures the current threshold, formatter and
// sink, with an ambient context provider composed as
// merge(parent(), ctx): the supplied context wins on key collisions, and the
// parent's provider is consulted live on every call, so a later
// [Logger.SetContextGetter] on the parent reaches existing children.
func (l *Logger) Child(ctx Context) *Logger {
	next := *l.state.Load()
	next.context = func() Context {
		return Merge(l.state.Load().context(), ctx)
	}

	c := &Logger{}
	c.state.Store(&next)

	return c
}

func (l *Logger) update(fn func(*state)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := *l.state.Load()
	fn(&next)
	l.state.Store(&next)
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the process-wide logger, constructed on first use from the
// environment (see [Config.LoadEnv]) and writing to os.Stderr. It is an
// ordinary [*Logger] value; prefer passing it explicitly over reaching for
// this accessor deep in call stacks.
func Default() *Logger {
	defaultOnce.Do(func() {
		cfg := NewConfig()
		cfg.LoadEnv()

		l, err := cfg.NewLogger(os.Stderr)
		if err != nil {
			l = New()
		}

		defaultLogger = l
	})

	return defaultLogger
}

package sawmill_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/sawmill"
	"go.jacobcolvin.com/sawmill/linetest"
)

// recordingFormatter captures every record it renders, for asserting on the
// resolver's output.
type recordingFormatter struct {
	records []sawmill.Record
}

func (f *recordingFormatter) Format(rec sawmill.Record) string {
	f.records = append(f.records, rec)
	return "rendered"
}

func (f *recordingFormatter) last(t *testing.T) sawmill.Record {
	t.Helper()
	require.NotEmpty(t, f.records)

	return f.records[len(f.records)-1]
}

// failingSink always returns the configured error.
type failingSink struct {
	err error
}

func (s failingSink) WriteLine(string) error { return s.err }

func newRecordingLogger(opts ...sawmill.Option) (*sawmill.Logger, *recordingFormatter) {
	f := &recordingFormatter{}
	opts = append([]sawmill.Option{
		sawmill.WithLevel(sawmill.LevelDebug),
		sawmill.WithFormatter(f),
		sawmill.WithWriter(&bytes.Buffer{}),
	}, opts...)

	return sawmill.New(opts...), f
}

func TestResolveBareMessage(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger()
	logger.Info("hello")

	rec := f.last(t)
	assert.Equal(t, sawmill.LevelInfo, rec.Level)
	assert.Equal(t, "hello", rec.Message)
	assert.Empty(t, rec.Args)
	assert.NoError(t, rec.Cause)
	assert.Empty(t, rec.Context)
}

func TestResolveMessageWithArgs(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger()
	logger.Info("got %d from %s", 200, "upstream")

	rec := f.last(t)
	assert.Equal(t, "got %d from %s", rec.Message)
	assert.Equal(t, []any{200, "upstream"}, rec.Args)
}

func TestResolveNoArguments(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger()
	logger.Info()

	rec := f.last(t)
	assert.Equal(t, sawmill.Undefined, rec.Message)
	assert.Empty(t, rec.Args)
}

func TestResolveErrorLed(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	t.Run("sole error becomes message", func(t *testing.T) {
		t.Parallel()

		logger, f := newRecordingLogger()
		logger.Error(cause)

		rec := f.last(t)
		assert.Equal(t, cause, rec.Cause)
		assert.Equal(t, "Error: boom", rec.Message)
		assert.Empty(t, rec.Args)
	})

	t.Run("error with message is trailing context", func(t *testing.T) {
		t.Parallel()

		logger, f := newRecordingLogger()
		logger.Error(cause, "request failed: %s", "checkout")

		rec := f.last(t)
		assert.Equal(t, cause, rec.Cause)
		assert.Equal(t, "request failed: %s", rec.Message)
		assert.Equal(t, []any{"checkout"}, rec.Args)
	})
}

func TestResolveContextLed(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger(
		sawmill.WithContext(sawmill.Context{"corr": "ambient", "region": "eu"}),
	)

	logger.Info(sawmill.Context{"corr": "per-call"}, "msg %d", 1)

	rec := f.last(t)
	assert.Equal(t, "per-call", rec.Context["corr"], "call-site context wins")
	assert.Equal(t, "eu", rec.Context["region"])
	assert.Equal(t, "msg %d", rec.Message)
	assert.Equal(t, []any{1}, rec.Args)
}

func TestResolvePlainMapIsContext(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger()
	logger.Info(map[string]any{"op": "sync"}, "running")

	rec := f.last(t)
	assert.Equal(t, "sync", rec.Context["op"])
	assert.Equal(t, "running", rec.Message)
}

func TestResolveContextLedWithoutMessage(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger()
	logger.Info(sawmill.Context{"op": "sync"})

	rec := f.last(t)
	assert.Equal(t, "sync", rec.Context["op"])
	assert.Equal(t, sawmill.Undefined, rec.Message)
}

func TestResolveTimeIsNotContext(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger()
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	logger.Info(when)

	rec := f.last(t)
	assert.Equal(t, when, rec.Message)
	assert.Empty(t, rec.Context)
}

func TestResolveNilFirstArgument(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger()
	logger.Info(nil, "trailing")

	rec := f.last(t)
	assert.Nil(t, rec.Message)
	assert.Equal(t, []any{"trailing"}, rec.Args)
	assert.NoError(t, rec.Cause)
}

func TestContextProviderInvokedOncePerCall(t *testing.T) {
	t.Parallel()

	calls := 0
	logger, _ := newRecordingLogger(
		sawmill.WithContextGetter(func() sawmill.Context {
			calls++
			return sawmill.Context{"n": calls}
		}),
	)

	logger.Info(sawmill.Context{"extra": true}, "merged")
	assert.Equal(t, 1, calls)

	logger.Info("plain")
	assert.Equal(t, 2, calls)
}

func TestDisabledLevelIsNoOp(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	f := &recordingFormatter{}
	contextCalls := 0

	logger := sawmill.New(
		sawmill.WithLevel(sawmill.LevelWarn),
		sawmill.WithFormatter(f),
		sawmill.WithWriter(&buf),
		sawmill.WithContextGetter(func() sawmill.Context {
			contextCalls++
			return sawmill.Context{}
		}),
	)

	logger.Debug("dropped")
	logger.Info("dropped")

	assert.Empty(t, f.records, "formatter must not run for disabled levels")
	assert.Zero(t, contextCalls, "context provider must not run for disabled levels")
	assert.Zero(t, buf.Len(), "sink must not be written for disabled levels")

	logger.Warn("kept")
	assert.Len(t, f.records, 1)
	assert.Equal(t, "rendered\n", buf.String())
}

func TestSetLevel(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger()

	require.NoError(t, logger.SetLevel("ERROR"))
	assert.Equal(t, sawmill.LevelError, logger.Level())

	logger.Info("dropped")
	logger.Error("kept")
	require.Len(t, f.records, 1)

	err := logger.SetLevel("loud")
	require.ErrorIs(t, err, sawmill.ErrInvalidLevel)
	assert.Equal(t, sawmill.LevelError, logger.Level(), "rejected names leave the level unchanged")
}

func TestLogSurfacesSinkError(t *testing.T) {
	t.Parallel()

	sinkErr := errors.New("pipe closed")
	logger := sawmill.New(
		sawmill.WithLevel(sawmill.LevelDebug),
		sawmill.WithSink(failingSink{err: sinkErr}),
	)

	require.ErrorIs(t, logger.Log(sawmill.LevelInfo, "msg"), sinkErr)

	err := logger.Log(sawmill.Level(42), "msg")
	require.ErrorIs(t, err, sawmill.ErrInvalidLevel)
}

func TestChildComposesContext(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger(
		sawmill.WithContext(sawmill.Context{"corr": "parent", "region": "eu"}),
	)

	child := logger.Child(sawmill.Context{"corr": "child", "op": "sync"})
	child.Info("from child")

	rec := f.last(t)
	assert.Equal(t, "child", rec.Context["corr"], "child context wins over parent")
	assert.Equal(t, "eu", rec.Context["region"])
	assert.Equal(t, "sync", rec.Context["op"])

	logger.Info("from parent")
	rec = f.last(t)
	assert.Equal(t, "parent", rec.Context["corr"])
	assert.NotContains(t, rec.Context, "op")
}

func TestChildTracksParentProvider(t *testing.T) {
	t.Parallel()

	logger, f := newRecordingLogger()
	child := logger.Child(sawmill.Context{"op": "sync"})

	// The parent's provider is consulted at log time, so ambient values set
	// after derivation still flow into the child.
	logger.SetContextGetter(func() sawmill.Context {
		return sawmill.Context{"corr": "late"}
	})

	child.Info("msg")

	rec := f.last(t)
	assert.Equal(t, "late", rec.Context["corr"])
	assert.Equal(t, "sync", rec.Context["op"])
}

func TestChildCapturesBindings(t *testing.T) {
	t.Parallel()

	var original, rebound bytes.Buffer

	logger := sawmill.New(
		sawmill.WithLevel(sawmill.LevelDebug),
		sawmill.WithFormatter(sawmill.FormatterFunc(func(sawmill.Record) string { return "line" })),
		sawmill.WithWriter(&original),
	)

	child := logger.Child(sawmill.Context{"op": "sync"})

	// Rebinding the parent after derivation does not affect the child.
	logger.SetStream(sawmill.WriterSink(&rebound))

	child.Info("from child")
	logger.Info("from parent")

	assert.Equal(t, "line\n", original.String())
	assert.Equal(t, "line\n", rebound.String())
}

func TestSetFormatterAndStream(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer

	logger := sawmill.New(
		sawmill.WithLevel(sawmill.LevelDebug),
		sawmill.WithFormatter(sawmill.FormatterFunc(func(sawmill.Record) string { return "one" })),
		sawmill.WithWriter(&first),
	)

	logger.Info("a")

	logger.SetFormatter(sawmill.FormatterFunc(func(sawmill.Record) string { return "two" }))
	logger.SetStream(sawmill.WriterSink(&second))
	logger.Info("b")

	assert.Equal(t, "one\n", first.String())
	assert.Equal(t, "two\n", second.String())
}

func TestRenderingIsIdempotent(t *testing.T) {
	t.Parallel()

	rec := sawmill.Record{
		Time:    linetest.Epoch(),
		Level:   sawmill.LevelWarn,
		Context: sawmill.Context{"corr": "abc", "attempt": 3},
		Message: "try %d of %d",
		Args:    []any{1, 3},
		Cause:   errors.New("boom"),
	}

	for name, formatter := range map[string]sawmill.Formatter{
		"human":      sawmill.NewHuman(sawmill.WithColor(false)),
		"delimited":  sawmill.NewDelimited(),
		"structured": sawmill.NewStructured(),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, formatter.Format(rec), formatter.Format(rec))
		})
	}
}

func TestGetContext(t *testing.T) {
	t.Parallel()

	logger := sawmill.New(sawmill.WithContext(sawmill.Context{"corr": "abc"}))
	assert.Equal(t, sawmill.Context{"corr": "abc"}, logger.GetContext())

	assert.Empty(t, sawmill.New().GetContext())
}

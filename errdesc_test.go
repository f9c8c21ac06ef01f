package sawmill_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/sawmill"
)

type timeoutError struct {
	msg string
}

func (e *timeoutError) Error() string { return e.msg }
func (e *timeoutError) Name() string  { return "TimeoutError" }

func TestDescribePlainError(t *testing.T) {
	t.Parallel()

	desc := sawmill.Describe(errors.New("boom"), false)

	assert.Equal(t, "Error: boom", desc.Summary)
	assert.Empty(t, desc.Detail)
	assert.Empty(t, desc.Remainder())
}

func TestDescribeNamedError(t *testing.T) {
	t.Parallel()

	desc := sawmill.Describe(&timeoutError{msg: "deadline exceeded"}, false)

	assert.Equal(t, "TimeoutError: deadline exceeded", desc.Summary)
}

func TestDescribeCauseChain(t *testing.T) {
	t.Parallel()

	inner := &timeoutError{msg: "deadline exceeded"}
	outer := fmt.Errorf("fetching profile: %w", inner)

	desc := sawmill.Describe(outer, false)

	require.Equal(t, "Error: fetching profile: deadline exceeded", desc.Summary)

	lines := strings.Split(desc.Detail, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, desc.Summary, lines[0])
	assert.Equal(t, "caused by: TimeoutError: deadline exceeded", lines[1])

	assert.Equal(t, lines[1], desc.Remainder())
}

func TestDescribeWithTrace(t *testing.T) {
	t.Parallel()

	err := pkgerrors.New("connection reset")

	desc := sawmill.Describe(err, true)

	require.Equal(t, "Error: connection reset", desc.Summary)
	require.NotEmpty(t, desc.Detail)

	lines := strings.Split(desc.Detail, "\n")
	require.Equal(t, desc.Summary, lines[0])
	require.Greater(t, len(lines), 1)

	for _, frame := range lines[1:] {
		assert.True(t, strings.HasPrefix(frame, "    at "), "frame line %q", frame)
	}

	// This test function must appear in the recorded stack.
	assert.Contains(t, desc.Detail, "TestDescribeWithTrace")
}

func TestDescribeStacklessWithTrace(t *testing.T) {
	t.Parallel()

	// Synthesized errors without a recorded stack degrade to the summary.
	desc := sawmill.Describe(errors.New("no stack here"), true)

	assert.Equal(t, "Error: no stack here", desc.Summary)
	assert.Empty(t, desc.Detail)
}

func TestDescribeNil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sawmill.ErrorDescriptor{}, sawmill.Describe(nil, true))
}

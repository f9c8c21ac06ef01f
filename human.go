package sawmill

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
)

// continuation lines align under the message start: the widest level token
// (5 characters) plus the separating space.
const humanIndent = "      "

// Human renders records for interactive development use: a fixed-width
// colored level token, the interpolated message, the error descriptor when a
// cause is attached, and any remaining context as a dimmed trailing fragment.
// Multi-line output is re-indented so continuation lines align under the
// message.
//
// Create instances with [NewHuman].
type Human struct {
	levelStyles [numLevels]lipgloss.Style
	dimStyle    lipgloss.Style
	traceAt     [numLevels]bool
	omit        map[string]bool
	color       bool
}

// HumanOption configures a [Human] formatter.
type HumanOption func(*Human)

// WithColor enables or disables ANSI styling. Styling is on by default.
func WithColor(enabled bool) HumanOption {
	return func(h *Human) {
		h.color = enabled
	}
}

// WithOmitKeys excludes the given context keys from the trailing context
// fragment.
func WithOmitKeys(keys ...string) HumanOption {
	return func(h *Human) {
		for _, k := range keys {
			h.omit[k] = true
		}
	}
}

// WithHumanTraceLevels sets the severities whose causes render with full
// stack traces. The default is [DefaultTraceLevels].
func WithHumanTraceLevels(levels ...Level) HumanOption {
	return func(h *Human) {
		h.traceAt = levelMask(levels)
	}
}

// NewHuman creates a [Human] formatter.
func NewHuman(opts ...HumanOption) *Human {
	h := &Human{
		traceAt: levelMask(DefaultTraceLevels()),
		omit:    map[string]bool{},
		color:   true,
	}

	h.levelStyles[LevelDebug] = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	h.levelStyles[LevelInfo] = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	h.levelStyles[LevelWarn] = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	h.levelStyles[LevelError] = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	h.levelStyles[LevelFatal] = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	h.dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Format renders rec per the rules above.
func (h *Human) Format(rec Record) string {
	token := fmt.Sprintf("%-5s", rec.Level.String())
	if h.color {
		token = h.levelStyles[h.styleIndex(rec.Level)].Render(token)
	}

	body := formatMessage(rec.Message, rec.Args)

	if rec.Cause != nil {
		body += h.causeText(rec, body)
	}

	if frag := h.contextFragment(rec.Context); frag != "" {
		body += "\n" + h.dim(frag)
	}

	return token + " " + strings.ReplaceAll(body, "\n", "\n"+humanIndent)
}

func (h *Human) styleIndex(l Level) Level {
	if !l.valid() {
		return LevelError
	}

	return l
}

// causeText renders the error descriptor. When the message is exactly the
// descriptor's summary (the caller passed only the error), only the
// remainder is appended so the name and message are not duplicated.
func (h *Human) causeText(rec Record, message string) string {
	trace := rec.Level.valid() && h.traceAt[rec.Level]
	desc := Describe(rec.Cause, trace)

	if message == desc.Summary {
		if rest := desc.Remainder(); rest != "" {
			return "\n" + h.dim(rest)
		}

		return ""
	}

	if desc.Detail != "" {
		return "\n" + h.dim(desc.Detail)
	}

	return "\n" + h.dim(desc.Summary)
}

// contextFragment pretty-prints the context minus the omit list, with keys
// sorted for stable output. Empty contexts render as nothing.
func (h *Human) contextFragment(ctx Context) string {
	keys := make([]string, 0, len(ctx))

	for k := range ctx {
		if !h.omit[k] {
			keys = append(keys, k)
		}
	}

	if len(keys) == 0 {
		return ""
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+contextValue(ctx[k]))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

func contextValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return stringify(v)
}

func (h *Human) dim(s string) string {
	if !h.color {
		return s
	}

	return h.dimStyle.Render(s)
}

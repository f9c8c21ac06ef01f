package sawmill

// Context is structured metadata attached to log records, for example a
// correlation id shared by all lines of one request. Contexts passed to the
// logger are treated as immutable; composition always allocates a new map.
type Context map[string]any

// ContextFunc returns the ambient [Context] for a log call. It is invoked at
// most once per enabled call, so it may read request-scoped state.
type ContextFunc func() Context

// Merge combines two contexts into a new map. For keys present in both, the
// value from b wins. Neither input is mutated; nil inputs are treated as
// empty.
func Merge(a, b Context) Context {
	merged := make(Context, len(a)+len(b))
	for k, v := range a {
		merged[k] = v
	}

	for k, v := range b {
		merged[k] = v
	}

	return merged
}

func emptyContext() Context {
	return Context{}
}

// Package sawmill is a leveled, structured logging façade.
//
// Each severity method accepts a flexible argument shape: a bare message, a
// format string with printf-style arguments, a leading error, or a leading
// context map. The call is resolved into a canonical record, filtered
// against the configured minimum severity, rendered by a pluggable
// formatter, and written to an output sink.
//
//	logger := sawmill.New(sawmill.WithFormatter(sawmill.NewHuman()))
//	logger.Info("listening on %s", addr)
//	logger.Error(err, "request failed")
//	logger.Warn(sawmill.Context{"corr": id}, "slow response")
//
// Three formatters are built in: [NewHuman] (colorized, for development),
// [NewDelimited] (pipe-separated key=value pairs), and [NewStructured]
// (single-line JSON). All implement [Formatter]; custom renderers plug in
// through the same interface.
//
// [Logger.Child] derives a scoped instance whose ambient context composes
// with the parent's:
//
//	reqLogger := logger.Child(sawmill.Context{"corr": correlationID})
//	reqLogger.Debug("cache miss")
//
// Disabled severities are bound to no-ops when the level is set, so calls
// below the threshold skip resolution and formatting entirely.
//
// Configuration from flags, the environment, or a YAML file goes through
// [Config]:
//
//	cfg := sawmill.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.LoadEnv()
//
//	logger, err := cfg.NewLogger(os.Stderr)
package sawmill

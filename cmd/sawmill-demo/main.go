// Package main provides sawmill-demo, a small CLI that exercises the sawmill
// logging pipeline: it builds a logger from flags and the environment, then
// emits sample records through every argument shape.
package main

import (
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/sawmill"
	"go.jacobcolvin.com/sawmill/version"
)

func main() {
	cfg := sawmill.NewConfig()
	cfg.LoadEnv()

	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   "sawmill-demo [flags]",
		Short: "Emit sample log records through the sawmill pipeline",
		Long: `sawmill-demo builds a logger from --log-level and --log-format (or the
SAWMILL_LEVEL, SAWMILL_FORMAT and SAWMILL_DEV environment variables) and
writes a handful of sample records to stdout, one per call shape.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Println(version.String())
				return nil
			}

			return run(cfg)
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	completionErr := cfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *sawmill.Config) error {
	logger, err := cfg.NewLogger(os.Stdout)
	if err != nil {
		return err
	}

	logger.Debug("resolved config: level=%s format=%s", cfg.Level, cfg.Format)
	logger.Info("bare message")
	logger.Info("formatted message: %s took %d ms", "demo", 42)
	logger.Warn(sawmill.Context{"corr": "demo-1", "attempt": 2}, "leading context map")

	reqLogger := logger.Child(sawmill.Context{"corr": "demo-2", "op": "checkout"})
	reqLogger.Info("child logger with composed context")

	cause := pkgerrors.New("connection reset")
	reqLogger.Error(cause)
	reqLogger.Error(cause, "leading error with message %s", "and args")

	return nil
}

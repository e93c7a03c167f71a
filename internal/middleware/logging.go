package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// loggerKey is the key used to store the logger in the context.
// Using a custom type prevents collisions.
type contextKey string

const loggerKey = contextKey("logger")

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerFromCtx retrieves the run-scoped logger, or nil when none was attached.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok {
		return nil
	}
	return logger
}

// StructuredLogging returns a cobra PersistentPreRun hook that injects a
// run-scoped logger (run_id, command) into the command's context.
func StructuredLogging(baseLogger *slog.Logger) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		runLogger := baseLogger.With(
			slog.String("run_id", uuid.NewString()),
			slog.String("command", cmd.CommandPath()),
		)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(WithLogger(ctx, runLogger))
		runLogger.Debug("Command started", slog.Time("started_at", time.Now()))
	}
}

// LogCompletion logs how long the command took. Used as PersistentPostRun.
func LogCompletion(started time.Time) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		logger := GetLoggerFromCtx(cmd.Context())
		if logger == nil {
			logger = slog.Default()
		}
		logger.Info("Command completed", slog.Duration("latency", time.Since(started)))
	}
}

// Package observability builds the zap logger used by the service and the
// CLI, and carries it through request contexts.
package observability

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogLevel = "info"

type contextKey string

const loggerContextKey contextKey = "github.com/goliatone/go-changenotice/internal/observability/logger"

var noopLogger = zap.NewNop()

// ParseLevel resolves level, then LOG_LEVEL, then "info".
func ParseLevel(level string) zap.AtomicLevel {
	atomic := zap.NewAtomicLevel()
	for _, candidate := range []string{level, os.Getenv("LOG_LEVEL"), defaultLogLevel} {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		if err := atomic.UnmarshalText([]byte(candidate)); err == nil {
			return atomic
		}
	}
	return atomic
}

// NewLogger constructs a JSON zap logger writing to stdout.
func NewLogger(level string) (*zap.Logger, error) {
	return newLogger(level, []string{"stdout"})
}

// NewCLILogger is NewLogger with output sent to stderr so command output
// on stdout stays clean.
func NewCLILogger(level string) (*zap.Logger, error) {
	return newLogger(level, []string{"stderr"})
}

func newLogger(level string, outputs []string) (*zap.Logger, error) {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "severity",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
		EncodeDuration: zapcore.MillisDurationEncoder,
		CallerKey:      "caller",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		StacktraceKey:  "stacktrace",
	}

	cfg := zap.Config{
		Level:             ParseLevel(level),
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}

	return cfg.Build()
}

// WithLogger stores logger on ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext returns the logger stored on ctx or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return noopLogger
	}
	if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return noopLogger
}

// Nop exposes the shared no-op logger.
func Nop() *zap.Logger { return noopLogger }

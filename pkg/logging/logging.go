package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Dir     string
	Level   string
	Console bool
}

// ensureLogsDir makes sure the logs folder exists
func ensureLogsDir(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}
	return nil
}

// New builds the application logger. Everything at or above the configured
// level goes to app.log (and stdout when Console is set), errors are also
// copied to error.log.
func New(opts Options) (*zap.Logger, error) {
	if opts.Dir == "" {
		opts.Dir = "./logs"
	}
	if err := ensureLogsDir(opts.Dir); err != nil {
		return nil, err
	}

	level := zap.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	// app.log (general logs)
	appCore := zapcore.NewCore(encoder,
		zapcore.AddSync(&lumberjack.Logger{
			Filename: filepath.Join(opts.Dir, "app.log"), MaxSize: 100, MaxAge: 28, Compress: true,
		}),
		level,
	)

	// error.log
	errorCore := zapcore.NewCore(encoder,
		zapcore.AddSync(&lumberjack.Logger{
			Filename: filepath.Join(opts.Dir, "error.log"), MaxSize: 100, MaxAge: 30, Compress: true,
		}),
		zap.ErrorLevel,
	)

	cores := []zapcore.Core{appCore, errorCore}
	if opts.Console {
		consoleConfig := zap.NewDevelopmentEncoderConfig()
		consoleConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig),
			zapcore.Lock(os.Stdout),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

type traceIDKey struct{}

// WithTraceID stores the request trace id so service code can log it.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// LogDuration lets you do: defer logging.LogDuration(logger, ctx, "FuncName")()
func LogDuration(logger *zap.Logger, ctx context.Context, name string) func() {
	start := time.Now()

	return func() {
		fields := []zap.Field{
			zap.String("func", name),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if traceID := TraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		logger.Debug("Function timed", fields...)
	}
}

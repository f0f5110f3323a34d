package logger

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const LoggerKey = contextKey("logger")

var globalLogger *zap.SugaredLogger

// Init initializes the global logger based on configuration.
// Init 根据配置初始化全局日志记录器。
func Init(cfg LoggingConfig) {
	writeSyncer := zapcore.AddSync(os.Stdout)

	if cfg.Enabled && cfg.Path != "" {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			globalLogger = zap.NewExample().Sugar()
			globalLogger.Warnf("[WARN]  Failed to create log directory: %v", err)
		}

		rotator := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		writeSyncer = zapcore.AddSync(rotator)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewCore(encoder, writeSyncer, parseLevel(cfg.Level))
	globalLogger = zap.New(core, zap.AddCaller()).Sugar()

	globalLogger.Infof("[LOG] Logging initialized (Level: %s, Path: %s)", parseLevel(cfg.Level), cfg.Path)
}

// parseLevel maps the configured level string onto a zap level. Unknown
// values fall back to info.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Get returns the logger from context or the global logger.
// Get 从 Context 或全局日志记录器返回 Logger。
func Get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerKey).(*zap.SugaredLogger); ok {
			return logger
		}
	}
	if globalLogger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewExample().Sugar()
		}
		return l.Sugar()
	}
	return globalLogger
}

// Named returns the context logger scoped to a component name.
func Named(ctx context.Context, name string) *zap.SugaredLogger {
	return Get(ctx).Named(name)
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

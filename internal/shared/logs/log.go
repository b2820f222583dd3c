package logs

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"Civilization/internal/shared/serverconfig"
)

var (
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init 构建 console + 文件 两路输出的全局 logger。
func Init(appName string, cfg serverconfig.LogConfig) error {
	level.SetLevel(parseLevel(cfg.Level))

	// 2026-01-28T10:00:00 INFO  game-server  server start  game_main.go:12
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleCfg)
	consoleSyncer := zapcore.Lock(os.Stderr)

	// 文件走 JSON，不带颜色转义
	core := zapcore.NewCore(consoleEncoder, consoleSyncer, level)
	if cfg.FileDir != "" {
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		var fileWriter io.Writer = &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(fileWriter), level),
		)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	_ = logger.Sync()
	logger = zap.New(core, opts...).Named(appName)
	return nil
}

// SetLevel 热加载时调整级别，无需重建 logger。
func SetLevel(l string) {
	level.SetLevel(parseLevel(l))
}

func parseLevel(l string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(l))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Logger 未 Init 时返回 nop。
func Logger() *zap.Logger {
	return logger
}

func Sync() error {
	return logger.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

// Info 示例：Info("game created", zap.Int64("game_id", id))
func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

// Fatal 输出后 os.Exit(1)。
func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

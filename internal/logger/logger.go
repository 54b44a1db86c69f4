package logger

import (
	"log/slog"
	"os"
)

var base *slog.Logger

// Init installs the process-wide JSON logger. Call once at startup.
func Init() {
	base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(base)
	base.Info("logger initialized")
}

func get() *slog.Logger {
	if base == nil {
		Init()
	}
	return base
}

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

func Info(msg string, fields map[string]any) {
	get().Info(msg, attrs(fields)...)
}

func Warn(msg string, fields map[string]any) {
	get().Warn(msg, attrs(fields)...)
}

func Error(msg string, fields map[string]any) {
	get().Error(msg, attrs(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	get().Error(msg, attrs(fields)...)
	os.Exit(1)
}

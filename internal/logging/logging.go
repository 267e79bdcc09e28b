package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Open builds a file-backed JSON logger with rotation. The TUI owns the
// terminal, so nothing is ever written to stdout or stderr; background
// failures land in this file.
func Open(path string) *zap.Logger {
	if strings.TrimSpace(path) == "" {
		path = defaultPath()
	}

	syncer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	})
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, syncer, zap.InfoLevel)
	return zap.New(core)
}

func defaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.Getenv("HOME")
	}
	return filepath.Join(base, "fitterm", "fitterm.log")
}

package util

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

func GetLogger(level slog.Leveler) *slog.Logger {
	return NewLogger(os.Stdout, level, false)
}

// NewLogger builds a tint logger and installs it as the slog default.
func NewLogger(w io.Writer, level slog.Leveler, noColor bool) *slog.Logger {
	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    noColor,
	}))

	slog.SetDefault(logger)
	return logger
}

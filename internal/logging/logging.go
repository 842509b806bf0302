// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Setup returns a JSON logger writing to out at the named level
// ("debug", "info", "warn", ...). An empty level means info.
func Setup(out io.Writer, level string) (*logrus.Logger, error) {
	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		lvl = parsed
	}

	return &logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   out,
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}, nil
}

// Discard returns a logger that drops everything. Used when no logger is
// configured and in tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// StartTimer starts timing a call. The returned func reports the elapsed
// milliseconds, for the durationMs field.
func StartTimer() func() int64 {
	start := time.Now()
	return func() int64 {
		return time.Since(start).Milliseconds()
	}
}

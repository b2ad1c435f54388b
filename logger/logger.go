package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Package-level loggers. They write to stdout until InitLoggers is called, so
// packages and tests that never call it still get usable loggers.
var (
	InfoLogger  = newLogger(logrus.InfoLevel, os.Stdout, "text")
	WarnLogger  = newLogger(logrus.WarnLevel, os.Stdout, "text")
	ErrorLogger = newLogger(logrus.ErrorLevel, os.Stderr, "text")
)

// Options controls where and how log lines are written.
type Options struct {
	Level      string // debug, info, warn, error
	Format     string // json or text
	File       string // empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// InitLoggers configures the loggers from LOG_* environment variables.
func InitLoggers() {
	Configure(Options{
		Level:      os.Getenv("LOG_LEVEL"),
		Format:     os.Getenv("LOG_FORMAT"),
		File:       os.Getenv("LOG_FILE"),
		MaxSizeMB:  50,
		MaxBackups: 5,
		MaxAgeDays: 28,
	})
}

// Configure rebuilds the package loggers from opts.
func Configure(opts Options) {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		})
	}

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = logrus.InfoLevel
	}

	InfoLogger = newLogger(level, out, opts.Format)
	WarnLogger = newLogger(maxLevel(level, logrus.WarnLevel), out, opts.Format)
	ErrorLogger = newLogger(maxLevel(level, logrus.ErrorLevel), out, opts.Format)
}

func newLogger(level logrus.Level, out io.Writer, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// maxLevel returns the more restrictive of a and b. logrus orders levels from
// panic (0) to trace (6), so the smaller value is stricter.
func maxLevel(a, b logrus.Level) logrus.Level {
	if a < b {
		return a
	}
	return b
}

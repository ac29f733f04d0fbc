// Package logger holds the logrus logger of the moonphase command.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ngrash/go-moon/internal/config"
)

// Log is the global logger instance. It writes to stderr so that listings
// on stdout stay machine readable.
var Log = logrus.New()

// Init configures the global logger from cfg.
func Init(cfg config.Config) {
	Configure(Log, os.Stderr, cfg)
	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
	Log.Debugf("Log format set for environment: %s", cfg.Environment)
}

// Configure sets output, level and formatter of l. Production and staging
// environments log JSON, all others human readable text. An invalid level
// falls back to info.
func Configure(l *logrus.Logger, w io.Writer, cfg config.Config) {
	l.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		l.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		l.SetLevel(level)
	}

	switch cfg.Environment {
	case "production", "staging":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
}

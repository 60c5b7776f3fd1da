package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger writing to stdout
func NewLogger(appName, env string) *logrus.Logger {
	return NewLoggerTo(os.Stdout, appName, env)
}

// NewLoggerTo creates the same logger as NewLogger writing to w.
// Development gets colored text at debug level, everything else JSON at info.
func NewLoggerTo(w io.Writer, appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Debug("logger initialized")
	return logger
}

// NewDiscardLogger returns a logger that drops everything. Used by tests and tools.
func NewDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// LogError logs msg at error level with err attached
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	logger.WithFields(fields).WithError(err).Error(msg)
}

package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger: JSON lines on stdout at the given
// level. Unknown level names fall back to info rather than failing boot.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

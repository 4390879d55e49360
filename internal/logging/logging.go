package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warn", "error"}

// New builds the logger shared by the search and the reporters. An empty or unknown
// level falls back to info, or debug when verbose is set.
func New(level string, verbose bool) *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}
	}

	return logger
}

func ValidLevel(level string) bool {
	if level == "" {
		return true
	}

	for _, l := range Levels {
		if strings.EqualFold(l, level) {
			return true
		}
	}

	return false
}

package logging

import (
	"github.com/sirupsen/logrus"
)

// ServiceName is the name reported in every log entry.
const ServiceName = "notification-dispatcher"

// Log is the base log entry for the service.
var Log = logrus.WithFields(logrus.Fields{"service": ServiceName})

// SetupLogging configures the standard logger. Unrecognized levels fall back to info.
func SetupLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Log.Warnf("unrecognized log level `%s`, using info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

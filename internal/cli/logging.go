package cli

import (
	"fmt"
	"io"
	"os"
	"pwmeter/internal/common"

	"github.com/sirupsen/logrus"
)

func InitLogging(logLevel string) {
	switch common.LogLevel(logLevel) {
	case common.LogLevelTrace:
		logrus.SetLevel(logrus.TraceLevel)
	case common.LogLevelDebug:
		logrus.SetLevel(logrus.DebugLevel)
	case common.LogLevelInfo:
		logrus.SetLevel(logrus.InfoLevel)
	case common.LogLevelWarn:
		logrus.SetLevel(logrus.WarnLevel)
	case common.LogLevelError:
		logrus.SetLevel(logrus.ErrorLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// RedirectLogs moves logrus output away from the terminal while a full
// screen program owns it. Logs are appended to `logFilePath` or dropped
// when it is empty; the returned function restores stderr
func RedirectLogs(logFilePath string) (func() error, error) {
	if logFilePath == "" {
		logrus.SetOutput(io.Discard)
		return func() error {
			logrus.SetOutput(os.Stderr)
			return nil
		}, nil
	}
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file at path[%s]: %w", logFilePath, err)
	}
	logrus.SetOutput(logFile)
	return func() error {
		logrus.SetOutput(os.Stderr)
		return logFile.Close()
	}, nil
}

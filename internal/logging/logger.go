// ABOUTME: Global logrus setup: level, format and optional rotating log file.
// ABOUTME: Stdout stays free for command output, so the default sink is stderr.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName   string
	LogToStderr   bool
	LogLevel      string
	LogFormatJSON bool
}

// Setup configures the global logrus logger. It returns the rotating file
// writer, if any, so the caller can close it on exit.
func Setup(params LoggerSetupParams) io.Closer {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		logrus.SetOutput(os.Stderr)
		return nil
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		LocalTime:  false, // false -> use UTC
		Compress:   true,
	}

	if params.LogToStderr {
		logrus.SetOutput(io.MultiWriter(os.Stderr, lumberJackLogger))
	} else {
		logrus.SetOutput(lumberJackLogger)
	}
	return lumberJackLogger
}

// GetLevel maps a level name to a logrus level. Unknown names fall back to
// warn so that an unset config stays quiet.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.WarnLevel
	}
}

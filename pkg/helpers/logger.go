package helpers

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// staticFields stamps every entry with the service identity.
type staticFields logrus.Fields

func (staticFields) Levels() []logrus.Level { return logrus.AllLevels }

func (h staticFields) Fire(e *logrus.Entry) error {
	for k, v := range h {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}

// NewLogger logs text at debug level in development and JSON at info level
// elsewhere. LOG_LEVEL overrides the level when it parses.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.AddHook(staticFields{"app": appName, "env": env})

	level := logrus.InfoLevel
	if env == "development" {
		level = logrus.DebugLevel
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if l, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		level = l
	}
	logger.SetLevel(level)
	return logger
}

// NewFileLogger returns a JSON logger writing to dir/name, rotated by size and
// age. An empty dir yields a logger that discards everything.
func NewFileLogger(dir, name string) (*logrus.Logger, io.Closer) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if dir == "" {
		logger.SetOutput(io.Discard)
		return logger, io.NopCloser(nil)
	}
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    20, // MB
		MaxAge:     14, // days
		MaxBackups: 14,
		Compress:   true,
	}
	logger.SetOutput(w)
	return logger, w
}

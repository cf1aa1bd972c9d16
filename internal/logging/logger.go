package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "booklydesk",
	ReportTimestamp: true,
	Level:           log.InfoLevel,
})

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// OpenFile points the logger at path, creating parent directories. The TUI owns
// the terminal, so the chat console always logs to a file.
func OpenFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(f)
	return f, nil
}

// With returns a child logger carrying keyvals on every line.
func With(keyvals ...interface{}) *log.Logger {
	return logger.With(keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

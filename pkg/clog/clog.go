// Package clog is a thin wrapper over apex/log that gives each daemon a
// single shared logger with an "area" field for grouping related messages
// (webapi, stor, hub, ...).
package clog

import (
	"io"
	"os"

	"github.com/apex/log"
)

var logger = &log.Logger{
	Handler: NewHandler(os.Stderr),
	Level:   log.InfoLevel,
}

// Setup points the shared logger at w. Pass nil to keep logging to stderr.
func Setup(w io.WriteCloser) {
	if w == nil {
		w = os.Stderr
	}

	logger.Handler = NewHandler(w)
}

func SetLevelFromString(s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}

	logger.Level = level
	return nil
}

// Area returns an entry tagged with the given area name.
func Area(area string) *log.Entry {
	return logger.WithField("area", area)
}

// Global returns the untagged shared logger.
func Global() *log.Entry {
	return log.NewEntry(logger)
}

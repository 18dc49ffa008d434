// Package logging provides the zerolog-based application logger with console
// output and optional rotating file output.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables controlling log behavior
const (
	EnvLogLevel = "PZSERVER_LOG_LEVEL"
	EnvLogFile  = "PZSERVER_LOG_FILE"
)

// Rotating file limits
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

var (
	logger   zerolog.Logger
	initOnce sync.Once
)

// Init initializes the global logger. Safe to call more than once.
func Init() {
	initOnce.Do(initLogger)
}

func initLogger() {
	lvl := zerolog.InfoLevel
	if raw := os.Getenv(EnvLogLevel); raw != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err == nil {
			lvl = parsed
		}
	}
	zerolog.SetGlobalLevel(lvl)

	var writers []io.Writer

	console := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = time.Kitchen
	})
	writers = append(writers, console)

	if path := os.Getenv(EnvLogFile); path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Clean(path),
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
		})
	}

	output := io.MultiWriter(writers...)

	logger = zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger
}

// Logger returns the global logger, initializing it on first use
func Logger() *zerolog.Logger {
	initOnce.Do(initLogger)
	return &logger
}

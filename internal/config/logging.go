package config

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/vtable/internal/logging"
)

// Logger is the logger used while loading configuration, before the
// application logger exists. It discards everything until SetLogger is called.
//
//nolint:gochecknoglobals // Config loading happens before any logger is injected.
var Logger = zerolog.Nop()

// logMu protects Logger.
//
//nolint:gochecknoglobals // Guards the package logger
var logMu sync.RWMutex

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	Logger = logging.ComponentLogger(l, "config")
}

// GetLogger returns the package logger.
func GetLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return Logger
}

// ToLoggingConfig returns the logger settings. A configured file selects
// file output; otherwise records go to stderr.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	cfg := logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: logging.OutputStderr,
		Caller: lc.Caller,
	}
	if lc.File != "" {
		cfg.Output = logging.OutputFile
		cfg.File = lc.File
	}
	return cfg
}

// GetLoggingConfig returns a copy of the global logging section; the CLI
// applies --debug on top of it.
func GetLoggingConfig() LoggingConfig { return GetGlobalConfig().Logging }

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// global is the process-wide configuration used by the CLI.
//
//nolint:gochecknoglobals // One configuration per process
var global struct {
	mu  sync.RWMutex
	cfg *Config
}

// InitGlobalConfig loads the effective configuration with New unless one is
// already installed.
func InitGlobalConfig() {
	global.mu.Lock()
	defer global.mu.Unlock()
	if global.cfg == nil {
		global.cfg = New()
	}
}

// SetGlobalConfig installs cfg, e.g. after the CLI loaded an explicit
// --config file. A nil cfg makes the next read load New again.
func SetGlobalConfig(cfg *Config) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.cfg = cfg
}

// ResetGlobalConfigForTest forgets the installed configuration.
func ResetGlobalConfigForTest() { SetGlobalConfig(nil) }

// GetGlobalConfig returns the installed configuration, loading it first if
// needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.cfg
}

// GetLogLevel returns the configured log level.
func GetLogLevel() string {
	return GetGlobalConfig().Logging.Level
}

// GetConfigDir returns $VTABLE_HOME, or ~/.vtable.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(userHome, ".vtable"), nil
}

// GetConfigPath returns $VTABLE_CONFIG, or config.yaml in the config
// directory.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	return inConfigDir("config.yaml")
}

// GetLogPath returns the log file used while the terminal UI runs.
func GetLogPath() (string, error) {
	return inConfigDir("logs", "vtable.log")
}

func inConfigDir(elem ...string) (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// EnsureLogDir creates the directory of the configured log file. Without a
// log file it does nothing.
func EnsureLogDir() error {
	file := GetGlobalConfig().Logging.File
	if file == "" {
		return nil
	}
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating log directory %q: %w", dir, err)
	}
	return nil
}

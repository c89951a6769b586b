// ABOUTME: File-backed debug logger for the CLI and TUI
// ABOUTME: Enabled by DECOPLAN_DEBUG so it never writes to the terminal the TUI owns

package debuglog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// EnvVar enables debug logging when set to 1 or true.
const EnvVar = "DECOPLAN_DEBUG"

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled bool
)

// EnabledByEnv reports whether DECOPLAN_DEBUG asks for debug logging.
func EnabledByEnv() bool {
	v := strings.ToLower(os.Getenv(EnvVar))
	return v == "1" || v == "true"
}

// Init opens debug.log in configDir. An empty configDir disables logging.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	if configDir == "" {
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	logFile = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	enabled = true
	return nil
}

// Close closes the log file and disables logging.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled = false
}

// Log writes a debug message.
func Log(format string, args ...any) {
	write(slog.LevelDebug, format, args...)
}

// Warn writes a warning message.
func Warn(format string, args ...any) {
	write(slog.LevelWarn, format, args...)
}

// Error logs err with the operation it came from.
func Error(op string, err error) {
	if err == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		logger.Error(op, "error", err)
	}
}

func write(level slog.Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	logger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Package logging provides structured logging for codeplay. It wraps
// log/slog with a JSON handler and filters benign resize noise before any
// record reaches the sink.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/iw2rmb/codeplay/reflow"
)

// Log levels accepted in configuration.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// FileName is the log file created inside the log directory.
const FileName = "codeplay.log"

// Logger is a slog logger plus the file it owns. It is safe for
// concurrent use.
type Logger struct {
	logger *slog.Logger
	file   *os.File
	mu     sync.Mutex
}

// NewLogger writes JSON records to dir/codeplay.log, or to stderr when dir
// is empty. Unrecognized levels fall back to INFO.
func NewLogger(dir, level string) (*Logger, error) {
	var w io.Writer = os.Stderr
	var file *os.File
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, file = f, f
	}
	return &Logger{logger: newSlog(w, level), file: file}, nil
}

// NewWriterLogger logs to w. Used by the trace command and tests.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return &Logger{logger: newSlog(w, level)}
}

func newSlog(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(reflow.NoiseFilter(h))
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Slog returns the underlying logger for packages that accept *slog.Logger.
func (l *Logger) Slog() *slog.Logger { return l.logger }

// Install makes l the process-wide default, so every slog call in the
// program passes through the noise filter.
func (l *Logger) Install() {
	slog.SetDefault(l.logger)
}

// With returns a child logger carrying args on every record.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{logger: l.logger.With(args...), file: l.file}
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Close syncs and closes the log file. It is a no-op for stderr loggers.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync log file: %w", err)
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	l.file = nil
	return nil
}

// NopLogger discards everything.
func NopLogger() *Logger {
	return &Logger{logger: slog.New(slog.DiscardHandler)}
}

// ParseLevel normalizes a level string, defaulting to INFO.
func ParseLevel(level string) string {
	switch up := strings.ToUpper(level); up {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return up
	}
	return LevelInfo
}

// ValidLevels lists the accepted level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}

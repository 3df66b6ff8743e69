package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger writes every message to a console logger and to a
// timestamped log file, the file copy prefixed with a wall-clock
// timestamp. Safe for concurrent use by multiple goroutines.
type FileLogger struct {
	console *ConsoleLogger
	file    *os.File
	path    string
	mu      sync.Mutex
}

// NewFileLogger creates the log directory if needed and opens a fresh
// run_YYYYMMDD_HHMMSS.log file inside it.
func NewFileLogger(verbose bool, dir string) (*FileLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run_%s.log", time.Now().Format("20060102_150405")))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating log file %s: %w", path, err)
	}

	return &FileLogger{
		console: NewConsoleLogger(verbose),
		file:    file,
		path:    path,
	}, nil
}

// Path returns the location of the log file.
func (l *FileLogger) Path() string {
	return l.path
}

// Verbose logs detailed diagnostic information.
// The file copy is written even when console verbose mode is disabled,
// so the log file always holds the full trace of the run.
func (l *FileLogger) Verbose(format string, args ...interface{}) {
	l.console.Verbose(format, args...)
	l.write("[VERBOSE] " + format, args...)
}

// Info logs informational messages about normal operations.
func (l *FileLogger) Info(format string, args ...interface{}) {
	l.console.Info(format, args...)
	l.write(format, args...)
}

// Error logs error messages.
func (l *FileLogger) Error(format string, args ...interface{}) {
	l.console.Error(format, args...)
	l.write("[ERROR] " + format, args...)
}

func (l *FileLogger) write(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}

	line := format
	if len(args) > 0 {
		line = fmt.Sprintf(format, args...)
	}
	fmt.Fprintf(l.file, "%s %s\n", time.Now().Format("2006-01-02 15:04:05"), line)
}

// Close flushes and closes the log file. Console output is unaffected.
// Safe to call multiple times.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil
	return err
}

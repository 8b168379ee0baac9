package internal

import (
	"log"
	"os"
	"path/filepath"
	"sync"
)

// ErrorLog appends timestamped failure records to a persistent log file.
// Logging must never take an operation down, so every failure of the log
// itself is swallowed after a stderr note.
type ErrorLog struct {
	path   string
	mu     sync.Mutex
	once   sync.Once
	logger *log.Logger
}

// NewErrorLog creates an error log backed by the given file path.
func NewErrorLog(path string) *ErrorLog {
	return &ErrorLog{path: path}
}

// init opens the log file lazily so a missing data directory does not cost
// anything until the first failure is recorded.
func (l *ErrorLog) init() {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return
	}

	logFile, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}

	l.logger = log.New(logFile, "", log.LstdFlags|log.Lmicroseconds)
}

// Append records one failure with its operation context.
func (l *ErrorLog) Append(operation string, err error) {
	if l == nil || err == nil {
		return
	}

	l.once.Do(l.init)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logger == nil {
		log.Printf("error log unavailable; %s: %v", operation, err)
		return
	}
	l.logger.Printf("[%s] %v", operation, err)
}

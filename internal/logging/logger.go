// Package logging provides structured JSON logging for sheetsync.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// LogLevel represents a log level.
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

var levelRank = map[LogLevel]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Logger provides structured JSON logging.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel LogLevel
}

var (
	// global logger instance
	global *Logger
	once   sync.Once
)

// New creates a standalone Logger writing to out at the given minimum level.
func New(out io.Writer, minLevel LogLevel) *Logger {
	return &Logger{out: out, minLevel: minLevel}
}

// Init initializes the global logger. Subsequent calls are ignored.
func Init(out io.Writer, minLevel LogLevel) {
	once.Do(func() {
		global = New(out, minLevel)
	})
}

// Get returns the global logger instance.
func Get() *Logger {
	if global == nil {
		Init(os.Stderr, LevelInfo)
	}
	return global
}

// LogEntry represents a structured log entry.
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Error     string                 `json:"error,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// log writes a log entry at the specified level.
func (l *Logger) log(level LogLevel, message string, err error, context map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Context:   context,
	}

	if err != nil {
		entry.Error = err.Error()
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		log.Printf("Failed to marshal log entry: %v\n", jsonErr)
		return
	}

	fmt.Fprintln(l.out, string(data))
}

// shouldLog checks if a level should be logged.
func (l *Logger) shouldLog(level LogLevel) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, context ...map[string]interface{}) {
	l.log(LevelDebug, message, nil, mergeContext(context...))
}

// Info logs an info message.
func (l *Logger) Info(message string, context ...map[string]interface{}) {
	l.log(LevelInfo, message, nil, mergeContext(context...))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, context ...map[string]interface{}) {
	l.log(LevelWarn, message, nil, mergeContext(context...))
}

// Error logs an error message.
func (l *Logger) Error(message string, err error, context ...map[string]interface{}) {
	l.log(LevelError, message, err, mergeContext(context...))
}

// mergeContext merges multiple context maps.
func mergeContext(context ...map[string]interface{}) map[string]interface{} {
	if len(context) == 0 {
		return nil
	}
	if len(context) == 1 {
		return context[0]
	}
	merged := make(map[string]interface{})
	for _, c := range context {
		for k, v := range c {
			merged[k] = v
		}
	}
	return merged
}

// Convenience functions using the global logger

func Debug(message string, context ...map[string]interface{}) {
	Get().Debug(message, context...)
}

func Info(message string, context ...map[string]interface{}) {
	Get().Info(message, context...)
}

func Warn(message string, context ...map[string]interface{}) {
	Get().Warn(message, context...)
}

func Error(message string, err error, context ...map[string]interface{}) {
	Get().Error(message, err, context...)
}

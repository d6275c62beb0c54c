package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel orders log severities. Values follow the usual 10-per-step
// ladder so levels in between can be added without renumbering.
type LogLevel int

const (
	NotSet   LogLevel = 0
	Debug    LogLevel = 10
	Info     LogLevel = 20
	Warning  LogLevel = 30
	Error    LogLevel = 40
	Critical LogLevel = 50
	Fatal    LogLevel = Critical
)

func (l LogLevel) String() string {
	switch {
	case l >= Critical:
		return "CRITICAL"
	case l >= Error:
		return "ERROR"
	case l >= Warning:
		return "WARN"
	case l >= Info:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// Logger writes leveled, key-value annotated lines for one component.
// Each subsystem creates its own with a distinguishing prefix.
type Logger struct {
	prefix string
	out    *log.Logger

	mu    sync.Mutex
	level LogLevel
}

// NewLogger creates a logger for the given component prefix. The level
// defaults to Warning when not supplied.
func NewLogger(prefix string, logLevel ...LogLevel) *Logger {
	level := Warning
	if len(logLevel) > 0 {
		level = logLevel[0]
	}
	return &Logger{
		prefix: prefix,
		out:    log.New(os.Stdout, "["+prefix+"] ", log.LstdFlags),
		level:  level,
	}
}

// SetLogLevel changes the minimum severity this logger emits.
func (l *Logger) SetLogLevel(logLevel LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = logLevel
}

func (l *Logger) Debug(msg string, keyvals ...interface{}) { l.emit(Debug, msg, keyvals...) }
func (l *Logger) Info(msg string, keyvals ...interface{})  { l.emit(Info, msg, keyvals...) }
func (l *Logger) Warn(msg string, keyvals ...interface{})  { l.emit(Warning, msg, keyvals...) }
func (l *Logger) Error(msg string, keyvals ...interface{}) { l.emit(Error, msg, keyvals...) }

// emit formats and writes one line if the logger's level admits it.
// Key-value pairs are appended as k=v; a trailing key with no value is
// dropped.
func (l *Logger) emit(level LogLevel, msg string, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level > level {
		return
	}

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	l.out.Println(b.String())
}

// LogError logs a non-nil error through the default logger.
func LogError(err error) {
	if err != nil {
		log.Println("Error:", err)
	}
}

// Package logging writes a local JSONL audit trail of generation calls,
// with size-based rotation. It complements the database audit table: the
// file survives a database outage and is cheap to tail in development.
package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"seomaster/internal/models"
)

// CallLogger implements asynchronous, buffered JSONL logging with rotation
// and periodic flush. Entries are dropped rather than blocking the caller
// when the queue is full.
type CallLogger struct {
	fileTemplate  string // e.g. "/var/log/seomaster/calls-%s.jsonl"
	maxSize       int64  // maximum size in bytes before rotation
	maxFiles      int    // rotated files to keep
	flushInterval time.Duration

	mu          sync.Mutex
	currentFile string
	file        *os.File
	writer      *bufio.Writer
	currentSize int64

	logCh  chan *models.CallRecord
	doneCh chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// NewCallLogger creates a call logger. bufferSize bounds the number of
// queued entries; flushInterval bounds how stale the file can be.
func NewCallLogger(fileTemplate string, maxSize int64, maxFiles, bufferSize int, flushInterval time.Duration) (*CallLogger, error) {
	logger := &CallLogger{
		fileTemplate:  fileTemplate,
		maxSize:       maxSize,
		maxFiles:      maxFiles,
		flushInterval: flushInterval,
		logCh:         make(chan *models.CallRecord, bufferSize),
		doneCh:        make(chan struct{}),
	}

	if err := logger.openFile(); err != nil {
		return nil, err
	}

	logger.wg.Add(1)
	go logger.run()
	return logger, nil
}

// Enqueue queues a call record for logging. If the queue is full the entry
// is dropped. Satisfies the facade's audit sink contract.
func (logger *CallLogger) Enqueue(ctx context.Context, record *models.CallRecord) error {
	select {
	case logger.logCh <- record:
	default:
		// Queue full; dropping log entry.
	}
	return nil
}

// newFileName applies the current timestamp to the file template.
func (logger *CallLogger) newFileName() string {
	timestamp := time.Now().Format("20060102150405")
	return fmt.Sprintf(logger.fileTemplate, timestamp)
}

// openFile opens (or creates) the active log file and prepares the buffered
// writer, creating the directory if needed.
func (logger *CallLogger) openFile() error {
	logger.currentFile = logger.newFileName()
	dir := filepath.Dir(logger.currentFile)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(logger.currentFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	logger.currentSize = fi.Size()
	logger.file = file
	logger.writer = bufio.NewWriter(file)
	return nil
}

// rotateIfNeeded rotates the file when adding n bytes would exceed the max
// size.
func (logger *CallLogger) rotateIfNeeded(n int) error {
	logger.mu.Lock()
	defer logger.mu.Unlock()

	if logger.currentSize+int64(n) < logger.maxSize {
		return nil
	}

	if err := logger.writer.Flush(); err != nil {
		return err
	}
	if err := logger.file.Close(); err != nil {
		return err
	}
	return logger.openFile()
}

// cleanupOldFiles removes the oldest rotated files beyond maxFiles.
func (logger *CallLogger) cleanupOldFiles() error {
	pattern := fmt.Sprintf(logger.fileTemplate, "*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	sort.Slice(matches, func(i, j int) bool {
		fi, err1 := os.Stat(matches[i])
		fj, err2 := os.Stat(matches[j])
		if err1 != nil || err2 != nil {
			return false
		}
		return fi.ModTime().Before(fj.ModTime())
	})

	excess := len(matches) - logger.maxFiles
	for i := 0; i < excess; i++ {
		_ = os.Remove(matches[i])
	}
	return nil
}

// run listens for records and writes them, flushing periodically.
func (logger *CallLogger) run() {
	defer logger.wg.Done()
	ticker := time.NewTicker(logger.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case record := <-logger.logCh:
			logger.writeEntry(record)
		case <-ticker.C:
			logger.mu.Lock()
			_ = logger.writer.Flush()
			logger.mu.Unlock()
		case <-logger.doneCh:
			// Drain remaining records.
			for {
				select {
				case record := <-logger.logCh:
					logger.writeEntry(record)
				default:
					logger.mu.Lock()
					_ = logger.writer.Flush()
					_ = logger.file.Close()
					logger.mu.Unlock()
					return
				}
			}
		}
	}
}

// writeEntry serializes a record as one JSON line, rotating if needed.
func (logger *CallLogger) writeEntry(record *models.CallRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		// If marshaling fails, skip the entry.
		return
	}
	line := string(data) + "\n"
	n := len(line)
	if err := logger.rotateIfNeeded(n); err != nil {
		return
	}
	logger.mu.Lock()
	_, _ = logger.writer.WriteString(line)
	logger.currentSize += int64(n)
	logger.mu.Unlock()

	_ = logger.cleanupOldFiles()
}

// Shutdown flushes the buffer and closes the file. Call it from the
// application's graceful shutdown handler.
func (logger *CallLogger) Shutdown() {
	logger.mu.Lock()
	if logger.closed {
		logger.mu.Unlock()
		return
	}
	logger.closed = true
	logger.mu.Unlock()

	close(logger.doneCh)
	logger.wg.Wait()
}

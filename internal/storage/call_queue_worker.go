package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seomaster/internal/models"
	"seomaster/internal/queue"
	"seomaster/internal/utils"
)

// CallQueueWorker drains the call queue and persists audit records in
// batches. The facade never blocks on the database: records go through the
// queue and land here.
type CallQueueWorker struct {
	queue       queue.Queue
	dlq         queue.DeadLetterQueue
	db          *DB
	config      *queue.Config
	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewCallQueueWorker creates a new call queue worker
func NewCallQueueWorker(q queue.Queue, dlq queue.DeadLetterQueue, db *DB, config *queue.Config) *CallQueueWorker {
	if config == nil {
		config = queue.DefaultConfig("calls")
	}

	return &CallQueueWorker{
		queue:       q,
		dlq:         dlq,
		db:          db,
		config:      config,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Start starts the worker goroutine
func (w *CallQueueWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *CallQueueWorker) Stop() error {
	close(w.stopChan)
	<-w.stoppedChan
	return nil
}

// Enqueue adds a call record to the queue
func (w *CallQueueWorker) Enqueue(ctx context.Context, record *models.CallRecord) error {
	return w.queue.Enqueue(ctx, record)
}

func (w *CallQueueWorker) run(ctx context.Context) {
	defer close(w.stoppedChan)

	logger := utils.NewLogger("call-worker")

	for {
		select {
		case <-w.stopChan:
			logger.Info("Call worker stopping")
			return
		case <-ctx.Done():
			logger.Info("Call worker context cancelled")
			return
		default:
			w.processBatch(ctx, logger)
		}
	}
}

func (w *CallQueueWorker) processBatch(ctx context.Context, logger *utils.Logger) {
	items, err := w.queue.DequeueWithTimeout(ctx, w.config.BatchSize, w.config.BatchTimeout)
	if err != nil {
		logger.Error("Failed to dequeue call records", "error", err)
		time.Sleep(1 * time.Second) // back off on error
		return
	}

	if len(items) == 0 {
		return
	}

	logger.Debug("Processing call batch", "count", len(items))

	records := make([]*models.CallRecord, 0, len(items))
	for _, item := range items {
		var record models.CallRecord
		if err := w.unmarshalItem(item, &record); err != nil {
			logger.Error("Failed to unmarshal call record", "error", err)
			continue
		}
		records = append(records, &record)
	}

	if len(records) == 0 {
		return
	}

	if err := w.insertBatch(ctx, records); err != nil {
		logger.Error("Failed to insert batch, falling back to individual inserts", "error", err)
		for _, record := range records {
			if err := w.processItem(ctx, record, logger); err != nil {
				logger.Error("Failed to process call record", "error", err)
			}
		}
	}
}

// insertBatch inserts multiple call records in a single transaction
func (w *CallQueueWorker) insertBatch(ctx context.Context, records []*models.CallRecord) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO call_records (id, request_id, project_id, operation, platform,
		                          model_name, provenance, response_time_ms,
		                          succeeded, error_message, params, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, record := range records {
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(
			ctx, query,
			record.ID, record.RequestID, record.ProjectID, record.Operation, record.Platform,
			record.ModelName, record.Provenance, record.ResponseTimeMS,
			record.Succeeded, record.ErrorMessage, record.Params, record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// processItem inserts a single record with retries, parking it in the DLQ
// when retries run out.
func (w *CallQueueWorker) processItem(ctx context.Context, record *models.CallRecord, logger *utils.Logger) error {
	repo := NewCallRepository(w.db)

	var lastErr error
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := w.config.RetryBackoff * time.Duration(1<<uint(attempt-1))
			logger.Debug("Retrying call record", "attempt", attempt, "backoff", backoff)
			time.Sleep(backoff)
		}

		if err := repo.Create(ctx, record); err != nil {
			lastErr = err
			logger.Error("Failed to insert call record", "attempt", attempt, "error", err)
			continue
		}

		return nil
	}

	if w.dlq != nil {
		if err := w.dlq.Add(ctx, record, lastErr); err != nil {
			logger.Error("Failed to add to dead letter queue", "error", err)
		} else {
			logger.Warn("Call record moved to DLQ", "request_id", record.RequestID, "error", lastErr)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (w *CallQueueWorker) unmarshalItem(item interface{}, record *models.CallRecord) error {
	switch v := item.(type) {
	case *models.CallRecord:
		*record = *v
		return nil
	case models.CallRecord:
		*record = v
		return nil
	case []byte:
		return json.Unmarshal(v, record)
	case json.RawMessage:
		return json.Unmarshal(v, record)
	default:
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}
		return json.Unmarshal(data, record)
	}
}

// QueueLength returns the current queue length
func (w *CallQueueWorker) QueueLength(ctx context.Context) (int, error) {
	return w.queue.Length(ctx)
}

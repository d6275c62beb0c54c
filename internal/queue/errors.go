package queue

import "errors"

var (
	// ErrQueueClosed is returned for operations on a closed queue or DLQ.
	ErrQueueClosed = errors.New("queue is closed")

	// ErrItemNotFound is returned when a dead letter ID does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrMaxRetriesExceeded condemns a record to the dead letter queue
	// after the worker's retry budget is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

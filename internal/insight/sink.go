package insight

import (
	"context"

	"seomaster/internal/models"
)

// MultiSink fans each call record out to several audit sinks (the database
// queue and the JSONL file logger). Every sink sees every record; the first
// error is returned after all sinks were attempted.
type MultiSink []AuditSink

func (m MultiSink) Enqueue(ctx context.Context, record *models.CallRecord) error {
	var first error
	for _, sink := range m {
		if err := sink.Enqueue(ctx, record); err != nil && first == nil {
			first = err
		}
	}
	return first
}

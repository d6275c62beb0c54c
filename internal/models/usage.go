package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageSnapshot is the meter state broadcast to subscribers on every
// mutation. UsedCalls counts calls attempted, not calls succeeded, to match
// provider billing semantics.
type UsageSnapshot struct {
	UsedCalls  int     `json:"used_calls"`
	Limit      int     `json:"limit"`
	Percentage float64 `json:"percentage"`
}

// CallRecord is a single generation-call audit entry, persisted
// asynchronously through the call queue worker.
type CallRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	RequestID      uuid.UUID `db:"request_id" json:"request_id"`
	ProjectID      string    `db:"project_id" json:"project_id"`
	Operation      string    `db:"operation" json:"operation"`
	Platform       string    `db:"platform" json:"platform"`
	ModelName      string    `db:"model_name" json:"model_name"`
	Provenance     string    `db:"provenance" json:"provenance"`
	ResponseTimeMS int       `db:"response_time_ms" json:"response_time_ms"`
	Succeeded      bool      `db:"succeeded" json:"succeeded"`
	ErrorMessage   string    `db:"error_message" json:"error_message"`
	Params         JSONB     `db:"params" json:"params"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

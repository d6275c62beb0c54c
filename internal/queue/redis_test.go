package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"seomaster/internal/models"
)

func redisTestConfig(t *testing.T, queueName string) *Config {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start redis: %v", err)
	}
	t.Cleanup(srv.Close)

	cfg := DefaultConfig(queueName)
	cfg.UseRedis = true
	cfg.RedisAddr = srv.Addr()
	return cfg
}

// decodeRecord turns a dequeued item back into a call record. The Redis
// backend hands items back as json.RawMessage.
func decodeRecord(t *testing.T, item interface{}) *models.CallRecord {
	t.Helper()
	raw, ok := item.(json.RawMessage)
	if !ok {
		t.Fatalf("expected json.RawMessage, got %T", item)
	}
	var record models.CallRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("failed to decode call record: %v", err)
	}
	return &record
}

func TestRedisQueue_RoundTripsCallRecords(t *testing.T) {
	cfg := redisTestConfig(t, "calls-basic")
	q, err := NewRedisQueue(cfg)
	if err != nil {
		t.Fatalf("NewRedisQueue failed: %v", err)
	}
	defer q.Close()
	ctx := context.Background()

	record := testRecord("analyze_keywords")
	if err := q.Enqueue(ctx, record); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	items, err := q.Dequeue(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	got := decodeRecord(t, items[0])
	if got.ID != record.ID {
		t.Errorf("expected record ID %s, got %s", record.ID, got.ID)
	}
	if got.Operation != "analyze_keywords" {
		t.Errorf("expected operation analyze_keywords, got %q", got.Operation)
	}
	if got.ProjectID != record.ProjectID {
		t.Errorf("expected project %q, got %q", record.ProjectID, got.ProjectID)
	}
}

func TestRedisQueue_DequeueBatches(t *testing.T) {
	cfg := redisTestConfig(t, "calls-batch")
	q, err := NewRedisQueue(cfg)
	if err != nil {
		t.Fatalf("NewRedisQueue failed: %v", err)
	}
	defer q.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := q.Enqueue(ctx, testRecord(fmt.Sprintf("generate_tags_%d", i))); err != nil {
			t.Fatalf("Enqueue %d failed: %v", i, err)
		}
	}

	items, err := q.Dequeue(ctx, 3)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 items, got %d", len(items))
	}

	length, err := q.Length(ctx)
	if err != nil {
		t.Fatalf("Length failed: %v", err)
	}
	if length != 2 {
		t.Errorf("expected 2 items remaining, got %d", length)
	}
}

func TestRedisQueue_DequeueWithTimeout(t *testing.T) {
	cfg := redisTestConfig(t, "calls-timeout")
	q, err := NewRedisQueue(cfg)
	if err != nil {
		t.Fatalf("NewRedisQueue failed: %v", err)
	}
	defer q.Close()
	ctx := context.Background()

	start := time.Now()
	items, err := q.DequeueWithTimeout(ctx, 1, 200*time.Millisecond)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("DequeueWithTimeout failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items on timeout, got %d", len(items))
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("expected to block until timeout, returned after %v", elapsed)
	}

	record := testRecord("enhance_text")
	if err := q.Enqueue(ctx, record); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	items, err = q.DequeueWithTimeout(ctx, 1, time.Second)
	if err != nil {
		t.Fatalf("DequeueWithTimeout failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if got := decodeRecord(t, items[0]); got.Operation != "enhance_text" {
		t.Errorf("expected operation enhance_text, got %q", got.Operation)
	}
}

func TestRedisQueue_SurvivesReconnect(t *testing.T) {
	cfg := redisTestConfig(t, "calls-persist")
	q1, err := NewRedisQueue(cfg)
	if err != nil {
		t.Fatalf("NewRedisQueue failed: %v", err)
	}

	record := testRecord("generate_thumbnail")
	if err := q1.Enqueue(context.Background(), record); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	q1.Close()

	// A fresh client against the same server still sees the item.
	q2, err := NewRedisQueue(cfg)
	if err != nil {
		t.Fatalf("NewRedisQueue (reconnect) failed: %v", err)
	}
	defer q2.Close()

	items, err := q2.Dequeue(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item after reconnect, got %d", len(items))
	}
	if got := decodeRecord(t, items[0]); got.ID != record.ID {
		t.Errorf("expected record ID %s, got %s", record.ID, got.ID)
	}
}

func TestRedisDeadLetterQueue_ParksFailedRecords(t *testing.T) {
	cfg := redisTestConfig(t, "calls-dlq")
	dlq, err := NewRedisDeadLetterQueue(cfg)
	if err != nil {
		t.Fatalf("NewRedisDeadLetterQueue failed: %v", err)
	}
	defer dlq.Close()
	ctx := context.Background()

	record := testRecord("audience_insights")
	if err := dlq.Add(ctx, record, fmt.Errorf("insert batch failed")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	items, err := dlq.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 dead letter, got %d", len(items))
	}
	if items[0].Error != "insert batch failed" {
		t.Errorf("expected error message to survive, got %q", items[0].Error)
	}
	if items[0].ID == "" {
		t.Error("expected dead letter to carry an ID")
	}
}

func TestRedisDeadLetterQueue_Remove(t *testing.T) {
	cfg := redisTestConfig(t, "calls-dlq-remove")
	dlq, err := NewRedisDeadLetterQueue(cfg)
	if err != nil {
		t.Fatalf("NewRedisDeadLetterQueue failed: %v", err)
	}
	defer dlq.Close()
	ctx := context.Background()

	if err := dlq.Add(ctx, testRecord("generate_report"), fmt.Errorf("database unreachable")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	items, err := dlq.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 dead letter, got %d", len(items))
	}

	if err := dlq.Remove(ctx, items[0].ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	items, err = dlq.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty dead letter queue, got %d items", len(items))
	}
}

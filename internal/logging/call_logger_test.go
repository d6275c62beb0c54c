package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seomaster/internal/models"
)

func testRecord(op string) *models.CallRecord {
	return &models.CallRecord{
		ID:        uuid.New(),
		RequestID: uuid.New(),
		ProjectID: "default",
		Operation: op,
		ModelName: "gemini-3-flash-preview",
		Succeeded: true,
		CreatedAt: time.Now().UTC(),
	}
}

func TestCallLogger_WritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "calls-%s.jsonl")

	logger, err := NewCallLogger(template, 1<<20, 3, 10, 50*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, logger.Enqueue(context.Background(), testRecord("analyze_keywords")))
	require.NoError(t, logger.Enqueue(context.Background(), testRecord("generate_tags")))
	logger.Shutdown()

	matches, err := filepath.Glob(filepath.Join(dir, "calls-*.jsonl"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	file, err := os.Open(matches[0])
	require.NoError(t, err)
	defer file.Close()

	var ops []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record models.CallRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		ops = append(ops, record.Operation)
	}
	assert.Equal(t, []string{"analyze_keywords", "generate_tags"}, ops)
}

func TestCallLogger_RotatesOnSize(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "calls-%s.jsonl")

	// Tiny max size forces rotation on nearly every entry.
	logger, err := NewCallLogger(template, 64, 10, 10, 50*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, logger.Enqueue(context.Background(), testRecord("analyze_keywords")))
	// Rotated file names carry second-resolution timestamps; wait so the
	// next rotation lands in a different file.
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, logger.Enqueue(context.Background(), testRecord("generate_tags")))
	logger.Shutdown()

	matches, err := filepath.Glob(filepath.Join(dir, "calls-*.jsonl"))
	require.NoError(t, err)
	assert.Greater(t, len(matches), 1)
}

func TestCallLogger_ShutdownIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewCallLogger(filepath.Join(dir, "calls-%s.jsonl"), 1<<20, 3, 10, time.Second)
	require.NoError(t, err)

	logger.Shutdown()
	logger.Shutdown()
}

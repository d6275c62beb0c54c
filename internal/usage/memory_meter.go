package usage

import (
	"context"
	"sync"

	"seomaster/internal/models"
)

// MemoryMeter keeps the counter in process memory. It serves standalone
// deployments and tests; state is lost on restart and not shared across
// processes.
type MemoryMeter struct {
	mu    sync.Mutex
	used  int
	limit int

	local *broadcaster
}

// NewMemoryMeter creates an in-memory meter with the given quota ceiling.
func NewMemoryMeter(limit int) *MemoryMeter {
	return &MemoryMeter{
		limit: limit,
		local: newBroadcaster(),
	}
}

// Record increments the counter and broadcasts the new snapshot.
func (m *MemoryMeter) Record(ctx context.Context) (models.UsageSnapshot, error) {
	m.mu.Lock()
	m.used++
	snap := snapshotOf(m.used, m.limit)
	m.mu.Unlock()

	m.local.publish(snap)
	return snap, nil
}

// Snapshot returns the current state without mutation.
func (m *MemoryMeter) Snapshot(ctx context.Context) (models.UsageSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return snapshotOf(m.used, m.limit), nil
}

// Reset zeroes the counter and broadcasts the zeroed snapshot.
func (m *MemoryMeter) Reset(ctx context.Context) error {
	m.mu.Lock()
	m.used = 0
	snap := snapshotOf(0, m.limit)
	m.mu.Unlock()

	m.local.publish(snap)
	return nil
}

// Subscribe registers a listener for snapshot broadcasts.
func (m *MemoryMeter) Subscribe() (<-chan models.UsageSnapshot, func()) {
	return m.local.Subscribe()
}

// Close closes all subscriber channels.
func (m *MemoryMeter) Close() error {
	m.local.close()
	return nil
}

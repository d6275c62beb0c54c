package usage

import (
	"context"
	"sync"

	"seomaster/internal/models"
)

// Meter tracks a soft quota of generation calls. The counter models calls
// attempted against the external provider, so it moves on failures too; it
// only decreases on an explicit Reset.
type Meter interface {
	// Record increments the counter by one and broadcasts the new snapshot.
	Record(ctx context.Context) (models.UsageSnapshot, error)

	// Snapshot returns the current state without mutating it.
	Snapshot(ctx context.Context) (models.UsageSnapshot, error)

	// Reset zeroes the counter and broadcasts exactly one snapshot.
	Reset(ctx context.Context) error
}

// Broadcaster delivers a snapshot to subscribers on every meter mutation.
// Both meter implementations satisfy it.
type Broadcaster interface {
	Subscribe() (<-chan models.UsageSnapshot, func())
}

// snapshotOf derives the broadcastable snapshot for a raw count.
func snapshotOf(used, limit int) models.UsageSnapshot {
	pct := 0.0
	if limit > 0 {
		pct = float64(used) / float64(limit) * 100
		if pct > 100 {
			pct = 100
		}
	}
	return models.UsageSnapshot{UsedCalls: used, Limit: limit, Percentage: pct}
}

// broadcaster fans snapshots out to any number of subscribers. Sends never
// block: a subscriber that stops draining its channel misses updates rather
// than stalling the meter.
type broadcaster struct {
	mu   sync.Mutex
	subs map[chan models.UsageSnapshot]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan models.UsageSnapshot]struct{})}
}

// Subscribe registers a new listener and returns its channel along with a
// cancel function that unregisters and closes it.
func (b *broadcaster) Subscribe() (<-chan models.UsageSnapshot, func()) {
	ch := make(chan models.UsageSnapshot, 16)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *broadcaster) publish(snap models.UsageSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

package usage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"seomaster/internal/models"
)

const (
	counterKey     = "usage:calls"
	updatesChannel = "usage:updates"
)

// wireSnapshot carries a snapshot over pub/sub along with the id of the
// meter that produced it, so a meter can skip its own echoes.
type wireSnapshot struct {
	Origin   string                `json:"origin"`
	Snapshot models.UsageSnapshot  `json:"snapshot"`
}

// RedisMeter keeps the counter in Redis so every process sharing the store
// observes the same quota. INCR is atomic, so concurrent recorders cannot
// lose updates; Reset is last-write-wins.
type RedisMeter struct {
	redis *redis.Client
	limit int
	id    string

	local  *broadcaster
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewRedisMeter creates a meter backed by the given Redis client. Snapshots
// published by other processes are relayed to local subscribers.
func NewRedisMeter(client *redis.Client, limit int) *RedisMeter {
	m := &RedisMeter{
		redis: client,
		limit: limit,
		id:    uuid.NewString(),
		local: newBroadcaster(),
		done:  make(chan struct{}),
	}

	m.pubsub = client.Subscribe(context.Background(), updatesChannel)
	go m.relay()

	return m
}

// Record increments the counter and broadcasts the new snapshot.
func (m *RedisMeter) Record(ctx context.Context) (models.UsageSnapshot, error) {
	used, err := m.redis.Incr(ctx, counterKey).Result()
	if err != nil {
		return models.UsageSnapshot{}, fmt.Errorf("failed to increment usage counter: %w", err)
	}

	snap := snapshotOf(int(used), m.limit)
	m.publish(ctx, snap)
	return snap, nil
}

// Snapshot returns the current state without mutation.
func (m *RedisMeter) Snapshot(ctx context.Context) (models.UsageSnapshot, error) {
	used, err := m.redis.Get(ctx, counterKey).Int()
	if err == redis.Nil {
		used = 0
	} else if err != nil {
		return models.UsageSnapshot{}, fmt.Errorf("failed to read usage counter: %w", err)
	}

	return snapshotOf(used, m.limit), nil
}

// Reset zeroes the counter and broadcasts the zeroed snapshot.
func (m *RedisMeter) Reset(ctx context.Context) error {
	if err := m.redis.Set(ctx, counterKey, 0, 0).Err(); err != nil {
		return fmt.Errorf("failed to reset usage counter: %w", err)
	}

	m.publish(ctx, snapshotOf(0, m.limit))
	return nil
}

// Subscribe registers a local listener for snapshot broadcasts.
func (m *RedisMeter) Subscribe() (<-chan models.UsageSnapshot, func()) {
	return m.local.Subscribe()
}

// publish notifies local subscribers immediately and other processes via
// pub/sub. The relay skips this meter's own messages, so each mutation
// reaches a local subscriber exactly once.
func (m *RedisMeter) publish(ctx context.Context, snap models.UsageSnapshot) {
	m.local.publish(snap)

	payload, err := json.Marshal(wireSnapshot{Origin: m.id, Snapshot: snap})
	if err != nil {
		return
	}
	m.redis.Publish(ctx, updatesChannel, payload)
}

// relay forwards snapshots published by other processes to local
// subscribers.
func (m *RedisMeter) relay() {
	ch := m.pubsub.Channel()
	for {
		select {
		case <-m.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ws wireSnapshot
			if err := json.Unmarshal([]byte(msg.Payload), &ws); err != nil {
				continue
			}
			if ws.Origin == m.id {
				continue
			}
			m.local.publish(ws.Snapshot)
		}
	}
}

// Close stops the pub/sub relay and closes all subscriber channels.
func (m *RedisMeter) Close() error {
	close(m.done)
	err := m.pubsub.Close()
	m.local.close()
	return err
}

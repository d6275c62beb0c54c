package usage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seomaster/internal/models"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func collectSnapshots(ch <-chan models.UsageSnapshot, window time.Duration) []models.UsageSnapshot {
	var got []models.UsageSnapshot
	deadline := time.After(window)
	for {
		select {
		case snap := <-ch:
			got = append(got, snap)
		case <-deadline:
			return got
		}
	}
}

func TestMemoryMeter_RecordIncrements(t *testing.T) {
	m := NewMemoryMeter(1500)
	defer m.Close()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		snap, err := m.Record(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, snap.UsedCalls)
		assert.Equal(t, 1500, snap.Limit)
	}

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.UsedCalls)
	assert.InDelta(t, 0.2, snap.Percentage, 0.001)
}

func TestMemoryMeter_PercentageCapsAt100(t *testing.T) {
	m := NewMemoryMeter(2)
	defer m.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := m.Record(ctx)
		require.NoError(t, err)
	}

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.UsedCalls)
	assert.Equal(t, 100.0, snap.Percentage)
}

func TestMemoryMeter_ResetBroadcastsExactlyOnce(t *testing.T) {
	m := NewMemoryMeter(100)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Record(ctx)
	require.NoError(t, err)

	updates, cancel := m.Subscribe()
	defer cancel()

	require.NoError(t, m.Reset(ctx))

	got := collectSnapshots(updates, 100*time.Millisecond)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].UsedCalls)
}

func TestMemoryMeter_EverySubscriberSeesEveryMutation(t *testing.T) {
	m := NewMemoryMeter(100)
	defer m.Close()
	ctx := context.Background()

	first, cancelFirst := m.Subscribe()
	defer cancelFirst()
	second, cancelSecond := m.Subscribe()
	defer cancelSecond()

	_, err := m.Record(ctx)
	require.NoError(t, err)
	_, err = m.Record(ctx)
	require.NoError(t, err)

	for _, updates := range []<-chan models.UsageSnapshot{first, second} {
		got := collectSnapshots(updates, 100*time.Millisecond)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].UsedCalls)
		assert.Equal(t, 2, got[1].UsedCalls)
	}
}

func TestRedisMeter_RecordIncrements(t *testing.T) {
	client := setupTestRedis(t)
	m := NewRedisMeter(client, 1500)
	defer m.Close()
	ctx := context.Background()

	snap, err := m.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.UsedCalls)

	snap, err = m.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.UsedCalls)
}

func TestRedisMeter_SharedCounterAcrossMeters(t *testing.T) {
	client := setupTestRedis(t)
	first := NewRedisMeter(client, 1500)
	defer first.Close()
	second := NewRedisMeter(client, 1500)
	defer second.Close()
	ctx := context.Background()

	_, err := first.Record(ctx)
	require.NoError(t, err)
	_, err = second.Record(ctx)
	require.NoError(t, err)

	snap, err := first.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.UsedCalls)
}

func TestRedisMeter_RecordBroadcastsExactlyOnce(t *testing.T) {
	client := setupTestRedis(t)
	m := NewRedisMeter(client, 1500)
	defer m.Close()
	ctx := context.Background()

	updates, cancel := m.Subscribe()
	defer cancel()

	_, err := m.Record(ctx)
	require.NoError(t, err)

	// The snapshot arrives locally and is also published over pub/sub; the
	// relay must skip the meter's own echo.
	got := collectSnapshots(updates, 200*time.Millisecond)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].UsedCalls)
}

func TestRedisMeter_ResetZeroesCounter(t *testing.T) {
	client := setupTestRedis(t)
	m := NewRedisMeter(client, 1500)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Record(ctx)
	require.NoError(t, err)
	require.NoError(t, m.Reset(ctx))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.UsedCalls)
	assert.Equal(t, 0.0, snap.Percentage)
}

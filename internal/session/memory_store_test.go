package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(id string) *Session {
	return &Session{
		ID:         id,
		EmployeeID: "emp-1",
		TestType:   "attention",
		CreatedAt:  time.Now(),
		TimeLimit:  300 * time.Second,
	}
}

func TestMemoryStoreConsumeOnce(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Stop()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTestSession("s1")))

	sess, err := store.Consume(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)

	// повторное изъятие той же сессии
	_, err = store.Consume(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreConsumeUnknown(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Stop()

	_, err := store.Consume(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreConcurrentConsume(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Stop()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTestSession("s1")))

	var wg sync.WaitGroup
	successes := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Consume(ctx, "s1"); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	// ровно один из конкурирующих вызовов получает сессию
	assert.Len(t, successes, 1)
}

func TestMemoryStoreTTLEviction(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Stop()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return now }

	sess := newTestSession("old")
	sess.CreatedAt = now.Add(-2 * time.Hour)
	require.NoError(t, store.Save(ctx, sess))

	// пережившая TTL сессия равносильна отсутствующей
	_, err := store.Consume(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Stop()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return now }

	fresh := newTestSession("fresh")
	fresh.CreatedAt = now.Add(-time.Minute)
	stale := newTestSession("stale")
	stale.CreatedAt = now.Add(-2 * time.Hour)

	require.NoError(t, store.Save(ctx, fresh))
	require.NoError(t, store.Save(ctx, stale))

	store.sweep()

	assert.Equal(t, 1, store.Len())
	_, err := store.Consume(ctx, "fresh")
	assert.NoError(t, err)
}

package delivery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

func TestQueue_DropsWhenFull(t *testing.T) {
	q := NewQueue("email", 2, nil, logger.NewNopLogger())

	require.NoError(t, q.Enqueue(Job{UserID: "u1"}))
	require.NoError(t, q.Enqueue(Job{UserID: "u2"}))
	assert.ErrorIs(t, q.Enqueue(Job{UserID: "u3"}), ErrQueueFull)

	stats := q.Stats()
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 2, stats.Capacity)
	assert.Equal(t, int64(2), stats.Enqueued)
	assert.Equal(t, int64(1), stats.Dropped)
}

func TestQueue_DrainsAndIsolatesFailures(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	sender := func(_ context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.UserID)
		switch job.UserID {
		case "fail":
			return errors.New("provider rejected")
		case "panic":
			panic("boom")
		}
		return nil
	}

	q := NewQueue("push", 10, sender, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	for _, id := range []string{"ok1", "fail", "panic", "ok2"} {
		require.NoError(t, q.Enqueue(Job{UserID: id, EnqueuedAt: time.Now()}))
	}

	assert.Eventually(t, func() bool {
		s := q.Stats()
		return s.Sent+s.Failed == 4
	}, 2*time.Second, 10*time.Millisecond)

	stats := q.Stats()
	assert.Equal(t, int64(2), stats.Sent)
	assert.Equal(t, int64(2), stats.Failed)
	mu.Lock()
	assert.Equal(t, []string{"ok1", "fail", "panic", "ok2"}, seen)
	mu.Unlock()
}

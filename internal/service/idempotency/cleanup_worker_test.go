package idempotency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/metrics"
	"github.com/vladislavdragonenkov/orderdesk/internal/storage/memory"
)

// sweepRepo отдаёт заранее заданные результаты DeleteExpired; остальные методы не вызываются.
type sweepRepo struct {
	domain.IdempotencyRepository

	mu      sync.Mutex
	batches []int
	err     error
	limits  []int
}

func (r *sweepRepo) DeleteExpired(_ context.Context, _ time.Time, limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.limits = append(r.limits, limit)
	if r.err != nil {
		return 0, r.err
	}
	if len(r.batches) == 0 {
		return 0, nil
	}
	n := r.batches[0]
	r.batches = r.batches[1:]
	return n, nil
}

func (r *sweepRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limits)
}

func TestCleanupWorker_SweepStopsOnPartialBatch(t *testing.T) {
	t.Parallel()

	repo := &sweepRepo{batches: []int{2, 2, 1, 7}}
	worker := NewCleanupWorker(repo, WithBatchSize(2))

	deleted, err := worker.Sweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, 5, deleted)
	require.Equal(t, []int{2, 2, 2}, repo.limits)
}

func TestCleanupWorker_SweepReturnsRepositoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	worker := NewCleanupWorker(&sweepRepo{err: boom}, WithBatchSize(10))

	deleted, err := worker.Sweep(context.Background(), time.Now().UTC())
	require.ErrorIs(t, err, boom)
	require.Zero(t, deleted)
}

func TestCleanupWorker_SweepCanceledContext(t *testing.T) {
	t.Parallel()

	repo := &sweepRepo{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCleanupWorker(repo).Sweep(ctx, time.Time{})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, repo.calls())
}

func TestCleanupWorker_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	repo := &sweepRepo{}
	worker := NewCleanupWorker(repo, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	require.Eventually(t, func() bool { return repo.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup worker did not stop after cancel")
	}
}

func TestCleanupWorker_RemovesOnlyExpiredKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewIdempotencyRepository()
	now := time.Now().UTC()
	for _, key := range []string{"expired-1", "expired-2", "expired-3"} {
		_, err := repo.Reserve(ctx, key, "h", now.Add(-time.Minute))
		require.NoError(t, err)
	}
	_, err := repo.Reserve(ctx, "alive", "h", now.Add(time.Hour))
	require.NoError(t, err)

	worker := NewCleanupWorker(repo,
		WithBatchSize(2),
		WithCleanupMetrics(metrics.NewIdempotencyMetricsWithRegisterer(prometheus.NewRegistry())),
	)
	deleted, err := worker.Sweep(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 3, deleted)

	_, err = repo.Get(ctx, "alive")
	require.NoError(t, err)
	_, err = repo.Get(ctx, "expired-1")
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyNotFound)
}

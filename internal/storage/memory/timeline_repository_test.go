package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/storage/memory"
)

func TestTimelineRepository_KeepsChronology(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTimelineRepository()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderID: "o1", Type: "second", Occurred: base.Add(time.Minute)}))
	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderID: "o1", Type: "first", Occurred: base}))
	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderID: "o1", Type: "second-bis", Occurred: base.Add(time.Minute)}))
	require.NoError(t, repo.Append(ctx, domain.TimelineEvent{OrderID: "o2", Type: "other", Occurred: base}))

	events, err := repo.List(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "first", events[0].Type)
	require.Equal(t, "second", events[1].Type)
	require.Equal(t, "second-bis", events[2].Type)

	events[0].Type = "mutated"
	again, err := repo.List(ctx, "o1")
	require.NoError(t, err)
	require.Equal(t, "first", again[0].Type)

	unknown, err := repo.List(ctx, "o404")
	require.NoError(t, err)
	require.Empty(t, unknown)
}

func TestTimelineRepository_CanceledContext(t *testing.T) {
	repo := memory.NewTimelineRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, repo.Append(ctx, domain.TimelineEvent{OrderID: "o1", Type: domain.EventOrderPlaced}), context.Canceled)
	_, err := repo.List(ctx, "o1")
	require.ErrorIs(t, err, context.Canceled)
}

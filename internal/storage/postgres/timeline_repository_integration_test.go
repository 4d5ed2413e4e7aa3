package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

func TestTimelineRepository_PostgresAppendAndList(t *testing.T) {
	store := newTestStore(t)
	repo := NewTimelineRepository(store)
	ctx := context.Background()

	placedAt := time.Now().UTC().Add(-time.Minute).Round(time.Microsecond)
	history := []domain.TimelineEvent{
		// нулевое время заменяется текущим
		{OrderID: "timeline-order", Type: domain.EventOrderStatusChanged, Reason: string(domain.OrderStatusPaid)},
		{OrderID: "timeline-order", Type: domain.EventOrderPlaced, Occurred: placedAt},
	}
	for _, event := range history {
		if err := repo.Append(ctx, event); err != nil {
			t.Fatalf("append %s: %v", event.Type, err)
		}
	}

	events, err := repo.List(ctx, "timeline-order")
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != domain.EventOrderPlaced || events[1].Type != domain.EventOrderStatusChanged {
		t.Fatalf("events must be ordered by occurred: %+v", events)
	}
	if !events[0].Occurred.Equal(placedAt) {
		t.Fatalf("occurred mismatch: got %s want %s", events[0].Occurred, placedAt)
	}
	if events[1].Reason != string(domain.OrderStatusPaid) {
		t.Fatalf("reason mismatch: %q", events[1].Reason)
	}
}

func TestTimelineRepository_PostgresOutlivesOrder(t *testing.T) {
	store := newTestStore(t)
	repo := NewTimelineRepository(store)
	ctx := context.Background()

	if err := repo.Append(ctx, domain.TimelineEvent{OrderID: "deleted-order", Type: domain.EventOrderDeleted}); err != nil {
		t.Fatalf("append event for order without row: %v", err)
	}

	for orderID, want := range map[string]int{"deleted-order": 1, "unknown-order": 0} {
		events, err := repo.List(ctx, orderID)
		if err != nil {
			t.Fatalf("list %s: %v", orderID, err)
		}
		if len(events) != want {
			t.Fatalf("%s: expected %d events, got %d", orderID, want, len(events))
		}
	}
}

func TestTimelineRepository_PostgresCanceledContext(t *testing.T) {
	store := newTestStore(t)
	repo := NewTimelineRepository(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Append(ctx, domain.TimelineEvent{OrderID: "o", Type: domain.EventOrderPlaced}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

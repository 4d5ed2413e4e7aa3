package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

func TestIdempotencyRepository_ReserveCompleteGet(t *testing.T) {
	repo := NewIdempotencyRepository(newTestStore(t))
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(2 * time.Hour).Round(time.Second)

	reserved, err := repo.Reserve(ctx, "place-done", "hash-1", expiresAt)
	require.NoError(t, err)
	require.Equal(t, domain.IdempotencyStatusProcessing, reserved.Status)

	held, err := repo.Get(ctx, "place-done")
	require.NoError(t, err)
	require.Nil(t, held.Response)
	require.Zero(t, held.ResponseCode)

	require.NoError(t, repo.Complete(ctx, "place-done", domain.IdempotencyStatusFailed, []byte(`{"reason":"INSUFFICIENT_STOCK"}`), 9))

	got, err := repo.Get(ctx, "place-done")
	require.NoError(t, err)
	require.Equal(t, "hash-1", got.RequestHash)
	require.Equal(t, domain.IdempotencyStatusFailed, got.Status)
	require.Equal(t, 9, got.ResponseCode)
	require.JSONEq(t, `{"reason":"INSUFFICIENT_STOCK"}`, string(got.Response))
	require.True(t, got.ExpiresAt.Equal(expiresAt), "expires_at: want %s, got %s", expiresAt, got.ExpiresAt)
}

func TestIdempotencyRepository_ReserveHeldKey(t *testing.T) {
	repo := NewIdempotencyRepository(newTestStore(t))
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(time.Hour)

	_, err := repo.Reserve(ctx, "place-held", "hash-a", expiresAt)
	require.NoError(t, err)

	held, err := repo.Reserve(ctx, "place-held", "hash-a", expiresAt)
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyAlreadyExists)
	require.Equal(t, "hash-a", held.RequestHash)

	_, err = repo.Reserve(ctx, "place-held", "hash-b", expiresAt)
	require.ErrorIs(t, err, domain.ErrIdempotencyHashMismatch)

	require.ErrorIs(t, repo.Complete(ctx, "place-held", domain.IdempotencyStatusProcessing, nil, 0), domain.ErrIdempotencyStatusInvalid)
	require.ErrorIs(t, repo.Complete(ctx, "place-missing", domain.IdempotencyStatusDone, nil, 0), domain.ErrIdempotencyKeyNotFound)
}

func TestIdempotencyRepository_DeleteExpiredInBatches(t *testing.T) {
	repo := NewIdempotencyRepository(newTestStore(t))
	ctx := context.Background()
	now := time.Now().UTC()

	for key, offset := range map[string]time.Duration{
		"expired-1": -5 * time.Minute,
		"expired-2": -4 * time.Minute,
		"expired-3": -3 * time.Minute,
		"active":    time.Hour,
	} {
		_, err := repo.Reserve(ctx, key, "h", now.Add(offset))
		require.NoError(t, err)
	}

	removed, err := repo.DeleteExpired(ctx, now, 2)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	_, err = repo.Get(ctx, "expired-3")
	require.NoError(t, err)

	removed, err = repo.DeleteExpired(ctx, now, 0)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = repo.Get(ctx, "active")
	require.NoError(t, err)
}

func TestIdempotencyRepository_ExpiredKeyIsReservedAgain(t *testing.T) {
	repo := NewIdempotencyRepository(newTestStore(t))
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.Reserve(ctx, "place-reuse", "old-hash", now.Add(-time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Complete(ctx, "place-reuse", domain.IdempotencyStatusDone, []byte(`{"id":"old"}`), 0))

	reserved, err := repo.Reserve(ctx, "place-reuse", "new-hash", now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, "new-hash", reserved.RequestHash)

	got, err := repo.Get(ctx, "place-reuse")
	require.NoError(t, err)
	require.Equal(t, domain.IdempotencyStatusProcessing, got.Status)
	require.Empty(t, got.Response)
}

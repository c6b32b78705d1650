package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluvi/retail-monitor/internal/analytics"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client, ttl), mr
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	result := &analytics.Result{
		Summary:    analytics.Summary{TotalCustomers: 42, TotalRevenue: 84000},
		ComputedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	id, err := store.SaveSnapshot(ctx, result)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	snap, err := store.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.False(t, snap.SavedAt.IsZero())
	require.NotNil(t, snap.Result)
	assert.Equal(t, 42, snap.Result.Summary.TotalCustomers)
	assert.Equal(t, float64(84000), snap.Result.Summary.TotalRevenue)
}

func TestLatestSnapshotColdCache(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	_, err := store.LatestSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotExpires(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.SaveSnapshot(ctx, &analytics.Result{})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.LatestSnapshot(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSaveSnapshotOverwritesPrevious(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	_, err := store.SaveSnapshot(ctx, &analytics.Result{Summary: analytics.Summary{TotalCustomers: 1}})
	require.NoError(t, err)
	second, err := store.SaveSnapshot(ctx, &analytics.Result{Summary: analytics.Summary{TotalCustomers: 2}})
	require.NoError(t, err)

	snap, err := store.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, snap.ID)
	assert.Equal(t, 2, snap.Result.Summary.TotalCustomers)
}

package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluvi/retail-monitor/internal/analytics"
	"github.com/fluvi/retail-monitor/internal/config"
	"github.com/fluvi/retail-monitor/internal/storage"
)

// stubFeed returns canned snapshots, or errors when told to fail.
type stubFeed struct {
	customers []analytics.RawCustomer
	orders    []analytics.RawOrder
	failWith  error
}

func (s *stubFeed) FetchCustomers(ctx context.Context) ([]analytics.RawCustomer, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.customers, nil
}

func (s *stubFeed) FetchOrders(ctx context.Context) ([]analytics.RawOrder, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.orders, nil
}

func testPolling() config.PollingConfig {
	return config.PollingConfig{IntervalSeconds: 3600}
}

func TestRefreshPublishesResult(t *testing.T) {
	f := &stubFeed{
		orders: []analytics.RawOrder{
			{ID: "1", Address: "Main St 1", Amount: 4000, Date: time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02")},
		},
	}
	c := New(f, nil, testPolling(), analytics.Config{})

	require.Nil(t, c.Latest())
	require.NoError(t, c.Refresh(context.Background()))

	result := c.Latest()
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Summary.TotalCustomers)
	assert.NoError(t, c.LastError())
	assert.False(t, c.LastFetch().IsZero())
}

func TestRefreshFailureKeepsPreviousResult(t *testing.T) {
	f := &stubFeed{
		orders: []analytics.RawOrder{
			{ID: "1", Address: "Main St 1", Amount: 4000, Date: time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02")},
		},
	}
	c := New(f, nil, testPolling(), analytics.Config{})
	require.NoError(t, c.Refresh(context.Background()))
	previous := c.Latest()
	previousFetch := c.LastFetch()

	f.failWith = errors.New("feed down")
	err := c.Refresh(context.Background())
	require.Error(t, err)

	assert.Same(t, previous, c.Latest(), "a failed refresh must not replace the last good result")
	assert.Equal(t, previousFetch, c.LastFetch())
	assert.Error(t, c.LastError())

	// Recovery clears the recorded error.
	f.failWith = nil
	require.NoError(t, c.Refresh(context.Background()))
	assert.NoError(t, c.LastError())
}

func TestRefreshColdFailureLeavesNoResult(t *testing.T) {
	f := &stubFeed{failWith: errors.New("feed down")}
	c := New(f, nil, testPolling(), analytics.Config{})

	require.Error(t, c.Refresh(context.Background()))
	assert.Nil(t, c.Latest())
}

func TestRefreshWritesSnapshotCache(t *testing.T) {
	mr := miniredis.RunT(t)
	store := storage.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	f := &stubFeed{
		orders: []analytics.RawOrder{
			{ID: "1", Address: "Main St 1", Amount: 4000, Date: time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02")},
		},
	}
	c := New(f, store, testPolling(), analytics.Config{})
	require.NoError(t, c.Refresh(context.Background()))

	snap, err := store.LatestSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Result.Summary.TotalCustomers)
}

func TestWarmStartLoadsCachedSnapshot(t *testing.T) {
	mr := miniredis.RunT(t)
	store := storage.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	cached := &analytics.Result{Summary: analytics.Summary{TotalCustomers: 7}}
	_, err := store.SaveSnapshot(context.Background(), cached)
	require.NoError(t, err)

	c := New(&stubFeed{failWith: errors.New("feed down")}, store, testPolling(), analytics.Config{})
	c.warmStart(context.Background())

	result := c.Latest()
	require.NotNil(t, result, "cached snapshot should be served before the first live fetch")
	assert.Equal(t, 7, result.Summary.TotalCustomers)
	assert.False(t, c.LastFetch().IsZero())
}

func TestWarmStartColdCacheIsQuiet(t *testing.T) {
	mr := miniredis.RunT(t)
	store := storage.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	c := New(&stubFeed{}, store, testPolling(), analytics.Config{})
	c.warmStart(context.Background())
	assert.Nil(t, c.Latest())
}

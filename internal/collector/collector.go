// Package collector owns the refresh lifecycle around the analytics engine:
// periodic and on-demand snapshot fetches, the latest in-memory result, and
// the optional redis cache. The engine itself stays trigger-free and pure.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fluvi/retail-monitor/internal/analytics"
	"github.com/fluvi/retail-monitor/internal/config"
	"github.com/fluvi/retail-monitor/internal/feed"
	"github.com/fluvi/retail-monitor/internal/pkg/logger"
	"github.com/fluvi/retail-monitor/internal/storage"
)

// Collector fetches feed snapshots on a schedule and keeps the latest
// computed result. On a failed fetch the previous result is kept; a stale
// view beats a synthesized partial one.
type Collector struct {
	feed      feed.Feed
	store     *storage.Store // nil when caching is disabled
	polling   config.PollingConfig
	engineCfg analytics.Config

	mu        sync.RWMutex
	latest    *analytics.Result
	lastFetch time.Time
	lastErr   error
}

// New creates a collector. store may be nil to disable snapshot caching.
func New(f feed.Feed, store *storage.Store, polling config.PollingConfig, engineCfg analytics.Config) *Collector {
	return &Collector{
		feed:      f,
		store:     store,
		polling:   polling,
		engineCfg: engineCfg,
	}
}

// Start runs the refresh loop until ctx is canceled. A warm-start snapshot
// is served from the cache while the first live fetch is in flight.
func (c *Collector) Start(ctx context.Context) {
	c.warmStart(ctx)

	if err := c.Refresh(ctx); err != nil {
		logger.Error("initial refresh failed", "error", err)
	}

	ticker := time.NewTicker(c.polling.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("collector stopping")
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				logger.Error("scheduled refresh failed", "error", err)
			}
		}
	}
}

// warmStart loads the cached snapshot, if any, so the API has data before
// the first live fetch completes.
func (c *Collector) warmStart(ctx context.Context) {
	if c.store == nil {
		return
	}
	snap, err := c.store.LatestSnapshot(ctx)
	if err != nil {
		if err != storage.ErrNoSnapshot {
			logger.Warn("snapshot cache read failed", "error", err)
		}
		return
	}
	c.mu.Lock()
	c.latest = snap.Result
	c.lastFetch = snap.SavedAt
	c.mu.Unlock()
	logger.Info("warm start from cached snapshot", "snapshot_id", snap.ID, "saved_at", snap.SavedAt.Format(time.RFC3339))
}

// Refresh fetches both snapshots, recomputes the analytics result and
// publishes it. Both fetches must succeed; otherwise the previous result is
// kept and the error is recorded and returned.
func (c *Collector) Refresh(ctx context.Context) error {
	start := time.Now()

	var (
		wg        sync.WaitGroup
		customers []analytics.RawCustomer
		orders    []analytics.RawOrder
		custErr   error
		orderErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		customers, custErr = c.feed.FetchCustomers(ctx)
	}()
	go func() {
		defer wg.Done()
		orders, orderErr = c.feed.FetchOrders(ctx)
	}()
	wg.Wait()

	if custErr != nil || orderErr != nil {
		err := custErr
		if err == nil {
			err = orderErr
		}
		err = fmt.Errorf("snapshot fetch: %w", err)
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return err
	}

	result := analytics.Compute(customers, orders, time.Now(), c.engineCfg)

	c.mu.Lock()
	c.latest = result
	c.lastFetch = time.Now()
	c.lastErr = nil
	c.mu.Unlock()

	if c.store != nil {
		if _, err := c.store.SaveSnapshot(ctx, result); err != nil {
			// Cache failures are non-fatal; the in-memory result stands.
			logger.Warn("snapshot cache write failed", "error", err)
		}
	}

	logger.Info("refresh complete",
		"customers", len(customers),
		"orders", len(orders),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Latest returns the most recent result, or nil before the first successful
// refresh.
func (c *Collector) Latest() *analytics.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// LastFetch returns when the latest result was computed.
func (c *Collector) LastFetch() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastFetch
}

// LastError returns the error from the most recent refresh attempt, if any.
func (c *Collector) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

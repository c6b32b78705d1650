// Package storage caches the latest analytics snapshot in redis so a
// restarted server can serve views before its first feed refresh completes.
// Redis is a cache here, never a system of record: every snapshot is fully
// recomputed from the raw feeds.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fluvi/retail-monitor/internal/analytics"
	"github.com/fluvi/retail-monitor/internal/pkg/logger"
)

const snapshotKey = "retail-monitor:snapshot:latest"

// ErrNoSnapshot is returned when no cached snapshot exists.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Snapshot wraps an analytics result with cache metadata.
type Snapshot struct {
	ID       string            `json:"id"`
	SavedAt  time.Time         `json:"saved_at"`
	Result   *analytics.Result `json:"result"`
}

// Store is a redis-backed snapshot cache.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a snapshot cache against the given redis address.
func New(addr string, db int, ttl time.Duration) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl:    ttl,
	}
}

// NewWithClient wraps an existing redis client; used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// SaveSnapshot caches the result under a fresh snapshot id with the
// configured TTL.
func (s *Store) SaveSnapshot(ctx context.Context, result *analytics.Result) (string, error) {
	snap := Snapshot{
		ID:      uuid.NewString(),
		SavedAt: time.Now().UTC(),
		Result:  result,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("cache snapshot: %w", err)
	}
	logger.Debug("snapshot cached", "snapshot_id", snap.ID)
	return snap.ID, nil
}

// LatestSnapshot returns the cached snapshot, or ErrNoSnapshot when the
// cache is cold or the entry expired.
func (s *Store) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Close releases the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Package summarystore publishes run summaries to Redis so dashboards and
// downstream schedulers can poll run outcomes without reading the zone files.
package summarystore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a summary stays readable. Daily runs only need
// a few days of history in the hot store.
const DefaultTTL = 7 * 24 * time.Hour

// Store writes run summaries to Redis as JSON values.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at addr and verifies the connection.
func New(ctx context.Context, addr string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return &Store{rdb: rdb, ttl: DefaultTTL}, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// key builds the summary key for a stage and run date,
// e.g. "sales:summary:validator:2025-03-14".
func key(stage, date string) string {
	return "sales:summary:" + stage + ":" + date
}

// Put stores v as the summary for the given stage and run date, replacing
// any earlier value for the same key.
func (s *Store) Put(ctx context.Context, stage, date string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := s.rdb.Set(ctx, key(stage, date), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store summary %s/%s: %w", stage, date, err)
	}
	return nil
}

// Get fetches the summary JSON for a stage and run date into out. It returns
// redis.Nil wrapped when no summary exists.
func (s *Store) Get(ctx context.Context, stage, date string, out any) error {
	payload, err := s.rdb.Get(ctx, key(stage, date)).Bytes()
	if err != nil {
		return fmt.Errorf("fetch summary %s/%s: %w", stage, date, err)
	}
	return json.Unmarshal(payload, out)
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService wraps Redis for the gateway's read-heavy paths. The buyer
// poll hits every ~3 seconds per open order, so terminal payment
// statuses are cached to keep those polls off Postgres.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// CacheOrderStatus stores a terminal payment status for the buyer poll
// fast path. Pending is deliberately never cached: it must always be
// re-evaluated against the stored expiry.
func (s *CacheService) CacheOrderStatus(ctx context.Context, orderID uint, status string) error {
	key := s.GenerateKey("order", "status", orderID)
	return s.Set(ctx, key, status)
}

// GetOrderStatus returns a cached terminal status, or "" on a miss.
func (s *CacheService) GetOrderStatus(ctx context.Context, orderID uint) (string, error) {
	key := s.GenerateKey("order", "status", orderID)
	var status string
	found, err := s.Get(ctx, key, &status)
	if err != nil || !found {
		return "", err
	}
	return status, nil
}

// RecordCallback keeps the most recent verified callback payload per
// order for quick inspection without touching the order row.
func (s *CacheService) RecordCallback(ctx context.Context, orderID uint, payload interface{}) error {
	key := s.GenerateKey("order", "callback", orderID)
	return s.Set(ctx, key, payload)
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}

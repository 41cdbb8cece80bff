// Package cache keeps tenant registry rows close to the request path. The registry in the
// shared schema stays the source of truth; a cache miss or failure falls back to it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/suteetoe/retail-backend/internal/model"
	"go.uber.org/zap"
)

// TenantCache stores tenant rows by id.
type TenantCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, id uint) (*model.Tenant, error)
	Set(ctx context.Context, tenant *model.Tenant) error
	Delete(ctx context.Context, id uint) error
}

// RedisTenantCache implements TenantCache with JSON values in Redis.
type RedisTenantCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisTenantCache connects to Redis and verifies the connection.
func NewRedisTenantCache(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisTenantCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisTenantCacheWithClient(client, ttl, logger), nil
}

// NewRedisTenantCacheWithClient wraps an existing client.
func NewRedisTenantCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisTenantCache {
	return &RedisTenantCache{
		client: client,
		prefix: "retail:tenant:",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisTenantCache) key(id uint) string {
	return c.prefix + strconv.FormatUint(uint64(id), 10)
}

func (c *RedisTenantCache) Get(ctx context.Context, id uint) (*model.Tenant, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tenant %d from cache: %w", id, err)
	}

	var tenant model.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		c.logger.Warn("Dropping undecodable tenant cache entry", zap.Uint("tenant_id", id), zap.Error(err))
		if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
			c.logger.Warn("Failed to drop tenant cache entry", zap.Uint("tenant_id", id), zap.Error(err))
		}
		return nil, nil
	}
	return &tenant, nil
}

func (c *RedisTenantCache) Set(ctx context.Context, tenant *model.Tenant) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("failed to marshal tenant: %w", err)
	}
	return c.client.Set(ctx, c.key(tenant.ID), data, c.ttl).Err()
}

func (c *RedisTenantCache) Delete(ctx context.Context, id uint) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

// Close closes the Redis client
func (c *RedisTenantCache) Close() error {
	return c.client.Close()
}

// NopTenantCache is used when no Redis address is configured. Every lookup misses.
type NopTenantCache struct{}

func (NopTenantCache) Get(context.Context, uint) (*model.Tenant, error) { return nil, nil }
func (NopTenantCache) Set(context.Context, *model.Tenant) error         { return nil }
func (NopTenantCache) Delete(context.Context, uint) error               { return nil }

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"project-field-api/internal/domain"
)

const catalogueKey = "field_types:catalogue"

// FieldTypeCache keeps the ordered FieldType catalogue in redis.
// A nil client turns every call into a miss.
type FieldTypeCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewFieldTypeCache creates a new FieldTypeCache
func NewFieldTypeCache(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *FieldTypeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldTypeCache{client: client, ttl: ttl, logger: logger}
}

func (c *FieldTypeCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns the cached catalogue; ok is false on a miss or any redis failure
func (c *FieldTypeCache) Get(ctx context.Context) ([]*domain.FieldType, bool) {
	if !c.enabled() {
		return nil, false
	}

	raw, err := c.client.Get(ctx, catalogueKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read field type cache", zap.Error(err))
		}
		return nil, false
	}

	var types []*domain.FieldType
	if err := json.Unmarshal(raw, &types); err != nil {
		c.logger.Warn("Discarding unreadable field type cache entry", zap.Error(err))
		return nil, false
	}
	return types, true
}

// Set stores the catalogue
func (c *FieldTypeCache) Set(ctx context.Context, types []*domain.FieldType) {
	if !c.enabled() {
		return
	}

	raw, err := json.Marshal(types)
	if err != nil {
		c.logger.Warn("Failed to encode field type cache entry", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, catalogueKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write field type cache", zap.Error(err))
	}
}

// Invalidate drops the cached catalogue
func (c *FieldTypeCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, catalogueKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate field type cache", zap.Error(err))
	}
}

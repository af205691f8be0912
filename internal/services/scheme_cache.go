package services

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/entescheme/ente-api/internal/redisclient"
	"github.com/entescheme/ente-api/internal/utils"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const schemeListCacheKey = "schemes:all"

// schemeCacheEntry wraps the list so it marshals as an ExtJSON document.
type schemeCacheEntry struct {
	Schemes []models.Scheme `bson:"schemes"`
}

// SchemeCache holds the scheme list in Redis with an in-process fallback
// used when Redis is absent or failing.
type SchemeCache struct {
	redis  *redisclient.Client
	local  *cache.Cache
	ttl    time.Duration
	logger *logging.SafeLogger
}

// NewSchemeCache creates the cache. redis may be nil.
func NewSchemeCache(redis *redisclient.Client, ttl, localTTL time.Duration, logger *logging.SafeLogger) *SchemeCache {
	return &SchemeCache{
		redis:  redis,
		local:  cache.New(localTTL, 2*localTTL),
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached list and whether it was found.
func (c *SchemeCache) Get(ctx context.Context) ([]models.Scheme, bool) {
	if c == nil {
		return nil, false
	}
	ctx, span, cleanup := utils.TraceCacheOperation(ctx, "get", schemeListCacheKey)
	defer cleanup()

	if c.redis != nil {
		data, err := c.redis.Get(ctx, schemeListCacheKey).Result()
		switch {
		case err == nil:
			var entry schemeCacheEntry
			if err := bson.UnmarshalExtJSON([]byte(data), false, &entry); err == nil {
				observability.CacheHits.WithLabelValues("redis_hit").Inc()
				utils.AddSpanAttribute(span, "cache.tier", "redis")
				for i := range entry.Schemes {
					entry.Schemes[i].FillEmptyLists()
				}
				return nonNilSchemes(entry.Schemes), true
			}
			c.logger.Warn("failed to unmarshal cached schemes", zap.Error(err))
			observability.CacheHits.WithLabelValues("redis_miss").Inc()
			return nil, false
		case errors.Is(err, redis.Nil):
			observability.CacheHits.WithLabelValues("redis_miss").Inc()
			return nil, false
		default:
			c.logger.Warn("redis unavailable, using local scheme cache", zap.Error(err))
		}
	}

	if v, ok := c.local.Get(schemeListCacheKey); ok {
		observability.CacheHits.WithLabelValues("local_hit").Inc()
		utils.AddSpanAttribute(span, "cache.tier", "local")
		return slices.Clone(v.([]models.Scheme)), true
	}
	observability.CacheHits.WithLabelValues("local_miss").Inc()
	return nil, false
}

// Set stores schemes in every tier.
func (c *SchemeCache) Set(ctx context.Context, schemes []models.Scheme) {
	if c == nil {
		return
	}
	ctx, _, cleanup := utils.TraceCacheOperation(ctx, "set", schemeListCacheKey)
	defer cleanup()

	c.local.SetDefault(schemeListCacheKey, slices.Clone(schemes))

	if c.redis == nil {
		return
	}
	data, err := bson.MarshalExtJSON(schemeCacheEntry{Schemes: schemes}, false, false)
	if err != nil {
		c.logger.Warn("failed to marshal schemes for cache", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, schemeListCacheKey, string(data), c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache schemes in redis", zap.Error(err))
	}
}

// Invalidate drops the list from every tier.
func (c *SchemeCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	ctx, _, cleanup := utils.TraceCacheOperation(ctx, "invalidate", schemeListCacheKey)
	defer cleanup()

	c.local.Delete(schemeListCacheKey)

	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, schemeListCacheKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate scheme cache", zap.Error(err))
	} else {
		c.logger.Debug("invalidated scheme cache")
	}
}

func nonNilSchemes(s []models.Scheme) []models.Scheme {
	if s == nil {
		return []models.Scheme{}
	}
	return s
}

package repository

import (
	"context"
	"errors"
	"time"

	"StockRadar/internal/domain/models"
	"StockRadar/internal/domain/repository"
	"StockRadar/pkg/cache"
)

const latestResultKey = "screen:latest"

// CacheResultCache implements ResultCache on top of a cache.Service, so the
// same adapter serves Redis in production and the memory cache in tests.
type CacheResultCache struct {
	cache cache.Service
	ttl   time.Duration
}

// NewCacheResultCache creates a result cache with the given TTL.
func NewCacheResultCache(c cache.Service, ttl time.Duration) repository.ResultCache {
	return &CacheResultCache{cache: c, ttl: ttl}
}

func (c *CacheResultCache) SetLatest(ctx context.Context, res *models.ScreeningResult) error {
	return c.cache.Set(ctx, latestResultKey, res, c.ttl)
}

func (c *CacheResultCache) Latest(ctx context.Context) (*models.ScreeningResult, error) {
	var res models.ScreeningResult
	if err := c.cache.Get(ctx, latestResultKey, &res); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

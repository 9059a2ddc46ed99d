package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shubham-bhadra-10/Legalyze/model"
	"github.com/shubham-bhadra-10/Legalyze/pkg/logger"
)

// ResultCache is the short-lived read cache in front of the durable
// store. Entries are derived data: population is fire-and-forget and a
// cache failure never fails the read path.
type ResultCache struct {
	kv  KV
	ttl time.Duration
}

func NewResultCache(kv KV, ttl time.Duration) *ResultCache {
	return &ResultCache{kv: kv, ttl: ttl}
}

func cacheKey(id string) string {
	return "contract:" + id
}

// Get returns the cached record, or nil on a miss. Undecodable entries
// count as misses.
func (c *ResultCache) Get(ctx context.Context, id string) *model.Analysis {
	data, err := c.kv.Get(ctx, cacheKey(id))
	if err != nil {
		return nil
	}

	var a model.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		logger.Warn(ctx, "discarding undecodable cache entry", "contract_id", id, "error", err)
		return nil
	}
	return &a
}

// Put stores the record with the cache TTL. Failures are logged and
// swallowed.
func (c *ResultCache) Put(ctx context.Context, a *model.Analysis) {
	data, err := json.Marshal(a)
	if err != nil {
		logger.Warn(ctx, "failed to encode analysis for cache", "contract_id", a.ID, "error", err)
		return
	}

	if err := c.kv.Set(ctx, cacheKey(a.ID), data, c.ttl); err != nil {
		logger.Warn(ctx, "failed to populate result cache", "contract_id", a.ID, "error", err)
	}
}

// Invalidate drops the cache entry for a record.
func (c *ResultCache) Invalidate(ctx context.Context, id string) {
	if err := c.kv.Del(ctx, cacheKey(id)); err != nil {
		logger.Warn(ctx, "failed to invalidate result cache", "contract_id", id, "error", err)
	}
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YahyaAsmara/orbis/logger"
	"github.com/YahyaAsmara/orbis/models"
)

// RouteCache memoizes computed routes in Redis. Sound because the search
// is deterministic: one snapshot version and one request always produce
// the identical result. Methods on a nil cache do nothing, so callers can
// carry it around without guarding.
type RouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRouteCache(client *redis.Client, ttl time.Duration) *RouteCache {
	if client == nil {
		return nil
	}
	return &RouteCache{client: client, ttl: ttl}
}

// Key builds the cache key for a request against one snapshot version.
// The mode's factors are part of the key so a catalog edit never serves
// stale time or cost totals.
func (c *RouteCache) Key(version int64, req models.RouteRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "route:%d:%s:%g:%g:%s:%s",
		version, req.Mode.Type, req.Mode.SpeedFactor, req.Mode.CostFactor,
		req.TimeOfDay, req.Start)
	for _, stop := range req.PitStops {
		fmt.Fprintf(&b, ":%s", stop)
	}
	fmt.Fprintf(&b, ":%s", req.End)
	return b.String()
}

func (c *RouteCache) Get(ctx context.Context, version int64, req models.RouteRequest) (models.RouteResult, bool) {
	if c == nil {
		return models.RouteResult{}, false
	}
	raw, err := c.client.Get(ctx, c.Key(version, req)).Result()
	if err != nil || raw == "" {
		return models.RouteResult{}, false
	}
	var res models.RouteResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		logger.L().Warn("route_cache_bad_entry", "err", err)
		return models.RouteResult{}, false
	}
	return res, true
}

func (c *RouteCache) Put(ctx context.Context, version int64, req models.RouteRequest, res models.RouteResult) {
	if c == nil {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.Key(version, req), b, c.ttl).Err(); err != nil {
		logger.L().Debug("route_cache_set_error", "err", err)
	}
}

package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultCacheTTL = 10 * time.Minute

var _ Provider = (*CachedProvider)(nil)

// CachedProvider keeps fetched tenant records in Redis so warm invocations skip
// the configuration store. Cache failures fall through to the wrapped provider.
type CachedProvider struct {
	next   Provider
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewCachedProvider(next Provider, rdb redis.Cmdable, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{next: next, rdb: rdb, ttl: ttl, prefix: "vinted-listing:tenant:"}
}

func (c *CachedProvider) cacheKey(key Key) string {
	return c.prefix + key.ClientID + ":" + key.JobName
}

func (c *CachedProvider) Fetch(ctx context.Context, key Key) (Config, error) {
	if raw, err := c.rdb.Get(ctx, c.cacheKey(key)).Bytes(); err == nil {
		var cfg Config
		if json.Unmarshal(raw, &cfg) == nil {
			if valid, err := cfg.Validate(); err == nil {
				return valid, nil
			}
		}
	}

	cfg, err := c.next.Fetch(ctx, key)
	if err != nil {
		return Config{}, err
	}
	if raw, err := json.Marshal(cfg); err == nil {
		_ = c.rdb.Set(ctx, c.cacheKey(key), raw, c.ttl).Err()
	}
	return cfg, nil
}

// Invalidate drops the cached record, e.g. after a template edit.
func (c *CachedProvider) Invalidate(ctx context.Context, key Key) error {
	return c.rdb.Del(ctx, c.cacheKey(key)).Err()
}

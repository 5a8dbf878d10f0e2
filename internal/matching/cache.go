package matching

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
)

// SuggestionCache stores ranked results per viewer. Invalidate bumps the
// viewer's version so every cached query for that viewer goes stale at once.
type SuggestionCache interface {
	Get(ctx context.Context, viewerID int64, key string) ([]ScoredCandidate, bool)
	Set(ctx context.Context, viewerID int64, key string, results []ScoredCandidate)
	Invalidate(ctx context.Context, viewerIDs ...int64) error
}

// CacheKey derives a stable key from the query parameters.
func CacheKey(sort SortStrategy, criteria *Criteria, limit int) string {
	raw, _ := json.Marshal(struct {
		Sort     SortStrategy `json:"s"`
		Criteria *Criteria    `json:"c"`
		Limit    int          `json:"l"`
	}{sort, criteria, limit})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:12])
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, int64, string) ([]ScoredCandidate, bool) { return nil, false }
func (NopCache) Set(context.Context, int64, string, []ScoredCandidate)        {}
func (NopCache) Invalidate(context.Context, ...int64) error                   { return nil }

// RedisSuggestionCache keeps results in Redis under a per-viewer version.
type RedisSuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSuggestionCache returns a NopCache when client is nil or ttl is
// not positive.
func NewRedisSuggestionCache(client *redis.Client, ttl time.Duration) SuggestionCache {
	if client == nil || ttl <= 0 {
		return NopCache{}
	}
	return &RedisSuggestionCache{client: client, ttl: ttl}
}

func versionKey(viewerID int64) string {
	return fmt.Sprintf("suggestions:version:%d", viewerID)
}

func (c *RedisSuggestionCache) dataKey(ctx context.Context, viewerID int64, key string) (string, error) {
	version, err := c.client.Get(ctx, versionKey(viewerID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("suggestions:%d:v%d:%s", viewerID, version, key), nil
}

func (c *RedisSuggestionCache) Get(ctx context.Context, viewerID int64, key string) ([]ScoredCandidate, bool) {
	dk, err := c.dataKey(ctx, viewerID, key)
	if err != nil {
		cacheError(ctx, "get", viewerID, err)
		return nil, false
	}
	data, err := c.client.Get(ctx, dk).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cacheError(ctx, "get", viewerID, err)
		}
		return nil, false
	}
	var results []ScoredCandidate
	if err := json.Unmarshal(data, &results); err != nil {
		cacheError(ctx, "decode", viewerID, err)
		return nil, false
	}
	return results, true
}

func (c *RedisSuggestionCache) Set(ctx context.Context, viewerID int64, key string, results []ScoredCandidate) {
	dk, err := c.dataKey(ctx, viewerID, key)
	if err != nil {
		cacheError(ctx, "set", viewerID, err)
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		cacheError(ctx, "encode", viewerID, err)
		return
	}
	if err := c.client.Set(ctx, dk, data, c.ttl).Err(); err != nil {
		cacheError(ctx, "set", viewerID, err)
	}
}

func (c *RedisSuggestionCache) Invalidate(ctx context.Context, viewerIDs ...int64) error {
	pipe := c.client.TxPipeline()
	for _, id := range viewerIDs {
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), 24*time.Hour)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// cacheError counts and logs a failed cache operation. The caller falls back
// to the store.
func cacheError(ctx context.Context, op string, viewerID int64, err error) {
	suggestionCacheTotal.WithLabelValues("error").Inc()
	logging.Ctx(ctx).Debug().Err(err).
		Str("op", op).
		Int64("viewer", viewerID).
		Msg("suggestion cache unavailable")
}

package matching

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheKeyStable(t *testing.T) {
	a := CacheKey(SortFame, &Criteria{AgeMin: ptr(20), Tags: []string{"yoga"}}, 10)
	b := CacheKey(SortFame, &Criteria{AgeMin: ptr(20), Tags: []string{"yoga"}}, 10)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, CacheKey(SortFame, &Criteria{AgeMin: ptr(21), Tags: []string{"yoga"}}, 10))
	assert.NotEqual(t, a, CacheKey(SortAge, &Criteria{AgeMin: ptr(20), Tags: []string{"yoga"}}, 10))
	assert.NotEqual(t, a, CacheKey(SortFame, &Criteria{AgeMin: ptr(20), Tags: []string{"yoga"}}, 11))
}

func TestNewRedisSuggestionCacheDisabled(t *testing.T) {
	assert.IsType(t, NopCache{}, NewRedisSuggestionCache(nil, time.Minute))

	c := NopCache{}
	c.Set(context.Background(), 1, "k", []ScoredCandidate{{}})
	_, ok := c.Get(context.Background(), 1, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(context.Background(), 1, 2))
}

func TestRedisSuggestionCacheCountsErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	cache := NewRedisSuggestionCache(client, time.Minute)

	before := testutil.ToFloat64(suggestionCacheTotal.WithLabelValues("error"))

	_, ok := cache.Get(context.Background(), 1, "k")
	assert.False(t, ok)
	cache.Set(context.Background(), 1, "k", []ScoredCandidate{{Score: 1}})

	assert.Equal(t, before+2, testutil.ToFloat64(suggestionCacheTotal.WithLabelValues("error")))
}

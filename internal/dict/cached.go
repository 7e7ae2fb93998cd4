package dict

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/kkeutmal/internal/cache"
)

// Cached is a read-through cache in front of another Client. Only successful
// answers are stored; cache faults are logged and the lookup falls through.
type Cached struct {
	next  Client
	cache cache.Cache
	ttl   time.Duration
}

// NewCached wraps next with c; entries live for ttl.
func NewCached(next Client, c cache.Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl}
}

func (c *Cached) WordExists(ctx context.Context, word string) (bool, error) {
	key := opExists + ":" + word
	if v, ok := c.get(ctx, opExists, key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b, nil
		}
	}
	found, err := c.next.WordExists(ctx, word)
	if err != nil {
		return false, err
	}
	c.set(ctx, key, strconv.FormatBool(found))
	return found, nil
}

func (c *Cached) WordsStartingWith(ctx context.Context, prefix string, limit int) ([]string, error) {
	key := opStart + ":" + prefix + ":" + strconv.Itoa(limit)
	if v, ok := c.get(ctx, opStart, key); ok {
		var words []string
		if err := json.Unmarshal([]byte(v), &words); err == nil {
			return words, nil
		}
	}
	words, err := c.next.WordsStartingWith(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}
	if words == nil {
		words = []string{}
	}
	if b, err := json.Marshal(words); err == nil {
		c.set(ctx, key, string(b))
	}
	return words, nil
}

func (c *Cached) get(ctx context.Context, op, key string) (string, bool) {
	v, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		cacheTotal.WithLabelValues(op, "error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("dictionary cache get")
		return "", false
	case !ok:
		cacheTotal.WithLabelValues(op, "miss").Inc()
		return "", false
	}
	cacheTotal.WithLabelValues(op, "hit").Inc()
	return v, true
}

func (c *Cached) set(ctx context.Context, key, value string) {
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dictionary cache set")
	}
}

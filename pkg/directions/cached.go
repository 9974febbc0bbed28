package directions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Cache stores serialized route lists keyed by request hash. A miss is
// (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, payload []byte) error
}

// Cached wraps a Client with a response cache. Cache failures degrade to a
// live lookup; they never fail the request.
type Cached struct {
	inner Client
	cache Cache
}

// NewCached creates a caching wrapper around inner.
func NewCached(inner Client, cache Cache) *Cached {
	return &Cached{inner: inner, cache: cache}
}

// Routes implements Client.
func (c *Cached) Routes(ctx context.Context, req Request) ([]Route, error) {
	key := requestKey(req)

	payload, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		zap.L().Warn("directions: cache read failed", zap.Error(err))
	} else if ok {
		var routes []Route
		if err := json.Unmarshal(payload, &routes); err == nil {
			return routes, nil
		}
		zap.L().Warn("directions: discarding undecodable cache entry", zap.String("key", key))
	}

	routes, err := c.inner.Routes(ctx, req)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(routes); err == nil {
		if err := c.cache.Put(ctx, key, payload); err != nil {
			zap.L().Warn("directions: cache write failed", zap.Error(err))
		}
	}
	return routes, nil
}

// requestKey hashes the request fields that change the provider's answer.
func requestKey(req Request) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d|%t|%s",
		req.Origin, req.Destination, req.Mode,
		req.ArrivalTime.Unix(), req.Alternatives, req.RoutingPreference)))
	return hex.EncodeToString(sum[:])
}

// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"context"

	"github.com/patrickmn/go-cache"
	"github.com/telekom/cdntrace/internal/logger"
)

var _ Client = (*cachedClient)(nil)

// cachedClient memoises successful lookups for the lifetime of the process.
type cachedClient struct {
	next  Client
	cache *cache.Cache
}

// NewCachedClient wraps the client so that every address is looked up at most once.
// Failed lookups are not cached.
func NewCachedClient(next Client) Client {
	return &cachedClient{
		next:  next,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (c *cachedClient) Lookup(ctx context.Context, ip string) (Details, error) {
	if v, ok := c.cache.Get(ip); ok {
		logger.FromContext(ctx).DebugContext(ctx, "Geolocation cache hit", "ip", ip)
		return v.(Details), nil
	}

	d, err := c.next.Lookup(ctx, ip)
	if err != nil {
		return Details{}, err
	}
	c.cache.SetDefault(ip, d)
	return d, nil
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package stagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
)

// SearchResultCache replays the response of an identical search made within
// its TTL, search_id included. A disabled cache always misses and never writes.
type SearchResultCache struct {
	r       records[model.SearchResponse]
	enabled bool
}

func NewSearchResultCache(s store.S, config Config) *SearchResultCache {
	validateConfig(&config)
	return &SearchResultCache{
		r:       records[model.SearchResponse]{s: s, ttl: config.TTL, kind: "search result"},
		enabled: config.Enabled,
	}
}

func (c *SearchResultCache) Enabled() bool {
	return c != nil && c.enabled
}

// RequestKey hashes the normalized request. Requests that differ only in
// letter case, default cabin or airline order share a key.
func RequestKey(req model.SearchRequest) string {
	req.Origin = strings.ToUpper(req.Origin)
	req.Destination = strings.ToUpper(req.Destination)
	req.Currency = strings.ToUpper(req.Currency)
	req.Cabin = strings.ToLower(req.Cabin)
	if req.Cabin == "" {
		req.Cabin = model.CabinEconomy
	}
	if len(req.Airlines) > 0 {
		airlines := make([]string, len(req.Airlines))
		for i, a := range req.Airlines {
			airlines[i] = strings.ToUpper(a)
		}
		sort.Strings(airlines)
		req.Airlines = airlines
	}
	b, _ := json.Marshal(req)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func searchKey(req model.SearchRequest) model.Key {
	return model.Key{Bucket: SearchBucket, ID: RequestKey(req)}
}

func (c *SearchResultCache) Put(ctx context.Context, req model.SearchRequest, resp model.SearchResponse) error {
	if !c.Enabled() {
		return nil
	}
	return c.r.put(ctx, searchKey(req), resp)
}

func (c *SearchResultCache) Get(ctx context.Context, req model.SearchRequest) (model.SearchResponse, error) {
	if !c.Enabled() {
		return model.SearchResponse{}, store.ErrItemNotFound
	}
	return c.r.get(ctx, searchKey(req))
}

func (c *SearchResultCache) Has(ctx context.Context, req model.SearchRequest) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	return c.r.has(ctx, searchKey(req))
}

func (c *SearchResultCache) Forget(ctx context.Context, req model.SearchRequest) error {
	if !c.Enabled() {
		return nil
	}
	return c.r.forget(ctx, searchKey(req))
}

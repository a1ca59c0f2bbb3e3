// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package stagecache

import (
	"context"
	"sort"
	"time"

	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
)

// OfferIdentifierCache maps (search_id, offer_id) to the provider that owns
// the offer and its native reference.
type OfferIdentifierCache struct {
	r records[model.OfferIdentifier]
}

func NewOfferIdentifierCache(s store.S, ttl time.Duration) *OfferIdentifierCache {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return &OfferIdentifierCache{r: records[model.OfferIdentifier]{s: s, ttl: ttl, kind: "offer identifier"}}
}

func offerKey(searchID, offerID string) model.Key {
	return model.Key{Bucket: OfferBucketPrefix + searchID, ID: offerID}
}

func (c *OfferIdentifierCache) Put(ctx context.Context, id model.OfferIdentifier) error {
	return c.r.put(ctx, offerKey(id.SearchID, id.OfferID), id)
}

func (c *OfferIdentifierCache) Get(ctx context.Context, searchID, offerID string) (model.OfferIdentifier, error) {
	return c.r.get(ctx, offerKey(searchID, offerID))
}

func (c *OfferIdentifierCache) Has(ctx context.Context, searchID, offerID string) (bool, error) {
	return c.r.has(ctx, offerKey(searchID, offerID))
}

func (c *OfferIdentifierCache) Forget(ctx context.Context, searchID, offerID string) error {
	return c.r.forget(ctx, offerKey(searchID, offerID))
}

// List returns the live identifiers of a search ordered by offer_id.
func (c *OfferIdentifierCache) List(ctx context.Context, searchID string) ([]model.OfferIdentifier, error) {
	ids, err := c.r.list(ctx, OfferBucketPrefix+searchID)
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].OfferID < ids[j].OfferID })
	return ids, nil
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package stagecache

import (
	"context"

	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
)

// PriceCache holds confirmed prices keyed by the provider-issued price_id.
type PriceCache struct {
	r records[model.PriceRecord]
}

func NewPriceCache(s store.S) *PriceCache {
	return &PriceCache{r: records[model.PriceRecord]{s: s, ttl: DefaultPriceTTL, kind: "price"}}
}

func priceKey(priceID string) model.Key {
	return model.Key{Bucket: PriceBucket, ID: priceID}
}

func (c *PriceCache) Put(ctx context.Context, rec model.PriceRecord) error {
	return c.r.put(ctx, priceKey(rec.PriceID), rec)
}

func (c *PriceCache) Get(ctx context.Context, priceID string) (model.PriceRecord, error) {
	return c.r.get(ctx, priceKey(priceID))
}

func (c *PriceCache) Has(ctx context.Context, priceID string) (bool, error) {
	return c.r.has(ctx, priceKey(priceID))
}

func (c *PriceCache) Forget(ctx context.Context, priceID string) error {
	return c.r.forget(ctx, priceKey(priceID))
}

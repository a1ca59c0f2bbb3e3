// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package stagecache

import (
	"context"
	"time"

	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
)

// BookingCache holds bookings keyed by booking_id until they are paid or expire.
type BookingCache struct {
	r records[model.BookingRecord]
}

func NewBookingCache(s store.S, ttl time.Duration) *BookingCache {
	if ttl <= 0 {
		ttl = DefaultBookingTTL
	}
	return &BookingCache{r: records[model.BookingRecord]{s: s, ttl: ttl, kind: "booking"}}
}

func bookingKey(bookingID string) model.Key {
	return model.Key{Bucket: BookingBucket, ID: bookingID}
}

func (c *BookingCache) Put(ctx context.Context, rec model.BookingRecord) error {
	return c.r.put(ctx, bookingKey(rec.BookingID), rec)
}

func (c *BookingCache) Get(ctx context.Context, bookingID string) (model.BookingRecord, error) {
	return c.r.get(ctx, bookingKey(bookingID))
}

func (c *BookingCache) Has(ctx context.Context, bookingID string) (bool, error) {
	return c.r.has(ctx, bookingKey(bookingID))
}

func (c *BookingCache) Forget(ctx context.Context, bookingID string) error {
	return c.r.forget(ctx, bookingKey(bookingID))
}

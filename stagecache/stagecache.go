// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package stagecache correlates the search, price, booking and payment stages.
Each stage writes a small record keyed by the identifier the caller receives,
and the next stage reads it back so callers never resubmit provider payloads.

All records live in a store.S with explicit TTLs. A miss, whether the record
never existed or has expired, is reported as store.ErrItemNotFound.
*/
package stagecache

import (
	"context"
	"encoding/json"
	"time"

	"emperror.dev/errors"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
)

// Stage TTLs.
const (
	DefaultSearchTTL  = 300 * time.Second
	DefaultPriceTTL   = 24 * time.Hour
	DefaultBookingTTL = 3600 * time.Second
)

// Buckets.
const (
	OfferBucketPrefix = "offers."
	PriceBucket       = "prices"
	BookingBucket     = "bookings"
	SearchBucket      = "searches"
)

// Config is read from the cache section.
type Config struct {
	// SearchTTL bounds how long offer identifiers of a search stay priceable.
	SearchTTL time.Duration

	// BookingTTL bounds how long a booking stays payable.
	BookingTTL time.Duration

	// Enabled turns on the search result cache.
	Enabled bool

	// TTL of cached search responses. Clamped to SearchTTL so a cached response
	// never refers to offers that can no longer be priced.
	TTL time.Duration
}

func validateConfig(config *Config) {
	if config.SearchTTL <= 0 {
		config.SearchTTL = DefaultSearchTTL
	}
	if config.BookingTTL <= 0 {
		config.BookingTTL = DefaultBookingTTL
	}
	if config.TTL <= 0 || config.TTL > config.SearchTTL {
		config.TTL = config.SearchTTL
	}
}

// IsMiss reports whether err means the record is absent or expired.
func IsMiss(err error) bool {
	return errors.Is(err, store.ErrItemNotFound)
}

// records persists values of T as store items.
type records[T any] struct {
	s    store.S
	ttl  time.Duration
	kind string
}

func (r records[T]) put(ctx context.Context, key model.Key, v T) error {
	data, err := encode(v)
	if err != nil {
		return errors.WrapIfWithDetails(err, "failed to encode record", "kind", r.kind)
	}
	err = r.s.Push(ctx, key, model.Item{
		ID:   key.ID,
		Data: data,
		TTL:  store.TTLSeconds(r.ttl),
	})
	if err != nil {
		return errors.WrapIfWithDetails(err, "failed to store record", "kind", r.kind, "id", key.ID)
	}
	return nil
}

func (r records[T]) get(ctx context.Context, key model.Key) (T, error) {
	var v T
	item, err := r.s.Get(ctx, key)
	if err != nil {
		if IsMiss(err) {
			return v, err
		}
		return v, errors.WrapIfWithDetails(err, "failed to read record", "kind", r.kind, "id", key.ID)
	}
	if err = decode(item.Data, &v); err != nil {
		return v, errors.WrapIfWithDetails(err, "failed to decode record", "kind", r.kind, "id", key.ID)
	}
	return v, nil
}

func (r records[T]) has(ctx context.Context, key model.Key) (bool, error) {
	_, err := r.s.Get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case IsMiss(err):
		return false, nil
	}
	return false, errors.WrapIfWithDetails(err, "failed to read record", "kind", r.kind, "id", key.ID)
}

func (r records[T]) forget(ctx context.Context, key model.Key) error {
	_, err := r.s.Delete(ctx, key)
	if err != nil && !IsMiss(err) {
		return errors.WrapIfWithDetails(err, "failed to delete record", "kind", r.kind, "id", key.ID)
	}
	return nil
}

func (r records[T]) list(ctx context.Context, bucket string) ([]T, error) {
	items, err := r.s.GetAll(ctx, bucket)
	if err != nil {
		return nil, errors.WrapIfWithDetails(err, "failed to list records", "kind", r.kind, "bucket", bucket)
	}
	result := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err = decode(item.Data, &v); err != nil {
			return nil, errors.WrapIfWithDetails(err, "failed to decode record", "kind", r.kind, "id", item.ID)
		}
		result = append(result, v)
	}
	return result, nil
}

func encode(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	err = json.Unmarshal(b, &data)
	return data, err
}

func decode(data map[string]interface{}, v interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

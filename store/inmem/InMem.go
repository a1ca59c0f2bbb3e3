// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
)

// record is a stored item with its absolute expiry. A zero expires never
// expires.
type record struct {
	item    model.Item
	expires time.Time
}

func (r record) expired(now time.Time) bool {
	return !r.expires.IsZero() && !now.Before(r.expires)
}

// view returns the item with its remaining TTL in whole seconds.
func (r record) view(now time.Time) model.Item {
	item := r.item
	if !r.expires.IsZero() {
		item.TTL = store.TTLSeconds(r.expires.Sub(now))
	}
	return item
}

// InMem keeps stage records in buckets of a process local map. Expired
// records are dropped when touched and by Sweep.
type InMem struct {
	lock    sync.Mutex
	buckets map[string]map[string]record
	now     func() time.Time
}

func NewInMem() *InMem {
	return NewInMemWithClock(time.Now)
}

// NewInMemWithClock creates an in-memory store that reads time from now.
func NewInMemWithClock(now func() time.Time) *InMem {
	if now == nil {
		now = time.Now
	}
	return &InMem{
		buckets: make(map[string]map[string]record),
		now:     now,
	}
}

var _ store.S = (*InMem)(nil)

func (i *InMem) Push(_ context.Context, key model.Key, item model.Item) error {
	item.ID = key.ID
	r := record{item: item}
	if item.TTL != nil {
		r.expires = i.now().Add(time.Duration(*item.TTL) * time.Second)
	}

	i.lock.Lock()
	defer i.lock.Unlock()
	bucket, ok := i.buckets[key.Bucket]
	if !ok {
		bucket = make(map[string]record)
		i.buckets[key.Bucket] = bucket
	}
	bucket[key.ID] = r
	return nil
}

func (i *InMem) Get(_ context.Context, key model.Key) (model.Item, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	now := i.now()
	r, ok := i.lookup(key, now)
	if !ok {
		return model.Item{}, store.NotFound(key, "get")
	}
	return r.view(now), nil
}

func (i *InMem) GetAll(_ context.Context, bucket string) (map[string]model.Item, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	now := i.now()
	result := make(map[string]model.Item, len(i.buckets[bucket]))
	for id, r := range i.buckets[bucket] {
		if r.expired(now) {
			i.remove(bucket, id)
			continue
		}
		result[id] = r.view(now)
	}
	return result, nil
}

func (i *InMem) Delete(_ context.Context, key model.Key) (model.Item, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	now := i.now()
	r, ok := i.lookup(key, now)
	if !ok {
		return model.Item{}, store.NotFound(key, "delete")
	}
	i.remove(key.Bucket, key.ID)
	return r.view(now), nil
}

// Sweep drops every expired record and returns how many were dropped. Stage
// records of abandoned searches are never read again, so only a sweep
// reclaims them.
func (i *InMem) Sweep() int {
	i.lock.Lock()
	defer i.lock.Unlock()
	now := i.now()
	var dropped int
	for name, bucket := range i.buckets {
		for id, r := range bucket {
			if r.expired(now) {
				i.remove(name, id)
				dropped++
			}
		}
	}
	return dropped
}

// Len returns the number of records held, expired or not.
func (i *InMem) Len() int {
	i.lock.Lock()
	defer i.lock.Unlock()
	var n int
	for _, bucket := range i.buckets {
		n += len(bucket)
	}
	return n
}

// lookup finds a live record, dropping it when it has expired. The caller
// holds the lock.
func (i *InMem) lookup(key model.Key, now time.Time) (record, bool) {
	r, ok := i.buckets[key.Bucket][key.ID]
	if !ok {
		return record{}, false
	}
	if r.expired(now) {
		i.remove(key.Bucket, key.ID)
		return record{}, false
	}
	return r, true
}

func (i *InMem) remove(bucket, id string) {
	b := i.buckets[bucket]
	delete(b, id)
	if len(b) == 0 {
		delete(i.buckets, bucket)
	}
}

// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"time"

	"github.com/xmidt-org/skyway/model"
)

const (
	// TypeLabel is for labeling metrics; if there is a single metric for
	// successful queries, the typeLabel and corresponding type can be used
	// when incrementing the metric.
	TypeLabel  = "type"
	InsertType = "insert"
	DeleteType = "delete"
	ReadType   = "read"
	PingType   = "ping"
)

// S is the key-value store backing the stage caches. Items carry their own
// TTL in seconds; an expired item behaves exactly like an absent one.
type S interface {
	Push(ctx context.Context, key model.Key, item model.Item) error
	Get(ctx context.Context, key model.Key) (model.Item, error)
	Delete(ctx context.Context, key model.Key) (model.Item, error)
	GetAll(ctx context.Context, bucket string) (map[string]model.Item, error)
}

// TTLSeconds converts a duration into the item TTL representation. Durations
// under a second round up so a positive TTL never becomes "no expiry".
func TTLSeconds(d time.Duration) *int64 {
	if d <= 0 {
		return nil
	}
	seconds := int64(d / time.Second)
	if d%time.Second != 0 {
		seconds++
	}
	return &seconds
}

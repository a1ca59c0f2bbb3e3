/**
 * Copyright 2020 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package storetest holds helpers shared by the tests of store.S
// implementations and their users.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
)

var GenericTestKeyPair = struct {
	Key  model.Key
	Item model.Item
}{
	Key: model.Key{
		Bucket: "bookings",
		ID:     "BK-7781",
	},
	Item: model.Item{
		ID: "BK-7781",
		Data: map[string]interface{}{
			"pnr":      "XK4L2Q",
			"amount":   float64(412.5),
			"segments": []interface{}{"DAC", "DXB"},
		},
		TTL: store.TTLSeconds(3 * time.Second),
	},
}

// StoreTest exercises the store.S contract. advance moves the store's clock
// forward; pass nil to skip the expiry checks.
func StoreTest(t *testing.T, s store.S, advance func(time.Duration)) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()
	key, item := GenericTestKeyPair.Key, GenericTestKeyPair.Item

	t.Log("Basic Test")
	require.NoError(s.Push(ctx, key, item))
	retVal, err := s.Get(ctx, key)
	assert.NoError(err)
	assert.Equal(item, retVal)

	items, err := s.GetAll(ctx, key.Bucket)
	assert.NoError(err)
	assert.Equal(map[string]model.Item{key.ID: item}, items)

	retVal, err = s.Delete(ctx, key)
	assert.NoError(err)
	assert.Equal(item, retVal)

	items, err = s.GetAll(ctx, key.Bucket)
	assert.NoError(err)
	assert.Equal(map[string]model.Item{}, items)

	_, err = s.Get(ctx, key)
	assert.True(errors.Is(err, store.ErrItemNotFound))

	if advance == nil {
		return
	}

	t.Log("starting expiry tests")
	require.NoError(s.Push(ctx, key, item))
	advance(time.Second)
	retVal, err = s.Get(ctx, key)
	assert.NoError(err)
	assert.Equal(key.ID, retVal.ID)

	advance(3 * time.Second)
	retVal, err = s.Get(ctx, key)
	assert.Equal(model.Item{}, retVal)
	assert.True(errors.Is(err, store.ErrItemNotFound))

	items, err = s.GetAll(ctx, key.Bucket)
	assert.NoError(err)
	assert.Empty(items)
}

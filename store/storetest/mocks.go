// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/skyway/model"
)

// MockDB is a testify mock of store.S.
type MockDB struct {
	mock.Mock
}

func (s *MockDB) Push(_ context.Context, key model.Key, item model.Item) error {
	args := s.Called(key, item)
	return args.Error(0)
}

func (s *MockDB) Get(_ context.Context, key model.Key) (model.Item, error) {
	args := s.Called(key)
	return args.Get(0).(model.Item), args.Error(1)
}

func (s *MockDB) Delete(_ context.Context, key model.Key) (model.Item, error) {
	args := s.Called(key)
	return args.Get(0).(model.Item), args.Error(1)
}

func (s *MockDB) GetAll(_ context.Context, bucket string) (map[string]model.Item, error) {
	args := s.Called(bucket)
	return args.Get(0).(map[string]model.Item), args.Error(1)
}

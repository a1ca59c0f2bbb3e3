// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/skyway/model"
)

type mockService struct {
	mock.Mock
}

func (s *mockService) Push(_ context.Context, key model.Key, item model.Item) (*types.ConsumedCapacity, error) {
	args := s.Called(key, item)
	return args.Get(0).(*types.ConsumedCapacity), args.Error(1)
}

func (s *mockService) Get(_ context.Context, key model.Key) (model.Item, *types.ConsumedCapacity, error) {
	args := s.Called(key)
	return args.Get(0).(model.Item), args.Get(1).(*types.ConsumedCapacity), args.Error(2)
}

func (s *mockService) Delete(_ context.Context, key model.Key) (model.Item, *types.ConsumedCapacity, error) {
	args := s.Called(key)
	return args.Get(0).(model.Item), args.Get(1).(*types.ConsumedCapacity), args.Error(2)
}

func (s *mockService) GetAll(_ context.Context, bucket string) (map[string]model.Item, *types.ConsumedCapacity, error) {
	args := s.Called(bucket)
	return args.Get(0).(map[string]model.Item), args.Get(1).(*types.ConsumedCapacity), args.Error(2)
}

type mockClient struct {
	mock.Mock
}

func (c *mockClient) PutItem(_ context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := c.Called(input)
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (c *mockClient) GetItem(_ context.Context, input *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := c.Called(input)
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (c *mockClient) DeleteItem(_ context.Context, input *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := c.Called(input)
	return args.Get(0).(*dynamodb.DeleteItemOutput), args.Error(1)
}

func (c *mockClient) Query(_ context.Context, input *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := c.Called(input)
	return args.Get(0).(*dynamodb.QueryOutput), args.Error(1)
}

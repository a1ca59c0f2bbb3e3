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

package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/xmidt-org/skyway/model"
	"go.uber.org/zap"
)

type loggingService struct {
	service
	debugLogger *zap.Logger
}

func newLoggingService(logger *zap.Logger, s service) service {
	return &loggingService{service: s, debugLogger: logger.With(zap.String("component", "dynamodb"))}
}

func (s *loggingService) Get(ctx context.Context, key model.Key) (item model.Item, consumedCapacity *types.ConsumedCapacity, err error) {
	defer func() {
		s.debugLogger.Debug("get", zap.String("bucket", key.Bucket), zap.String("id", key.ID), zap.Error(err))
	}()
	return s.service.Get(ctx, key)
}

func (s *loggingService) GetAll(ctx context.Context, bucket string) (items map[string]model.Item, consumedCapacity *types.ConsumedCapacity, err error) {
	defer func() {
		s.debugLogger.Debug("get all", zap.Int("itemsSize", len(items)), zap.String("bucket", bucket), zap.Error(err))
	}()
	return s.service.GetAll(ctx, bucket)
}

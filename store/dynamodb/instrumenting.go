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
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
	"github.com/xmidt-org/skyway/store/db/metric"
)

type instrumentingService struct {
	service
	measures metric.Measures
	now      func() time.Time
}

func newInstrumentingService(measures metric.Measures, s service) service {
	return &instrumentingService{measures: measures, service: s, now: time.Now}
}

func (s *instrumentingService) Push(ctx context.Context, key model.Key, item model.Item) (consumedCapacity *types.ConsumedCapacity, err error) {
	defer func(start time.Time) {
		s.update(store.InsertType, start, consumedCapacity, err)
	}(s.now())
	return s.service.Push(ctx, key, item)
}

func (s *instrumentingService) Get(ctx context.Context, key model.Key) (item model.Item, consumedCapacity *types.ConsumedCapacity, err error) {
	defer func(start time.Time) {
		s.update(store.ReadType, start, consumedCapacity, err)
	}(s.now())
	return s.service.Get(ctx, key)
}

func (s *instrumentingService) Delete(ctx context.Context, key model.Key) (item model.Item, consumedCapacity *types.ConsumedCapacity, err error) {
	defer func(start time.Time) {
		s.update(store.DeleteType, start, consumedCapacity, err)
	}(s.now())
	return s.service.Delete(ctx, key)
}

func (s *instrumentingService) GetAll(ctx context.Context, bucket string) (items map[string]model.Item, consumedCapacity *types.ConsumedCapacity, err error) {
	defer func(start time.Time) {
		s.update(store.ReadType, start, consumedCapacity, err)
	}(s.now())
	return s.service.GetAll(ctx, bucket)
}

func (s *instrumentingService) update(queryType string, start time.Time, consumedCapacity *types.ConsumedCapacity, err error) {
	s.measures.QueryDuration.WithLabelValues(queryType).Observe(s.now().Sub(start).Seconds())
	if err != nil {
		s.measures.QueryFailureCount.WithLabelValues(queryType).Inc()
	} else {
		s.measures.QuerySuccessCount.WithLabelValues(queryType).Inc()
	}

	if consumedCapacity == nil {
		return
	}
	if consumedCapacity.CapacityUnits != nil {
		s.measures.CapacityUnitConsumedCount.WithLabelValues(queryType).Add(*consumedCapacity.CapacityUnits)
	}
	if consumedCapacity.ReadCapacityUnits != nil {
		s.measures.ReadCapacityUnitConsumedCount.WithLabelValues(queryType).Add(*consumedCapacity.ReadCapacityUnits)
	}
	if consumedCapacity.WriteCapacityUnits != nil {
		s.measures.WriteCapacityUnitConsumedCount.WithLabelValues(queryType).Add(*consumedCapacity.WriteCapacityUnits)
	}
}

// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
	"github.com/xmidt-org/skyway/store/db/metric"
)

func TestInstrumentingService(t *testing.T) {
	tcs := []struct {
		Description     string
		Err             error
		Capacity        *types.ConsumedCapacity
		ExpectedSuccess float64
		ExpectedFailure float64
		ExpectedRead    float64
	}{
		{
			Description:     "Success with capacity",
			Capacity:        &types.ConsumedCapacity{CapacityUnits: aws.Float64(1.5), ReadCapacityUnits: aws.Float64(1.5)},
			ExpectedSuccess: 1,
			ExpectedRead:    1.5,
		},
		{
			Description:     "Failure without capacity",
			Err:             errors.New("boom"),
			Capacity:        (*types.ConsumedCapacity)(nil),
			ExpectedFailure: 1,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			m := new(mockService)
			measures := metric.NewMeasures()
			m.On("Get", testKey).Return(model.Item{}, tc.Capacity, tc.Err)

			s := newInstrumentingService(measures, m)
			_, _, err := s.Get(context.Background(), testKey)
			assert.Equal(tc.Err, err)
			assert.Equal(tc.ExpectedSuccess, testutil.ToFloat64(measures.QuerySuccessCount.WithLabelValues(store.ReadType)))
			assert.Equal(tc.ExpectedFailure, testutil.ToFloat64(measures.QueryFailureCount.WithLabelValues(store.ReadType)))
			assert.Equal(tc.ExpectedRead, testutil.ToFloat64(measures.ReadCapacityUnitConsumedCount.WithLabelValues(store.ReadType)))
			m.AssertExpectations(t)
		})
	}
}

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

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/skyway/store"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Generic Metrics
const (
	PoolInUseConnectionsGauge = "store_pool_in_use_connections"
	QueryDurationSeconds      = "store_query_duration_seconds"
	QuerySuccessCounter       = "store_query_success_count"
	QueryFailureCounter       = "store_query_failure_count"
)

// DynamoDB metrics
const (
	CapacityUnitConsumedCounter  = "capacity_unit_consumed"
	ReadCapacityConsumedCounter  = "read_capacity_unit_consumed"
	WriteCapacityConsumedCounter = "write_capacity_unit_consumed"
)

// ProvideMetrics returns the Metrics relevant to this package
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.Gauge(
			prometheus.GaugeOpts{
				Name: PoolInUseConnectionsGauge,
				Help: "The number of connections currently in use",
			},
		),
		touchstone.HistogramVec(
			prometheus.HistogramOpts{
				Name:    QueryDurationSeconds,
				Help:    "A histogram of latencies for store queries.",
				Buckets: []float64{0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, .5, 1, 5},
			},
			store.TypeLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: QuerySuccessCounter,
				Help: "The total number of successful store queries",
			},
			store.TypeLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: QueryFailureCounter,
				Help: "The total number of failed store queries",
			},
			store.TypeLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: CapacityUnitConsumedCounter,
				Help: "The number of capacity units consumed by the operation.",
			},
			store.TypeLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: ReadCapacityConsumedCounter,
				Help: "The number of read capacity units consumed by the operation.",
			},
			store.TypeLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: WriteCapacityConsumedCounter,
				Help: "The number of write capacity units consumed by the operation.",
			},
			store.TypeLabel,
		),
	)
}

type Measures struct {
	fx.In
	PoolInUseConnections prometheus.Gauge       `name:"store_pool_in_use_connections"`
	QueryDuration        prometheus.ObserverVec `name:"store_query_duration_seconds"`
	QuerySuccessCount    *prometheus.CounterVec `name:"store_query_success_count"`
	QueryFailureCount    *prometheus.CounterVec `name:"store_query_failure_count"`

	// DynamoDB Metrics
	CapacityUnitConsumedCount      *prometheus.CounterVec `name:"capacity_unit_consumed"`
	ReadCapacityUnitConsumedCount  *prometheus.CounterVec `name:"read_capacity_unit_consumed"`
	WriteCapacityUnitConsumedCount *prometheus.CounterVec `name:"write_capacity_unit_consumed"`
}

// NewMeasures builds unregistered Measures, useful outside of an fx container.
func NewMeasures() Measures {
	return Measures{
		PoolInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{Name: PoolInUseConnectionsGauge}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: QueryDurationSeconds,
		}, []string{store.TypeLabel}),
		QuerySuccessCount:              prometheus.NewCounterVec(prometheus.CounterOpts{Name: QuerySuccessCounter}, []string{store.TypeLabel}),
		QueryFailureCount:              prometheus.NewCounterVec(prometheus.CounterOpts{Name: QueryFailureCounter}, []string{store.TypeLabel}),
		CapacityUnitConsumedCount:      prometheus.NewCounterVec(prometheus.CounterOpts{Name: CapacityUnitConsumedCounter}, []string{store.TypeLabel}),
		ReadCapacityUnitConsumedCount:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: ReadCapacityConsumedCounter}, []string{store.TypeLabel}),
		WriteCapacityUnitConsumedCount: prometheus.NewCounterVec(prometheus.CounterOpts{Name: WriteCapacityConsumedCounter}, []string{store.TypeLabel}),
	}
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

const (
	AttemptsCounter           = "gateway_attempts_total"
	RequestDurationHistogram  = "gateway_request_duration_seconds"
	BreakerTransitionsCounter = "gateway_breaker_transitions_total"
)

const (
	ProviderLabel = "provider"
	OutcomeLabel  = "outcome"
	StateLabel    = "state"
)

// Attempt outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "status"
	OutcomeTransport = "transport"
	OutcomeAuth      = "auth"
)

// ProvideMetrics returns the Metrics relevant to this package
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: AttemptsCounter,
				Help: "The number of provider request attempts by outcome.",
			},
			ProviderLabel, OutcomeLabel,
		),
		touchstone.HistogramVec(
			prometheus.HistogramOpts{
				Name:    RequestDurationHistogram,
				Help:    "A histogram of latencies for provider request attempts.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			ProviderLabel,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: BreakerTransitionsCounter,
				Help: "The number of circuit breaker transitions by the state entered.",
			},
			ProviderLabel, StateLabel,
		),
	)
}

type Measures struct {
	fx.In
	Attempts           *prometheus.CounterVec `name:"gateway_attempts_total"`
	RequestDuration    prometheus.ObserverVec `name:"gateway_request_duration_seconds"`
	BreakerTransitions *prometheus.CounterVec `name:"gateway_breaker_transitions_total"`
}

// NewMeasures builds unregistered Measures, useful outside of an fx container.
func NewMeasures() Measures {
	return Measures{
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{Name: AttemptsCounter}, []string{ProviderLabel, OutcomeLabel}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: RequestDurationHistogram,
		}, []string{ProviderLabel}),
		BreakerTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{Name: BreakerTransitionsCounter}, []string{ProviderLabel, StateLabel}),
	}
}

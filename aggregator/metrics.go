// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

const ProviderResultsCounter = "aggregator_provider_results_total"

const (
	ProviderLabel = "provider"
	OutcomeLabel  = "outcome"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ProvideMetrics returns the Metrics relevant to this package
func ProvideMetrics() fx.Option {
	return touchstone.CounterVec(
		prometheus.CounterOpts{
			Name: ProviderResultsCounter,
			Help: "The number of provider searches by outcome.",
		},
		ProviderLabel, OutcomeLabel,
	)
}

type Measures struct {
	fx.In
	ProviderResults *prometheus.CounterVec `name:"aggregator_provider_results_total"`
}

// NewMeasures builds unregistered Measures, useful outside of an fx container.
func NewMeasures() Measures {
	return Measures{
		ProviderResults: prometheus.NewCounterVec(prometheus.CounterOpts{Name: ProviderResultsCounter}, []string{ProviderLabel, OutcomeLabel}),
	}
}

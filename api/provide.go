// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/xmidt-org/skyway/aggregator"
	"github.com/xmidt-org/skyway/coordinator"
	"go.uber.org/fx"
)

type EndpointsIn struct {
	fx.In

	Aggregator *aggregator.Aggregator
	Price      *coordinator.PriceCoordinator
	Booking    *coordinator.BookingCoordinator
	Payment    *coordinator.PaymentCoordinator
}

func Provide() fx.Option {
	return fx.Provide(
		func(in EndpointsIn) Endpoints {
			return NewEndpoints(in.Aggregator, in.Price, in.Booking, in.Payment)
		},
		NewHandlers,
	)
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coordinator

import (
	"github.com/xmidt-org/skyway/markup"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/stagecache"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type CoordinatorsIn struct {
	fx.In

	Registry *provider.Registry
	Markup   *markup.Engine
	Offers   *stagecache.OfferIdentifierCache
	Prices   *stagecache.PriceCache
	Bookings *stagecache.BookingCache
	Logger   *zap.Logger
}

type CoordinatorsOut struct {
	fx.Out

	Price   *PriceCoordinator
	Booking *BookingCoordinator
	Payment *PaymentCoordinator
}

func Provide() fx.Option {
	return fx.Provide(
		func(in CoordinatorsIn) CoordinatorsOut {
			logger := WithLogger(in.Logger)
			return CoordinatorsOut{
				Price:   NewPriceCoordinator(in.Registry, in.Markup, in.Offers, in.Prices, logger),
				Booking: NewBookingCoordinator(in.Registry, in.Prices, in.Bookings, logger),
				Payment: NewPaymentCoordinator(in.Registry, in.Bookings, logger),
			}
		},
	)
}

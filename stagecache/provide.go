// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package stagecache

import (
	"github.com/spf13/viper"
	"github.com/xmidt-org/skyway/store"
	"go.uber.org/fx"
)

// Key is the configuration section of the stage caches.
const Key = "cache"

// Caches groups every stage cache for injection.
type Caches struct {
	fx.Out

	Offers   *OfferIdentifierCache
	Prices   *PriceCache
	Bookings *BookingCache
	Searches *SearchResultCache
}

func Provide() fx.Option {
	return fx.Provide(
		func(v *viper.Viper) (Config, error) {
			var config Config
			err := v.UnmarshalKey(Key, &config)
			validateConfig(&config)
			return config, err
		},
		NewCaches,
	)
}

func NewCaches(s store.S, config Config) Caches {
	validateConfig(&config)
	return Caches{
		Offers:   NewOfferIdentifierCache(s, config.SearchTTL),
		Prices:   NewPriceCache(s),
		Bookings: NewBookingCache(s, config.BookingTTL),
		Searches: NewSearchResultCache(s, config),
	}
}

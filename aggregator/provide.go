// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package aggregator

import (
	"github.com/spf13/viper"
	"github.com/xmidt-org/skyway/markup"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/stagecache"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Key is the configuration section of the aggregator.
const Key = "search"

type AggregatorIn struct {
	fx.In

	Viper    *viper.Viper
	Registry *provider.Registry
	Markup   *markup.Engine
	Offers   *stagecache.OfferIdentifierCache
	Searches *stagecache.SearchResultCache
	Logger   *zap.Logger
	Measures Measures
}

func Provide() fx.Option {
	return fx.Options(
		ProvideMetrics(),
		fx.Provide(
			func(in AggregatorIn) (*Aggregator, error) {
				var config Config
				if err := in.Viper.UnmarshalKey(Key, &config); err != nil {
					return nil, err
				}
				return New(in.Registry, in.Markup, in.Offers,
					WithConfig(config),
					WithLogger(in.Logger),
					WithMeasures(in.Measures),
					WithResultCache(in.Searches),
				), nil
			},
		),
	)
}

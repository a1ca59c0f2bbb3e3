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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/skyway/aggregator"
	"github.com/xmidt-org/skyway/api"
	"github.com/xmidt-org/skyway/coordinator"
	"github.com/xmidt-org/skyway/markup"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/provider/rest"
	"github.com/xmidt-org/skyway/stagecache"
	"github.com/xmidt-org/skyway/store/db"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

const (
	applicationName = "skyway"
)

var (
	GitCommit = "undefined"
	Version   = "undefined"
	BuildTime = "undefined"
)

func main() {
	v, logger, err := setup(os.Args[1:], os.Stdout)
	switch {
	case errors.Is(err, errVersionPrinted), errors.Is(err, pflag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	app := fx.New(
		arrange.LoggerFunc(logger.Sugar().Infof),
		arrange.ForViper(v),
		fx.Supply(logger, v),
		touchstone.Provide(),
		provideMetrics(),
		db.Provide(),
		stagecache.Provide(),
		markup.Provide(),
		provider.Provide(),
		aggregator.Provide(),
		coordinator.Provide(),
		api.Provide(),
		provideServers(),
		fx.Provide(
			provideKinds,
			candlelight.New,
			func(v *viper.Viper) (touchstone.Config, error) {
				var config touchstone.Config
				err := v.UnmarshalKey("prometheus", &config)
				return config, err
			},
			func(v *viper.Viper) (candlelight.Config, error) {
				var config candlelight.Config
				err := v.UnmarshalKey("tracing", &config)
				if err != nil {
					return candlelight.Config{}, err
				}
				config.ApplicationName = applicationName
				return config, nil
			},
		),
	)

	switch err := app.Err(); {
	case errors.Is(err, pflag.ErrHelp):
		return
	case err == nil:
		app.Run()
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// provideKinds lists the provider kinds this binary can build from config.
func provideKinds() provider.Kinds {
	return provider.Kinds{
		rest.Kind: rest.New,
	}
}

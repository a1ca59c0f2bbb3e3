// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/arrange/arrangehttp"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/httpaux"
	"github.com/xmidt-org/skyway/api"
	"github.com/xmidt-org/touchstone/touchhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultPrimaryAddress = ":6600"
	defaultMetricsAddress = ":6601"
	defaultHealthAddress  = ":6602"

	defaultMetricsPath = "/metrics"
	defaultHealthPath  = "/health"
)

// Paths locates the metrics and health endpoints on their servers.
type Paths struct {
	MetricsPath string
	HealthPath  string
}

func providePaths(v *viper.Viper) (Paths, error) {
	var p Paths
	if err := v.UnmarshalKey("servers", &p); err != nil {
		return p, err
	}
	if p.MetricsPath == "" {
		p.MetricsPath = defaultMetricsPath
	}
	if p.HealthPath == "" {
		p.HealthPath = defaultHealthPath
	}
	return p, nil
}

type PrimaryMiddlewareIn struct {
	fx.In
	Chain alice.Chain `name:"servers.primary.middleware"`
}

type HealthMiddlewareIn struct {
	fx.In
	Chain alice.Chain `name:"servers.health.middleware"`
}

type MiddlewareIn struct {
	fx.In
	PrimaryMetrics touchhttp.ServerInstrumenter `name:"servers.primary.metrics"`
	HealthMetrics  touchhttp.ServerInstrumenter `name:"servers.health.metrics"`
	Logger         *zap.Logger
}

type MiddlewareOut struct {
	fx.Out
	Primary alice.Chain `name:"servers.primary.middleware"`
	Health  alice.Chain `name:"servers.health.middleware"`
}

func provideMiddleware(in MiddlewareIn) MiddlewareOut {
	return MiddlewareOut{
		Primary: api.Chain(in.Logger).Append(in.PrimaryMetrics.Then),
		Health:  alice.New(in.HealthMetrics.Then),
	}
}

// provideServers binds the primary, metrics and health servers to the
// application. Each is configured from servers.<name>, defaulting its address.
func provideServers() fx.Option {
	return fx.Options(
		fx.Provide(
			providePaths,
			provideMiddleware,
		),
		arrangehttp.Server{
			Name:          "servers.primary",
			Key:           "servers.primary",
			ServerFactory: arrangehttp.ServerConfig{Address: defaultPrimaryAddress},
			Inject:        arrange.Inject{PrimaryMiddlewareIn{}},
		}.Provide(),
		arrangehttp.Server{
			Name:          "servers.metrics",
			Key:           "servers.metrics",
			ServerFactory: arrangehttp.ServerConfig{Address: defaultMetricsAddress},
		}.Provide(),
		arrangehttp.Server{
			Name:          "servers.health",
			Key:           "servers.health",
			ServerFactory: arrangehttp.ServerConfig{Address: defaultHealthAddress},
			Inject:        arrange.Inject{HealthMiddlewareIn{}},
		}.Provide(),
		fx.Invoke(
			BuildPrimaryRoutes,
			BuildMetricsRoutes,
			BuildHealthRoutes,
		),
	)
}

type PrimaryRoutesIn struct {
	fx.In
	Router   *mux.Router `name:"servers.primary"`
	Tracing  candlelight.Tracing
	Handlers api.Handlers
}

func BuildPrimaryRoutes(in PrimaryRoutesIn) {
	api.RegisterRoutes(in.Router, in.Handlers, api.Tracing(in.Tracing)...)
}

type MetricsRoutesIn struct {
	fx.In
	Router   *mux.Router `name:"servers.metrics"`
	Paths    Paths
	Gatherer prometheus.Gatherer
}

func BuildMetricsRoutes(in MetricsRoutesIn) {
	in.Router.Handle(in.Paths.MetricsPath, promhttp.HandlerFor(in.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

type HealthRoutesIn struct {
	fx.In
	Router *mux.Router `name:"servers.health"`
	Paths  Paths
}

func BuildHealthRoutes(in HealthRoutesIn) {
	in.Router.Handle(in.Paths.HealthPath, httpaux.ConstantHandler{
		StatusCode: http.StatusOK,
	}).Methods(http.MethodGet)
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"github.com/xmidt-org/skyway/gateway"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Key is the configuration section listing the providers.
const Key = "providers"

var (
	ErrNoProviders = errors.New("at least one provider must be configured")
	ErrUnknownKind = errors.New("unknown provider kind")
)

// Executor sends requests through a provider's gateway.
type Executor interface {
	Execute(ctx context.Context, req gateway.Request) (*gateway.Response, error)
}

type Config struct {
	// Name identifies the provider in records, logs and metrics.
	Name string

	// Kind selects the Services implementation.
	Kind string

	// Paths overrides the endpoint path per operation: search, price, book, pay.
	Paths map[string]string

	Gateway gateway.Config
}

// Factory builds the Services of a provider kind on top of its gateway.
type Factory func(config Config, exec Executor) (Services, error)

// Kinds maps a provider kind to its factory.
type Kinds map[string]Factory

type RegistryIn struct {
	fx.In
	Viper    *viper.Viper
	Kinds    Kinds
	Logger   *zap.Logger
	Measures gateway.Measures
}

func Provide() fx.Option {
	return fx.Options(
		gateway.ProvideMetrics(),
		fx.Provide(
			func(in RegistryIn) (*Registry, error) {
				var configs []Config
				if err := in.Viper.UnmarshalKey(Key, &configs); err != nil {
					return nil, err
				}
				return NewRegistryFromConfig(configs, in.Kinds,
					gateway.WithLogger(in.Logger),
					gateway.WithMeasures(in.Measures),
				)
			},
		),
	)
}

// NewRegistryFromConfig gives every configured provider its own gateway and
// registers the Services built for its kind.
func NewRegistryFromConfig(configs []Config, kinds Kinds, opts ...gateway.Option) (*Registry, error) {
	if len(configs) == 0 {
		return nil, ErrNoProviders
	}
	r := NewRegistry()
	for _, c := range configs {
		factory, ok := kinds[c.Kind]
		if !ok {
			return nil, fmt.Errorf("%w %q for provider %s", ErrUnknownKind, c.Kind, c.Name)
		}
		c.Gateway.Name = c.Name
		gw, err := gateway.New(c.Gateway, opts...)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", c.Name, err)
		}
		s, err := factory(c, gw)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", c.Name, err)
		}
		if err = r.Register(c.Name, s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"github.com/spf13/viper"
	"github.com/xmidt-org/skyway/store"
	"github.com/xmidt-org/skyway/store/cassandra"
	"github.com/xmidt-org/skyway/store/db/metric"
	"github.com/xmidt-org/skyway/store/dynamodb"
	"github.com/xmidt-org/skyway/store/inmem"
	"github.com/xmidt-org/skyway/store/postgres"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type SetupIn struct {
	fx.In
	Viper    *viper.Viper
	Measures metric.Measures
	LC       fx.Lifecycle
	Logger   *zap.Logger
}

func Provide() fx.Option {
	return fx.Options(
		metric.ProvideMetrics(),
		fx.Provide(
			SetupStore,
		),
	)
}

// SetupStore picks the backend by the first configured section among
// dynamo, yugabyte and postgres. Without any, records live in memory.
func SetupStore(in SetupIn) (store.S, error) {
	switch {
	case in.Viper.IsSet(dynamodb.DynamoDB):
		in.Logger.Info("using dynamodb store implementation")
		return dynamodb.ProvideDynamoDB(in.Viper, in.Measures, in.Logger)
	case in.Viper.IsSet(cassandra.Yugabyte):
		in.Logger.Info("using yugabyte store implementation")
		return cassandra.ProvideCassandra(in.Viper, in.Measures, in.LC, in.Logger)
	case in.Viper.IsSet(postgres.Postgres):
		in.Logger.Info("using postgres store implementation")
		return postgres.ProvidePostgres(in.Viper, in.Measures, in.LC, in.Logger)
	}
	in.Logger.Info("using in memory store implementation")
	return inmem.ProvideInMem(in.Viper, in.LC, in.Logger)
}

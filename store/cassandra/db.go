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

package cassandra

import (
	"context"
	"errors"
	"time"

	"emperror.dev/emperror"
	"github.com/gocql/gocql"
	"github.com/spf13/viper"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
	"github.com/xmidt-org/skyway/store/db/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	Yugabyte = "yugabyte"

	defaultOpTimeout             = time.Duration(10) * time.Second
	defaultDatabase              = "skyway"
	defaultNumRetries            = 0
	defaultWaitTimeMult          = 1
	defaultMaxNumberConnsPerHost = 2
	defaultPingInterval          = 5 * time.Second
)

var errNoHosts = errors.New("number of hosts must be > 0")

type CassandraConfig struct {
	// Hosts to  connect to. Must have at least one
	Hosts []string

	// Database aka Keyspace for cassandra
	Database string

	// OpTimeout
	OpTimeout time.Duration

	// SSLRootCert used for enabling tls to the cluster. SSLKey, and SSLCert must also be set.
	SSLRootCert string
	// SSLKey used for enabling tls to the cluster. SSLRootCert, and SSLCert must also be set.
	SSLKey string
	// SSLCert used for enabling tls to the cluster. SSLRootCert, and SSLRootCert must also be set.
	SSLCert string
	// If you want to verify the hostname and server cert (like a wildcard for cass cluster) then you should turn this on
	// This option is basically the inverse of InSecureSkipVerify
	// See InSecureSkipVerify in http://golang.org/pkg/crypto/tls/ for more info
	EnableHostVerification bool

	// Username to authenticate into the cluster. Password must also be provided.
	Username string
	// Password to authenticate into the cluster. Username must also be provided.
	Password string

	// NumRetries for connecting to the db
	NumRetries int

	// WaitTimeMult the amount of time to wait before retrying to connect to the db
	WaitTimeMult time.Duration

	// MaxConnsPerHost max number of connections per host
	MaxConnsPerHost int

	// PingInterval is how often the session health is checked.
	PingInterval time.Duration
}

type CassandraClient struct {
	client   dbStore
	config   CassandraConfig
	logger   *zap.Logger
	measures metric.Measures
}

// ProvideCassandra builds the cassandra backed store from the yugabyte
// config section and ties its health loop to the application lifecycle.
func ProvideCassandra(v *viper.Viper, measures metric.Measures, lc fx.Lifecycle, logger *zap.Logger) (store.S, error) {
	var config CassandraConfig
	err := v.UnmarshalKey(Yugabyte, &config)
	if err != nil {
		return nil, err
	}
	client, err := CreateCassandraClient(config, measures, logger)
	if err != nil {
		return nil, err
	}
	ticker := doEvery(client.config.PingInterval, func(_ time.Time) {
		err := client.Ping()
		if err != nil {
			logger.Error("ping failed", zap.Error(err))
		}
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			ticker.Stop()
			client.Close()
			return nil
		},
	})
	return client, nil
}

func doEvery(d time.Duration, f func(time.Time)) *time.Ticker {
	ticker := time.NewTicker(d)
	go func() {
		for x := range ticker.C {
			f(x)
		}
	}()
	return ticker
}

func CreateCassandraClient(config CassandraConfig, measures metric.Measures, logger *zap.Logger) (*CassandraClient, error) {
	if len(config.Hosts) == 0 {
		return nil, errNoHosts
	}

	validateConfig(&config)

	clusterConfig := gocql.NewCluster(config.Hosts...)
	clusterConfig.Consistency = gocql.LocalQuorum
	clusterConfig.Keyspace = config.Database
	clusterConfig.Timeout = config.OpTimeout
	clusterConfig.NumConns = config.MaxConnsPerHost
	// let retry package handle it
	clusterConfig.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 1}
	// setup ssl
	if config.SSLRootCert != "" && config.SSLCert != "" && config.SSLKey != "" {
		clusterConfig.SslOpts = &gocql.SslOptions{
			CertPath:               config.SSLCert,
			KeyPath:                config.SSLKey,
			CaPath:                 config.SSLRootCert,
			EnableHostVerification: config.EnableHostVerification,
		}
	}
	// setup authentication
	if config.Username != "" && config.Password != "" {
		clusterConfig.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	session, err := connect(clusterConfig, logger)

	// retry if it fails
	waitTime := 1 * time.Second
	for attempt := 0; attempt < config.NumRetries && err != nil; attempt++ {
		time.Sleep(waitTime)
		session, err = connect(clusterConfig, logger)
		waitTime = waitTime * config.WaitTimeMult
	}
	if err != nil {
		return nil, emperror.WrapWith(err, "Connecting to database failed", "hosts", config.Hosts)
	}

	return &CassandraClient{
		client:   session,
		config:   config,
		logger:   logger,
		measures: measures,
	}, nil
}

func (s *CassandraClient) Push(ctx context.Context, key model.Key, item model.Item) error {
	err := s.client.Push(ctx, key, item)
	if err != nil {
		s.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
		return store.SanitizeError(err)
	}
	s.measures.QuerySuccessCount.WithLabelValues(store.InsertType).Inc()
	return nil
}

func (s *CassandraClient) Get(ctx context.Context, key model.Key) (model.Item, error) {
	item, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, errNoDataResponse) {
			return item, store.NotFound(key, "get")
		}
		s.measures.QueryFailureCount.WithLabelValues(store.ReadType).Inc()
		return item, store.SanitizeError(err)
	}
	s.measures.QuerySuccessCount.WithLabelValues(store.ReadType).Inc()
	return item, nil
}

func (s *CassandraClient) Delete(ctx context.Context, key model.Key) (model.Item, error) {
	item, err := s.client.Delete(ctx, key)
	if err != nil {
		if errors.Is(err, errNoDataResponse) {
			return item, store.NotFound(key, "delete")
		}
		s.measures.QueryFailureCount.WithLabelValues(store.DeleteType).Inc()
		return item, store.SanitizeError(err)
	}
	s.measures.QuerySuccessCount.WithLabelValues(store.DeleteType).Inc()
	return item, nil
}

func (s *CassandraClient) GetAll(ctx context.Context, bucket string) (map[string]model.Item, error) {
	items, err := s.client.GetAll(ctx, bucket)
	if err != nil {
		s.measures.QueryFailureCount.WithLabelValues(store.ReadType).Inc()
		return items, store.SanitizeError(err)
	}
	s.measures.QuerySuccessCount.WithLabelValues(store.ReadType).Inc()
	return items, nil
}

func (s *CassandraClient) Close() {
	s.client.Close()
}

// Ping is for pinging the database to verify that the connection is still good.
func (s *CassandraClient) Ping() error {
	err := s.client.Ping()
	if err != nil {
		s.measures.QueryFailureCount.WithLabelValues(store.PingType).Inc()
		return emperror.WrapWith(err, "Pinging connection failed")
	}
	s.measures.QuerySuccessCount.WithLabelValues(store.PingType).Inc()
	return nil
}

func validateConfig(config *CassandraConfig) {
	zeroDuration := time.Duration(0) * time.Second

	if config.OpTimeout == zeroDuration {
		config.OpTimeout = defaultOpTimeout
	}

	if config.Database == "" {
		config.Database = defaultDatabase
	}
	if config.NumRetries < 0 {
		config.NumRetries = defaultNumRetries
	}
	if config.WaitTimeMult < 1 {
		config.WaitTimeMult = defaultWaitTimeMult
	}
	if config.MaxConnsPerHost <= 0 {
		config.MaxConnsPerHost = defaultMaxNumberConnsPerHost
	}
	if config.PingInterval <= 0 {
		config.PingInterval = defaultPingInterval
	}
}

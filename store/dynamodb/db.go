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

package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/viper"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
	"github.com/xmidt-org/skyway/store/db/metric"
	"go.uber.org/zap"
)

const (
	DynamoDB = "dynamo"

	defaultTable      = "skyway"
	defaultMaxRetries = 3
	defaultRegion     = "us-east-1"
	defaultOpTimeout  = 5 * time.Second
)

type Config struct {
	// Table is the name of the table holding all buckets. Its partition key
	// is "bucket" and its sort key is "id".
	Table string

	// Endpoint overrides the service endpoint, such as for a local dynamodb.
	Endpoint string

	Region     string
	MaxRetries int

	// AccessKey and SecretKey are optional static credentials. When empty,
	// the default credential chain is used.
	AccessKey string
	SecretKey string

	// OpTimeout bounds every single table operation.
	OpTimeout time.Duration
}

// dao adapts the dynamodb service to the abstract store interface.
type dao struct {
	s         service
	opTimeout time.Duration
}

// ProvideDynamoDB builds the dynamodb backed store from the dynamo config section.
func ProvideDynamoDB(v *viper.Viper, measures metric.Measures, logger *zap.Logger) (store.S, error) {
	var config Config
	err := v.UnmarshalKey(DynamoDB, &config)
	if err != nil {
		return nil, err
	}
	validateConfig(&config)

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
		awsconfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), config.MaxRetries)
		}),
	}
	if config.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	c := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})
	return newDAO(c, config, measures, logger), nil
}

func newDAO(c client, config Config, measures metric.Measures, logger *zap.Logger) *dao {
	var svc service = newService(c, config.Table)
	svc = newLoggingService(logger, svc)
	svc = newInstrumentingService(measures, svc)
	return &dao{s: svc, opTimeout: config.OpTimeout}
}

func (d *dao) Push(ctx context.Context, key model.Key, item model.Item) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	_, err := d.s.Push(ctx, key, item)
	return err
}

func (d *dao) Get(ctx context.Context, key model.Key) (model.Item, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	item, _, err := d.s.Get(ctx, key)
	return item, err
}

func (d *dao) Delete(ctx context.Context, key model.Key) (model.Item, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	item, _, err := d.s.Delete(ctx, key)
	return item, err
}

func (d *dao) GetAll(ctx context.Context, bucket string) (map[string]model.Item, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	items, _, err := d.s.GetAll(ctx, bucket)
	return items, err
}

func (d *dao) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.opTimeout)
}

func validateConfig(config *Config) {
	if config.Table == "" {
		config.Table = defaultTable
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaultMaxRetries
	}
	if config.Region == "" {
		config.Region = defaultRegion
	}
	if config.OpTimeout == 0 {
		config.OpTimeout = defaultOpTimeout
	}
}

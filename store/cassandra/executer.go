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
	"encoding/json"
	"errors"

	"github.com/gocql/gocql"
	"github.com/hailocab/go-hostpool"
	"github.com/xmidt-org/skyway/model"
	"go.uber.org/zap"
)

type dbStore interface {
	Push(ctx context.Context, key model.Key, item model.Item) error
	Get(ctx context.Context, key model.Key) (model.Item, error)
	Delete(ctx context.Context, key model.Key) (model.Item, error)
	GetAll(ctx context.Context, bucket string) (map[string]model.Item, error)
	Close()
	Ping() error
}

var (
	errNoDataResponse = errors.New("no data from query")
	errServerClosed   = errors.New("server is closed")
)

type cassandraExecutor struct {
	session *gocql.Session
	logger  *zap.Logger
}

func connect(clusterConfig *gocql.ClusterConfig, logger *zap.Logger) (dbStore, error) {
	clusterConfig.PoolConfig.HostSelectionPolicy = gocql.HostPoolHostPolicy(hostpool.New(nil))
	session, err := clusterConfig.CreateSession()
	if err != nil {
		return nil, err
	}

	return &cassandraExecutor{session: session, logger: logger}, nil
}

// ttlOf maps the item TTL onto cassandra semantics where 0 means no expiry.
func ttlOf(item model.Item) int64 {
	if item.TTL == nil || *item.TTL < 0 {
		return 0
	}
	return *item.TTL
}

// withTTL restores the item TTL from ttl(data), which is null for rows
// written without one.
func withTTL(item model.Item, ttl int64) model.Item {
	if ttl > 0 {
		item.TTL = &ttl
	}
	return item
}

func (s *cassandraExecutor) Push(ctx context.Context, key model.Key, item model.Item) error {
	data, err := json.Marshal(item.Data)
	if err != nil {
		return err
	}

	return s.session.Query("INSERT INTO gifnoc (bucket, id, data) VALUES (?,?,?) USING TTL ?",
		key.Bucket, key.ID, data, ttlOf(item)).WithContext(ctx).Exec()
}

func (s *cassandraExecutor) Get(ctx context.Context, key model.Key) (model.Item, error) {
	var (
		data []byte
		ttl  int64
	)
	iter := s.session.Query("SELECT data, ttl(data) from gifnoc WHERE bucket = ? AND id = ?", key.Bucket, key.ID).WithContext(ctx).Iter()
	defer func() {
		err := iter.Close()
		if err != nil {
			s.logger.Error("failed to close iter", zap.String("bucket", key.Bucket), zap.String("id", key.ID), zap.Error(err))
		}
	}()
	for iter.Scan(&data, &ttl) {
		item := model.Item{ID: key.ID}
		err := json.Unmarshal(data, &item.Data)
		return withTTL(item, ttl), err
	}
	return model.Item{}, errNoDataResponse
}

func (s *cassandraExecutor) Delete(ctx context.Context, key model.Key) (model.Item, error) {
	item, err := s.Get(ctx, key)
	if err != nil {
		return item, err
	}
	err = s.session.Query("DELETE from gifnoc WHERE bucket = ? AND id = ?", key.Bucket, key.ID).WithContext(ctx).Exec()
	return item, err
}

func (s *cassandraExecutor) GetAll(ctx context.Context, bucket string) (map[string]model.Item, error) {
	result := map[string]model.Item{}
	var (
		key  string
		data []byte
		ttl  int64
	)
	iter := s.session.Query("SELECT id, data, ttl(data) from gifnoc WHERE bucket = ?", bucket).WithContext(ctx).Iter()
	for iter.Scan(&key, &data, &ttl) {
		item := model.Item{ID: key}
		err := json.Unmarshal(data, &item.Data)
		if err != nil {
			s.logger.Error("failed to unmarshal data", zap.String("bucket", bucket), zap.String("id", key), zap.Error(err))
			continue
		}
		result[key] = withTTL(item, ttl)
	}
	err := iter.Close()
	return result, err
}

func (s *cassandraExecutor) Close() {
	s.session.Close()
}

func (s *cassandraExecutor) Ping() error {
	if s.session.Closed() {
		return errServerClosed
	}
	return nil
}

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
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/xmidt-org/httpaux/erraux"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/store"
)

// client captures the methods of interest from the dynamoDB API. This
// should help mock API calls as well.
type client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// service defines the dynamodb specific DAO interface. It helps keeping middleware
// such as logging and instrumentation orthogonal to business logic.
type service interface {
	Push(ctx context.Context, key model.Key, item model.Item) (*types.ConsumedCapacity, error)
	Get(ctx context.Context, key model.Key) (model.Item, *types.ConsumedCapacity, error)
	Delete(ctx context.Context, key model.Key) (model.Item, *types.ConsumedCapacity, error)
	GetAll(ctx context.Context, bucket string) (map[string]model.Item, *types.ConsumedCapacity, error)
}

// executor satisfies the service interface so dao can then adapt the outputs to match
// the abstract store DAO.
type executor struct {
	// c is the dynamodb client
	c client

	// tableName is the name of the dynamodb table
	tableName string

	// now is the clock used for expiration checks
	now func() time.Time
}

type storableItem struct {
	Bucket  string                 `dynamodbav:"bucket"`
	ID      string                 `dynamodbav:"id"`
	Data    map[string]interface{} `dynamodbav:"data"`
	Expires *int64                 `dynamodbav:"expires,omitempty"`
}

// Dynamo DB attribute keys
const (
	bucketAttributeKey     = "bucket"
	idAttributeKey         = "id"
	expirationAttributeKey = "expires"
)

var (
	errDefaultDynamoDBFailure = &erraux.Error{
		Err:  errors.New("dynamodb operation failed"),
		Code: http.StatusInternalServerError,
	}
	errBadRequest = &erraux.Error{
		Err:  errors.New("bad request to dynamodb"),
		Code: http.StatusBadRequest,
	}
)

func handleClientError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException" {
		return store.SanitizedError{Err: err, ErrHTTP: errBadRequest}
	}
	return store.SanitizedError{Err: err, ErrHTTP: errDefaultDynamoDBFailure}
}

func (d *executor) itemKey(key model.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		bucketAttributeKey: &types.AttributeValueMemberS{Value: key.Bucket},
		idAttributeKey:     &types.AttributeValueMemberS{Value: key.ID},
	}
}

func (d *executor) Push(ctx context.Context, key model.Key, item model.Item) (*types.ConsumedCapacity, error) {
	storingItem := storableItem{
		Bucket: key.Bucket,
		ID:     key.ID,
		Data:   item.Data,
	}

	if item.TTL != nil {
		unixExpSeconds := d.now().Unix() + *item.TTL
		storingItem.Expires = &unixExpSeconds
	}

	av, err := attributevalue.MarshalMap(storingItem)
	if err != nil {
		return nil, err
	}
	input := &dynamodb.PutItemInput{
		Item:                   av,
		TableName:              aws.String(d.tableName),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	}

	result, err := d.c.PutItem(ctx, input)
	var consumedCapacity *types.ConsumedCapacity
	if result != nil {
		consumedCapacity = result.ConsumedCapacity
	}

	if err != nil {
		return consumedCapacity, handleClientError(err)
	}
	return consumedCapacity, nil
}

func (d *executor) executeGetOrDelete(ctx context.Context, key model.Key, delete bool) (*types.ConsumedCapacity, map[string]types.AttributeValue, error) {
	if delete {
		deleteInput := &dynamodb.DeleteItemInput{
			TableName:              aws.String(d.tableName),
			Key:                    d.itemKey(key),
			ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
			ReturnValues:           types.ReturnValueAllOld,
		}
		deleteOutput, err := d.c.DeleteItem(ctx, deleteInput)
		if err != nil {
			return nil, nil, err
		}
		return deleteOutput.ConsumedCapacity, deleteOutput.Attributes, nil
	}
	getInput := &dynamodb.GetItemInput{
		TableName:              aws.String(d.tableName),
		Key:                    d.itemKey(key),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	}
	getOutput, err := d.c.GetItem(ctx, getInput)
	if err != nil {
		return nil, nil, err
	}
	return getOutput.ConsumedCapacity, getOutput.Item, nil
}

func (d *executor) getOrDelete(ctx context.Context, key model.Key, delete bool) (model.Item, *types.ConsumedCapacity, error) {
	operation := "get"
	if delete {
		operation = "delete"
	}
	consumedCapacity, attributes, err := d.executeGetOrDelete(ctx, key, delete)
	if err != nil {
		return model.Item{}, consumedCapacity, handleClientError(err)
	}
	item := new(storableItem)
	err = attributevalue.UnmarshalMap(attributes, item)
	if err != nil {
		return model.Item{}, consumedCapacity, err
	}

	if itemNotFound(item) {
		return model.Item{}, consumedCapacity, store.NotFound(key, operation)
	}

	result, ok := d.toItem(item)
	if !ok {
		return model.Item{}, consumedCapacity, store.NotFound(key, operation)
	}
	return result, consumedCapacity, nil
}

// toItem converts a stored row, reporting false when the row expired but was
// not yet collected by DynamoDB's TTL sweeper.
func (d *executor) toItem(item *storableItem) (model.Item, bool) {
	result := model.Item{
		ID:   item.ID,
		Data: item.Data,
	}
	if item.Expires != nil {
		remainingTTLSeconds := int64(time.Unix(*item.Expires, 0).Sub(d.now()).Seconds())
		if remainingTTLSeconds < 1 {
			return model.Item{}, false
		}
		result.TTL = &remainingTTLSeconds
	}
	return result, true
}

func (d *executor) Get(ctx context.Context, key model.Key) (model.Item, *types.ConsumedCapacity, error) {
	return d.getOrDelete(ctx, key, false)
}

func (d *executor) Delete(ctx context.Context, key model.Key) (model.Item, *types.ConsumedCapacity, error) {
	return d.getOrDelete(ctx, key, true)
}

func (d *executor) GetAll(ctx context.Context, bucket string) (map[string]model.Item, *types.ConsumedCapacity, error) {
	result := map[string]model.Item{}
	var (
		consumedCapacity *types.ConsumedCapacity
		startKey         map[string]types.AttributeValue
	)
	for {
		queryResult, err := d.c.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(d.tableName),
			KeyConditionExpression: aws.String("#b = :b"),
			ExpressionAttributeNames: map[string]string{
				"#b": bucketAttributeKey,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":b": &types.AttributeValueMemberS{Value: bucket},
			},
			ExclusiveStartKey:      startKey,
			ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
		})
		if queryResult != nil {
			consumedCapacity = addCapacity(consumedCapacity, queryResult.ConsumedCapacity)
		}
		if err != nil {
			return map[string]model.Item{}, consumedCapacity, handleClientError(err)
		}

		for _, i := range queryResult.Items {
			item := new(storableItem)
			err = attributevalue.UnmarshalMap(i, item)
			if err != nil || itemNotFound(item) {
				continue
			}
			if converted, ok := d.toItem(item); ok {
				result[item.ID] = converted
			}
		}

		if len(queryResult.LastEvaluatedKey) == 0 {
			return result, consumedCapacity, nil
		}
		startKey = queryResult.LastEvaluatedKey
	}
}

func addCapacity(total, page *types.ConsumedCapacity) *types.ConsumedCapacity {
	if page == nil {
		return total
	}
	if total == nil {
		total = &types.ConsumedCapacity{TableName: page.TableName}
	}
	total.CapacityUnits = addUnits(total.CapacityUnits, page.CapacityUnits)
	total.ReadCapacityUnits = addUnits(total.ReadCapacityUnits, page.ReadCapacityUnits)
	total.WriteCapacityUnits = addUnits(total.WriteCapacityUnits, page.WriteCapacityUnits)
	return total
}

func addUnits(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return aws.Float64(*a + *b)
}

func itemNotFound(item *storableItem) bool {
	return item.Bucket == "" || item.ID == ""
}

func newService(c client, tableName string) service {
	return &executor{
		c:         c,
		tableName: tableName,
		now:       time.Now,
	}
}

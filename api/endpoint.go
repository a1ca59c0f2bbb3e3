// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/xmidt-org/skyway/model"
)

type Searcher interface {
	Search(ctx context.Context, req model.SearchRequest) (model.SearchResponse, error)
	Identifiers(ctx context.Context, searchID string) ([]model.OfferIdentifier, error)
}

type Pricer interface {
	Price(ctx context.Context, searchID, offerID string) (model.PriceRecord, error)
}

type Booker interface {
	Book(ctx context.Context, req model.BookRequest) (model.BookingRecord, error)
}

type Payer interface {
	Pay(ctx context.Context, req model.PayRequest) (model.PaymentResult, error)
}

// Endpoints are the go-kit endpoints of every stage.
type Endpoints struct {
	Search      endpoint.Endpoint
	Identifiers endpoint.Endpoint
	Price       endpoint.Endpoint
	Book        endpoint.Endpoint
	Pay         endpoint.Endpoint
}

func NewEndpoints(s Searcher, p Pricer, b Booker, pay Payer) Endpoints {
	return Endpoints{
		Search:      newSearchEndpoint(s),
		Identifiers: newIdentifiersEndpoint(s),
		Price:       newPriceEndpoint(p),
		Book:        newBookEndpoint(b),
		Pay:         newPayEndpoint(pay),
	}
}

func newSearchEndpoint(s Searcher) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*model.SearchRequest)
		resp, err := s.Search(ctx, *req)
		if err != nil {
			return nil, err
		}
		return &resp, nil
	}
}

func newIdentifiersEndpoint(s Searcher) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*identifiersRequest)
		ids, err := s.Identifiers(ctx, req.searchID)
		if err != nil {
			return nil, err
		}
		return &dataResponse{Data: ids}, nil
	}
}

func newPriceEndpoint(p Pricer) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*priceRequest)
		rec, err := p.Price(ctx, req.SearchID, req.OfferID)
		if err != nil {
			return nil, err
		}
		return &dataResponse{Data: rec}, nil
	}
}

func newBookEndpoint(b Booker) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*model.BookRequest)
		rec, err := b.Book(ctx, *req)
		if err != nil {
			return nil, err
		}
		return &dataResponse{Data: rec}, nil
	}
}

func newPayEndpoint(pay Payer) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*model.PayRequest)
		result, err := pay.Pay(ctx, *req)
		if err != nil {
			return nil, err
		}
		return &result, nil
	}
}

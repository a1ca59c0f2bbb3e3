// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package rest implements provider Services for GDS providers that speak the
canonical JSON shapes directly: one POST endpoint per stage.
*/
package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/xmidt-org/skyway/gateway"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
)

// Kind is the provider kind served by this package.
const Kind = "rest"

// Operation names usable as path overrides.
const (
	SearchOperation = "search"
	PriceOperation  = "price"
	BookOperation   = "book"
	PayOperation    = "pay"
)

var defaultPaths = map[string]string{
	SearchOperation: "/search",
	PriceOperation:  "/price",
	BookOperation:   "/book",
	PayOperation:    "/pay",
}

var ErrNilExecutor = errors.New("an executor is required")

type searchResponse struct {
	Offers []model.Offer `json:"offers"`
}

type Client struct {
	exec  provider.Executor
	paths map[string]string
}

// New is the provider.Factory of the rest kind.
func New(config provider.Config, exec provider.Executor) (provider.Services, error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}
	paths := make(map[string]string, len(defaultPaths))
	for op, p := range defaultPaths {
		paths[op] = p
	}
	for op, p := range config.Paths {
		if p != "" {
			paths[op] = p
		}
	}
	return &Client{exec: exec, paths: paths}, nil
}

func (c *Client) post(ctx context.Context, op string, body, out interface{}) error {
	resp, err := c.exec.Execute(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   c.paths[op],
		Body:   body,
	})
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (c *Client) Search(ctx context.Context, req model.SearchRequest) ([]model.Offer, error) {
	var resp searchResponse
	if err := c.post(ctx, SearchOperation, req, &resp); err != nil {
		return nil, err
	}
	return resp.Offers, nil
}

func (c *Client) Price(ctx context.Context, req provider.PriceRequest) (provider.PriceQuote, error) {
	var quote provider.PriceQuote
	err := c.post(ctx, PriceOperation, req, &quote)
	return quote, err
}

func (c *Client) Book(ctx context.Context, req provider.BookRequest) (provider.BookingConfirmation, error) {
	var conf provider.BookingConfirmation
	err := c.post(ctx, BookOperation, req, &conf)
	return conf, err
}

func (c *Client) Pay(ctx context.Context, req provider.PayRequest) (provider.PaymentConfirmation, error) {
	var conf provider.PaymentConfirmation
	err := c.post(ctx, PayOperation, req, &conf)
	return conf, err
}

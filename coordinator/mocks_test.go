// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coordinator

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
)

type mockServices struct {
	mock.Mock
}

func (m *mockServices) Search(_ context.Context, req model.SearchRequest) ([]model.Offer, error) {
	args := m.Called(req)
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *mockServices) Price(_ context.Context, req provider.PriceRequest) (provider.PriceQuote, error) {
	args := m.Called(req)
	return args.Get(0).(provider.PriceQuote), args.Error(1)
}

func (m *mockServices) Book(_ context.Context, req provider.BookRequest) (provider.BookingConfirmation, error) {
	args := m.Called(req)
	return args.Get(0).(provider.BookingConfirmation), args.Error(1)
}

func (m *mockServices) Pay(_ context.Context, req provider.PayRequest) (provider.PaymentConfirmation, error) {
	args := m.Called(req)
	return args.Get(0).(provider.PaymentConfirmation), args.Error(1)
}

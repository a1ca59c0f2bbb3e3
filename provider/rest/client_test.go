// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/skyway/gateway"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
)

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(_ context.Context, req gateway.Request) (*gateway.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*gateway.Response)
	return resp, args.Error(1)
}

func jsonResponse(t *testing.T, v interface{}) *gateway.Response {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return &gateway.Response{StatusCode: http.StatusOK, Body: b}
}

func TestSearch(t *testing.T) {
	assert := assert.New(t)
	m := new(mockExecutor)
	req := model.SearchRequest{Origin: "DAC", Destination: "DXB", DepartureDate: "2025-07-01"}
	m.On("Execute", gateway.Request{Method: http.MethodPost, Path: "/v2/shop", Body: req}).
		Return(&gateway.Response{StatusCode: 200, Body: []byte(`{"offers":[{"offer_ref":"R1","price":{"currency":"USD","base":100,"taxes":20,"fees":5,"amount":125}},{"offer_ref":"R2","price_scalar":"310.5"}]}`)}, nil)

	s, err := New(provider.Config{Paths: map[string]string{SearchOperation: "/v2/shop"}}, m)
	require.NoError(t, err)
	offers, err := s.Search(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal("R1", offers[0].OfferRef)
	assert.Equal(125.0, offers[0].Price.Amount)
	assert.Equal("310.5", offers[1].PriceScalar)
	m.AssertExpectations(t)
}

func TestStages(t *testing.T) {
	assert := assert.New(t)
	m := new(mockExecutor)
	priceReq := provider.PriceRequest{OfferRef: "R1", Cabin: model.CabinEconomy}
	quote := provider.PriceQuote{PriceID: "P-1", Price: model.Price{Currency: "USD", Base: 100, Amount: 100}}
	bookReq := provider.BookRequest{OfferRef: "R1", PriceID: "P-1", Contact: model.Contact{Email: "a@b.co", Phone: "+8801700000000"}}
	booking := provider.BookingConfirmation{BookingID: "B-1", PNR: "XK4L2Q", Status: "HK"}
	payReq := provider.PayRequest{BookingID: "B-1", PNR: "XK4L2Q", PaymentMethod: model.PaymentMethodCard}
	payment := provider.PaymentConfirmation{Status: "success", TransactionID: "T-1"}

	m.On("Execute", gateway.Request{Method: http.MethodPost, Path: "/price", Body: priceReq}).Return(jsonResponse(t, quote), nil)
	m.On("Execute", gateway.Request{Method: http.MethodPost, Path: "/book", Body: bookReq}).Return(jsonResponse(t, booking), nil)
	m.On("Execute", gateway.Request{Method: http.MethodPost, Path: "/pay", Body: payReq}).Return(jsonResponse(t, payment), nil)

	s, err := New(provider.Config{}, m)
	require.NoError(t, err)

	gotQuote, err := s.Price(context.Background(), priceReq)
	assert.NoError(err)
	assert.Equal(quote, gotQuote)

	gotBooking, err := s.Book(context.Background(), bookReq)
	assert.NoError(err)
	assert.Equal(booking, gotBooking)

	gotPayment, err := s.Pay(context.Background(), payReq)
	assert.NoError(err)
	assert.Equal(payment, gotPayment)
	m.AssertExpectations(t)
}

func TestErrorsPropagate(t *testing.T) {
	m := new(mockExecutor)
	upstream := &gateway.UpstreamError{Provider: "travelport", Status: 500}
	m.On("Execute", mock.Anything).Return(nil, upstream)

	s, err := New(provider.Config{}, m)
	require.NoError(t, err)
	_, err = s.Price(context.Background(), provider.PriceRequest{OfferRef: "R1"})
	assert.True(t, errors.Is(err, upstream))

	m2 := new(mockExecutor)
	m2.On("Execute", mock.Anything).Return(&gateway.Response{StatusCode: 200, Body: []byte(`not json`)}, nil)
	s, err = New(provider.Config{}, m2)
	require.NoError(t, err)
	_, err = s.Book(context.Background(), provider.BookRequest{})
	assert.Error(t, err)
}

func TestNewRequiresExecutor(t *testing.T) {
	_, err := New(provider.Config{}, nil)
	assert.Equal(t, ErrNilExecutor, err)
}

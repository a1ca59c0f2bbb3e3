// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/skyway/aggregator"
	"github.com/xmidt-org/skyway/coordinator"
	"github.com/xmidt-org/skyway/gateway"
	"github.com/xmidt-org/skyway/markup"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/provider/rest"
	"github.com/xmidt-org/skyway/stagecache"
	"github.com/xmidt-org/skyway/store/inmem"
	"go.uber.org/zap"
)

// fakeGDS speaks the canonical provider shapes for one DAC to DXB itinerary.
type fakeGDS struct {
	t          *testing.T
	priceCalls int32
}

func (f *fakeGDS) handler() http.Handler {
	m := http.NewServeMux()
	m.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		var req model.SearchRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(f.t, "DAC", req.Origin)
		assert.Equal(f.t, "DXB", req.Destination)
		writeJSON(w, map[string]interface{}{
			"offers": []map[string]interface{}{
				{
					"offer_ref": "EK-585-DAC-DXB",
					"cabin":     "economy",
					"segments":  []map[string]interface{}{{"carrier": "EK", "flight_number": "585", "origin": "DAC", "destination": "DXB"}},
					"price":     map[string]interface{}{"currency": "USD", "base": 420, "taxes": 85.5, "fees": 12, "amount": 517.5},
				},
				{
					"offer_ref":    "BG-147-DAC-DXB",
					"segments":     []map[string]interface{}{{"carrier": "BG", "flight_number": "147", "origin": "DAC", "destination": "DXB"}},
					"price_scalar": "389.00",
				},
				{
					"price": map[string]interface{}{"amount": 10},
				},
			},
		})
	})
	m.HandleFunc("/price", func(w http.ResponseWriter, r *http.Request) {
		var req provider.PriceRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		n := atomic.AddInt32(&f.priceCalls, 1)
		writeJSON(w, map[string]interface{}{
			"price_id": req.OfferRef + "-P" + string(rune('0'+n)),
			"price":    map[string]interface{}{"currency": "USD", "base": 420, "taxes": 85.5, "fees": 12, "amount": 517.5},
		})
	})
	m.HandleFunc("/book", func(w http.ResponseWriter, r *http.Request) {
		var req provider.BookRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(f.t, "EK-585-DAC-DXB", req.OfferRef)
		assert.Len(f.t, req.Passengers, 1)
		writeJSON(w, map[string]interface{}{"booking_id": "BK-7781", "pnr": "ABC123", "status": "HK"})
	})
	m.HandleFunc("/pay", func(w http.ResponseWriter, r *http.Request) {
		var req provider.PayRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		if req.BookingID != "BK-7781" || req.PNR != "ABC123" {
			writeJSON(w, map[string]interface{}{"status": "DECLINED"})
			return
		}
		writeJSON(w, map[string]interface{}{"status": "SUCCESS", "transaction_id": "TX-0091"})
	})
	return m
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type FlowTestSuite struct {
	suite.Suite
	gds      *fakeGDS
	provider *httptest.Server
	server   *httptest.Server
}

func (s *FlowTestSuite) SetupTest() {
	s.gds = &fakeGDS{t: s.T()}
	s.provider = httptest.NewServer(s.gds.handler())

	registry, err := provider.NewRegistryFromConfig(
		[]provider.Config{{
			Name:    "demo",
			Kind:    rest.Kind,
			Gateway: gateway.Config{BaseURL: s.provider.URL},
		}},
		provider.Kinds{rest.Kind: rest.New},
		gateway.WithLogger(zap.NewNop()),
	)
	s.Require().NoError(err)

	engine := markup.NewEngine(map[string]markup.Rule{"demo": {MarkupPercentage: 10}}, nil)
	caches := stagecache.NewCaches(inmem.NewInMem(), stagecache.Config{})
	logger := zap.NewNop()

	endpoints := NewEndpoints(
		aggregator.New(registry, engine, caches.Offers, aggregator.WithLogger(logger)),
		coordinator.NewPriceCoordinator(registry, engine, caches.Offers, caches.Prices, coordinator.WithLogger(logger)),
		coordinator.NewBookingCoordinator(registry, caches.Prices, caches.Bookings, coordinator.WithLogger(logger)),
		coordinator.NewPaymentCoordinator(registry, caches.Bookings, coordinator.WithLogger(logger)),
	)
	s.server = httptest.NewServer(Chain(logger).Then(NewRouter(NewHandlers(endpoints))))
}

func (s *FlowTestSuite) TearDownTest() {
	s.server.Close()
	s.provider.Close()
}

func (s *FlowTestSuite) do(method, path string, body interface{}, out interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func searchBody() map[string]interface{} {
	return map[string]interface{}{
		"origin":         "DAC",
		"destination":    "DXB",
		"departure_date": "2025-09-14",
		"passengers":     map[string]interface{}{"adults": 1},
	}
}

func bookBody(priceID string) map[string]interface{} {
	return map[string]interface{}{
		"price_id": priceID,
		"passengers": []map[string]interface{}{{
			"type":          "ADT",
			"first_name":    "Rahim",
			"last_name":     "Uddin",
			"date_of_birth": "1990-04-12",
		}},
		"contact": map[string]interface{}{"email": "rahim@example.com", "phone": "+8801700000000"},
	}
}

func (s *FlowTestSuite) TestDhakaToDubai() {
	var search model.SearchResponse
	resp := s.do(http.MethodPost, "/api/v1/search", searchBody(), &search)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(resp.Header.Get(RequestIDHeaderKey))

	s.NotEmpty(search.Meta.SearchID)
	s.Require().Len(search.Data, 2)
	s.Equal("BG-147-DAC-DXB", search.Data[0].OfferRef)
	s.Equal(427.9, search.Data[0].TotalPrice)
	s.Equal("EK-585-DAC-DXB", search.Data[1].OfferRef)
	s.Equal(559.5, search.Data[1].TotalPrice)
	s.Equal(420.0, search.Data[1].OriginalPrice.Base)
	for _, o := range search.Data {
		s.Equal("demo", o.Provider)
	}

	var ids struct {
		Data []model.OfferIdentifier `json:"data"`
	}
	resp = s.do(http.MethodGet, "/api/v1/search/"+search.Meta.SearchID, nil, &ids)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Len(ids.Data, 2)

	var price struct {
		Data model.PriceRecord `json:"data"`
	}
	resp = s.do(http.MethodPost, "/api/v1/price", map[string]string{
		"search_id": search.Meta.SearchID,
		"offer_id":  search.Data[1].ID,
	}, &price)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("EK-585-DAC-DXB-P1", price.Data.PriceID)
	s.Equal("demo", price.Data.Provider)
	s.Equal(559.5, price.Data.TotalPrice())

	var booking struct {
		Data model.BookingRecord `json:"data"`
	}
	resp = s.do(http.MethodPost, "/api/v1/book", bookBody(price.Data.PriceID), &booking)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("BK-7781", booking.Data.BookingID)
	s.Equal("ABC123", booking.Data.PNR)
	s.Equal(model.BookingStatusConfirmed, booking.Data.Status)
	s.Equal(price.Data.PriceID, booking.Data.PriceSnapshot.PriceID)

	var payment model.PaymentResult
	resp = s.do(http.MethodPost, "/api/v1/pay", map[string]interface{}{
		"booking_id":     booking.Data.BookingID,
		"payment_method": "agency_credit",
	}, &payment)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(model.PaymentSuccess, payment.Status)
	s.Equal("TX-0091", payment.TransactionID)
	s.Equal("ABC123", payment.PNR)
}

func (s *FlowTestSuite) TestPriceIsNotCached() {
	var search model.SearchResponse
	s.do(http.MethodPost, "/api/v1/search", searchBody(), &search)
	s.Require().NotEmpty(search.Data)

	body := map[string]string{"search_id": search.Meta.SearchID, "offer_id": search.Data[0].ID}
	var first, second struct {
		Data model.PriceRecord `json:"data"`
	}
	s.do(http.MethodPost, "/api/v1/price", body, &first)
	s.do(http.MethodPost, "/api/v1/price", body, &second)

	s.NotEqual(first.Data.PriceID, second.Data.PriceID)
	s.Equal(int32(2), atomic.LoadInt32(&s.gds.priceCalls))
}

func (s *FlowTestSuite) TestUnknownIDs() {
	var body errorResponse
	resp := s.do(http.MethodPost, "/api/v1/price", map[string]string{"search_id": "nope", "offer_id": "nope"}, &body)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(body.Error, resp.Header.Get(SkywayErrorHeaderKey))
	s.Zero(atomic.LoadInt32(&s.gds.priceCalls))

	resp = s.do(http.MethodGet, "/api/v1/search/nope", nil, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/v1/book", bookBody("nope"), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/v1/pay", map[string]string{"booking_id": "nope", "payment_method": "card"}, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *FlowTestSuite) TestValidation() {
	var body errorResponse
	book := bookBody("P-1")
	book["passengers"] = []interface{}{}
	resp := s.do(http.MethodPost, "/api/v1/book", book, &body)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.NotEmpty(body.Violations)

	search := searchBody()
	delete(search, "origin")
	resp = s.do(http.MethodPost, "/api/v1/search", search, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/price", nil, nil)
	s.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestFlow(t *testing.T) {
	suite.Run(t, new(FlowTestSuite))
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/skyway/gateway"
	"github.com/xmidt-org/skyway/markup"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/stagecache"
	"github.com/xmidt-org/skyway/store/inmem"
	"go.uber.org/zap"
)

type CoordinatorTestSuite struct {
	suite.Suite
	ctx        context.Context
	amadeus    *mockServices
	travelport *mockServices
	caches     stagecache.Caches
	price      *PriceCoordinator
	booking    *BookingCoordinator
	payment    *PaymentCoordinator
}

func (s *CoordinatorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.amadeus = new(mockServices)
	s.travelport = new(mockServices)

	registry := provider.NewRegistry()
	s.Require().NoError(registry.Register("amadeus", s.amadeus))
	s.Require().NoError(registry.Register("travelport", s.travelport))

	engine := markup.NewEngine(
		map[string]markup.Rule{"amadeus": {MarkupPercentage: 10}},
		map[string]markup.Rule{model.CabinBusiness: {MarkupPercentage: 15}},
	)
	s.caches = stagecache.NewCaches(inmem.NewInMem(), stagecache.Config{})

	logger := WithLogger(zap.NewNop())
	s.price = NewPriceCoordinator(registry, engine, s.caches.Offers, s.caches.Prices, logger)
	s.booking = NewBookingCoordinator(registry, s.caches.Prices, s.caches.Bookings, logger)
	s.payment = NewPaymentCoordinator(registry, s.caches.Bookings, logger)
}

func (s *CoordinatorTestSuite) TearDownTest() {
	s.amadeus.AssertExpectations(s.T())
	s.travelport.AssertExpectations(s.T())
}

func (s *CoordinatorTestSuite) recordOffer(providerName, offerRef, cabin string) {
	s.Require().NoError(s.caches.Offers.Put(s.ctx, model.OfferIdentifier{
		SearchID: "search-1",
		OfferID:  "offer-1",
		Provider: providerName,
		OfferRef: offerRef,
		Cabin:    cabin,
	}))
}

func (s *CoordinatorTestSuite) recordPrice(providerName string) model.PriceRecord {
	rec := model.PriceRecord{
		PriceID:         "P-1",
		Provider:        providerName,
		OfferRef:        "REF-1",
		NormalizedPrice: model.Price{Currency: "USD", Base: 110, Taxes: 20, Fees: 5, Amount: 135},
		OriginalPrice:   model.Price{Currency: "USD", Base: 100, Taxes: 20, Fees: 5, Amount: 125},
	}
	s.Require().NoError(s.caches.Prices.Put(s.ctx, rec))
	return rec
}

func (s *CoordinatorTestSuite) recordBooking(providerName string) model.BookingRecord {
	rec := model.BookingRecord{
		BookingID: "B-1",
		Provider:  providerName,
		OfferRef:  "REF-1",
		PNR:       "PNR123",
		Status:    model.BookingStatusConfirmed,
	}
	s.Require().NoError(s.caches.Bookings.Put(s.ctx, rec))
	return rec
}

func passengers() []model.Passenger {
	return []model.Passenger{{
		Type:        model.PassengerAdult,
		FirstName:   "Rahim",
		LastName:    "Uddin",
		DateOfBirth: "1990-04-12",
	}}
}

func contact() model.Contact {
	return model.Contact{Email: "rahim@example.com", Phone: "+8801700000000"}
}

func (s *CoordinatorTestSuite) TestPriceUnknownOffer() {
	_, err := s.price.Price(s.ctx, "search-1", "missing")
	var nf model.NotFoundError
	s.Require().ErrorAs(err, &nf)
	s.Equal(model.OfferKind, nf.Kind)
	s.amadeus.AssertNotCalled(s.T(), "Price", mock.Anything)
	s.travelport.AssertNotCalled(s.T(), "Price", mock.Anything)
}

func (s *CoordinatorTestSuite) TestPriceMissingIDs() {
	_, err := s.price.Price(s.ctx, "", "")
	var verr model.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Len(verr.Violations, 2)
}

func (s *CoordinatorTestSuite) TestPriceUsesRecordedProvider() {
	s.recordOffer("travelport", "TP-REF-9", model.CabinBusiness)
	s.travelport.On("Price", provider.PriceRequest{OfferRef: "TP-REF-9", Cabin: model.CabinBusiness}).Return(provider.PriceQuote{
		PriceID: "TP-P-1",
		Price:   model.Price{Currency: "USD", Base: 200, Taxes: 30, Amount: 230},
		Offer:   &model.Offer{Provider: "spoofed", Segments: []model.Segment{{Carrier: "EK"}}},
	}, nil).Once()

	rec, err := s.price.Price(s.ctx, "search-1", "offer-1")
	s.Require().NoError(err)

	s.Equal("TP-P-1", rec.PriceID)
	s.Equal("travelport", rec.Provider)
	s.Equal(230.0, rec.NormalizedPrice.Base)
	s.Equal(260.0, rec.TotalPrice())
	s.Equal(200.0, rec.OriginalPrice.Base)
	s.Require().NotNil(rec.Offer)
	s.Equal("travelport", rec.Offer.Provider)
	s.Equal("offer-1", rec.Offer.ID)
	s.Equal(260.0, rec.Offer.TotalPrice)

	stored, err := s.caches.Prices.Get(s.ctx, "TP-P-1")
	s.Require().NoError(err)
	s.Equal(rec.PriceID, stored.PriceID)
	s.Equal(rec.NormalizedPrice, stored.NormalizedPrice)
	s.amadeus.AssertNotCalled(s.T(), "Price", mock.Anything)
}

func (s *CoordinatorTestSuite) TestPriceIsNotCached() {
	s.recordOffer("amadeus", "A-REF-1", "")
	req := provider.PriceRequest{OfferRef: "A-REF-1"}
	s.amadeus.On("Price", req).Return(provider.PriceQuote{PriceID: "P-1", Price: model.Price{Base: 100, Amount: 100}}, nil).Once()
	s.amadeus.On("Price", req).Return(provider.PriceQuote{PriceID: "P-2", Price: model.Price{Base: 100, Amount: 100}}, nil).Once()

	first, err := s.price.Price(s.ctx, "search-1", "offer-1")
	s.Require().NoError(err)
	second, err := s.price.Price(s.ctx, "search-1", "offer-1")
	s.Require().NoError(err)

	s.Equal("P-1", first.PriceID)
	s.Equal("P-2", second.PriceID)
	s.amadeus.AssertNumberOfCalls(s.T(), "Price", 2)

	for _, id := range []string{"P-1", "P-2"} {
		has, err := s.caches.Prices.Has(s.ctx, id)
		s.NoError(err)
		s.True(has, id)
	}
}

func (s *CoordinatorTestSuite) TestPriceWithoutPriceID() {
	s.recordOffer("amadeus", "A-REF-1", "")
	s.amadeus.On("Price", mock.Anything).Return(provider.PriceQuote{Price: model.Price{Base: 100, Amount: 100}}, nil).Once()

	_, err := s.price.Price(s.ctx, "search-1", "offer-1")
	var upstream *gateway.UpstreamError
	s.Require().ErrorAs(err, &upstream)
	s.ErrorIs(err, ErrMissingPriceID)
	s.Equal("amadeus", upstream.Provider)
}

func (s *CoordinatorTestSuite) TestPriceAmountOnly() {
	s.recordOffer("amadeus", "A-REF-1", "")
	s.amadeus.On("Price", mock.Anything).Return(provider.PriceQuote{PriceID: "P-1", Price: model.Price{Currency: "usd", Amount: 520}}, nil).Once()

	rec, err := s.price.Price(s.ctx, "search-1", "offer-1")
	s.Require().NoError(err)
	s.Equal(model.Price{Currency: "USD", Base: 520, Amount: 520}, rec.OriginalPrice)
	s.Equal(572.0, rec.NormalizedPrice.Base)
	s.Equal(572.0, rec.TotalPrice())
}

func (s *CoordinatorTestSuite) TestPriceWithoutUsablePrice() {
	s.recordOffer("amadeus", "A-REF-1", "")
	s.amadeus.On("Price", mock.Anything).Return(provider.PriceQuote{PriceID: "P-1", Price: model.Price{Currency: "USD"}}, nil).Once()

	_, err := s.price.Price(s.ctx, "search-1", "offer-1")
	var upstream *gateway.UpstreamError
	s.Require().ErrorAs(err, &upstream)
	s.ErrorIs(err, ErrUnusablePrice)
	s.Equal("amadeus", upstream.Provider)

	has, err := s.caches.Prices.Has(s.ctx, "P-1")
	s.NoError(err)
	s.False(has)
}

func (s *CoordinatorTestSuite) TestPriceUpstreamFailurePropagates() {
	s.recordOffer("amadeus", "A-REF-1", "")
	s.amadeus.On("Price", mock.Anything).Return(provider.PriceQuote{}, &gateway.CircuitOpenError{Provider: "amadeus", RetryAfter: 10 * time.Second}).Once()

	_, err := s.price.Price(s.ctx, "search-1", "offer-1")
	var open *gateway.CircuitOpenError
	s.ErrorAs(err, &open)
}

func (s *CoordinatorTestSuite) TestBookValidation() {
	tests := []struct {
		Description string
		Request     model.BookRequest
	}{
		{
			Description: "No passengers",
			Request:     model.BookRequest{PriceID: "P-1", Passengers: []model.Passenger{}, Contact: contact()},
		},
		{
			Description: "Nil passengers",
			Request:     model.BookRequest{PriceID: "P-1", Contact: contact()},
		},
		{
			Description: "Passenger without a name",
			Request:     model.BookRequest{PriceID: "P-1", Passengers: []model.Passenger{{Type: model.PassengerAdult, DateOfBirth: "1990-04-12"}}, Contact: contact()},
		},
		{
			Description: "Bad contact email",
			Request:     model.BookRequest{PriceID: "P-1", Passengers: passengers(), Contact: model.Contact{Email: "nope", Phone: "+8801700000000"}},
		},
		{
			Description: "Missing price id",
			Request:     model.BookRequest{Passengers: passengers(), Contact: contact()},
		},
	}

	s.recordPrice("amadeus")
	for _, tc := range tests {
		s.Run(tc.Description, func() {
			_, err := s.booking.Book(s.ctx, tc.Request)
			var verr model.ValidationError
			s.ErrorAs(err, &verr)
		})
	}
	s.amadeus.AssertNotCalled(s.T(), "Book", mock.Anything)
}

func (s *CoordinatorTestSuite) TestBookUnknownPrice() {
	_, err := s.booking.Book(s.ctx, model.BookRequest{PriceID: "missing", Passengers: passengers(), Contact: contact()})
	var nf model.NotFoundError
	s.Require().ErrorAs(err, &nf)
	s.Equal(model.PriceKind, nf.Kind)
}

func (s *CoordinatorTestSuite) TestBook() {
	priced := s.recordPrice("travelport")
	s.travelport.On("Book", provider.BookRequest{
		OfferRef:   "REF-1",
		PriceID:    "P-1",
		Passengers: passengers(),
		Contact:    contact(),
	}).Return(provider.BookingConfirmation{BookingID: "B-77", PNR: "XK42LM", Status: "HK"}, nil).Once()

	rec, err := s.booking.Book(s.ctx, model.BookRequest{PriceID: "P-1", Passengers: passengers(), Contact: contact()})
	s.Require().NoError(err)

	s.Equal("B-77", rec.BookingID)
	s.Equal("travelport", rec.Provider)
	s.Equal(model.BookingStatusConfirmed, rec.Status)
	s.Equal(priced, rec.PriceSnapshot)

	stored, err := s.caches.Bookings.Get(s.ctx, "B-77")
	s.Require().NoError(err)
	s.Equal(rec, stored)
}

func (s *CoordinatorTestSuite) TestBookUnknownStatus() {
	s.recordPrice("amadeus")
	s.amadeus.On("Book", mock.Anything).Return(provider.BookingConfirmation{BookingID: "B-1"}, nil).Once()

	rec, err := s.booking.Book(s.ctx, model.BookRequest{PriceID: "P-1", Passengers: passengers(), Contact: contact()})
	s.Require().NoError(err)
	s.Equal(model.BookingStatusUnknown, rec.Status)
}

func (s *CoordinatorTestSuite) TestBookWithoutBookingID() {
	s.recordPrice("amadeus")
	s.amadeus.On("Book", mock.Anything).Return(provider.BookingConfirmation{Status: "CONFIRMED"}, nil).Once()

	_, err := s.booking.Book(s.ctx, model.BookRequest{PriceID: "P-1", Passengers: passengers(), Contact: contact()})
	s.ErrorIs(err, ErrMissingBookingID)
}

// The payment provider always comes from the booking record, whichever
// provider is registered first.
func (s *CoordinatorTestSuite) TestPayUsesBookingProvider() {
	s.recordBooking("travelport")
	s.travelport.On("Pay", provider.PayRequest{
		BookingID:     "B-1",
		PNR:           "PNR123",
		PaymentMethod: model.PaymentMethodAgencyCredit,
	}).Return(provider.PaymentConfirmation{Status: "SUCCESS", TransactionID: "TX-1"}, nil).Once()

	result, err := s.payment.Pay(s.ctx, model.PayRequest{BookingID: "B-1", PaymentMethod: model.PaymentMethodAgencyCredit})
	s.Require().NoError(err)

	s.Equal(model.PaymentResult{BookingID: "B-1", PNR: "PNR123", Status: model.PaymentSuccess, TransactionID: "TX-1"}, result)
	s.amadeus.AssertNotCalled(s.T(), "Pay", mock.Anything)
}

func (s *CoordinatorTestSuite) TestPayOverridesPNR() {
	s.recordBooking("amadeus")
	s.amadeus.On("Pay", mock.MatchedBy(func(req provider.PayRequest) bool {
		return req.PNR == "OVERRIDE"
	})).Return(provider.PaymentConfirmation{Status: "declined", Message: "insufficient credit"}, nil).Once()

	result, err := s.payment.Pay(s.ctx, model.PayRequest{BookingID: "B-1", PaymentMethod: model.PaymentMethodCard, PNR: "OVERRIDE"})
	s.Require().NoError(err)
	s.Equal(model.PaymentFailed, result.Status)
	s.Equal("OVERRIDE", result.PNR)
	s.Equal("insufficient credit", result.Message)
}

func (s *CoordinatorTestSuite) TestPayUnknownBooking() {
	_, err := s.payment.Pay(s.ctx, model.PayRequest{BookingID: "missing", PaymentMethod: model.PaymentMethodCash})
	var nf model.NotFoundError
	s.Require().ErrorAs(err, &nf)
	s.Equal(model.BookingKind, nf.Kind)
}

func (s *CoordinatorTestSuite) TestPayValidation() {
	s.recordBooking("amadeus")
	_, err := s.payment.Pay(s.ctx, model.PayRequest{BookingID: "B-1", PaymentMethod: "cheque"})
	var verr model.ValidationError
	s.ErrorAs(err, &verr)
	s.amadeus.AssertNotCalled(s.T(), "Pay", mock.Anything)
}

func TestCoordinators(t *testing.T) {
	suite.Run(t, new(CoordinatorTestSuite))
}

func TestPaymentStatus(t *testing.T) {
	tests := []struct {
		Description string
		Status      string
		Expected    string
	}{
		{Description: "Success", Status: "success", Expected: model.PaymentSuccess},
		{Description: "Upper case", Status: " APPROVED ", Expected: model.PaymentSuccess},
		{Description: "Paid", Status: "paid", Expected: model.PaymentSuccess},
		{Description: "Declined", Status: "declined", Expected: model.PaymentFailed},
		{Description: "Empty", Status: "", Expected: model.PaymentFailed},
	}
	for _, tc := range tests {
		t.Run(tc.Description, func(t *testing.T) {
			assert.Equal(t, tc.Expected, PaymentStatus(tc.Status))
		})
	}
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coordinator

import (
	"context"

	"emperror.dev/errors"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/stagecache"
	"go.uber.org/zap"
)

// BookingCoordinator books a priced offer.
type BookingCoordinator struct {
	base
	prices   *stagecache.PriceCache
	bookings *stagecache.BookingCache
}

func NewBookingCoordinator(registry *provider.Registry, prices *stagecache.PriceCache, bookings *stagecache.BookingCache, opts ...Option) *BookingCoordinator {
	return &BookingCoordinator{
		base:     newBase(registry, opts),
		prices:   prices,
		bookings: bookings,
	}
}

// Book validates the passengers and contact before anything else, then books
// with the provider that issued the price.
func (c *BookingCoordinator) Book(ctx context.Context, req model.BookRequest) (model.BookingRecord, error) {
	if err := c.validator.Struct("invalid booking request", req); err != nil {
		return model.BookingRecord{}, err
	}

	priced, err := c.prices.Get(ctx, req.PriceID)
	if err != nil {
		return model.BookingRecord{}, notFound(err, model.PriceKind, req.PriceID)
	}

	services, err := c.registry.Lookup(priced.Provider)
	if err != nil {
		return model.BookingRecord{}, errors.WithDetails(err, "priceID", req.PriceID)
	}

	confirmation, err := services.Book(ctx, provider.BookRequest{
		OfferRef:   priced.OfferRef,
		PriceID:    priced.PriceID,
		Passengers: req.Passengers,
		Contact:    req.Contact,
	})
	if err != nil {
		return model.BookingRecord{}, err
	}
	if confirmation.BookingID == "" {
		return model.BookingRecord{}, incomplete(priced.Provider, ErrMissingBookingID)
	}

	rec := model.BookingRecord{
		BookingID:     confirmation.BookingID,
		Provider:      priced.Provider,
		OfferRef:      priced.OfferRef,
		PNR:           confirmation.PNR,
		Status:        model.ParseBookingStatus(confirmation.Status),
		PriceSnapshot: priced,
	}
	if err = c.bookings.Put(ctx, rec); err != nil {
		return model.BookingRecord{}, err
	}

	c.logger.Info("offer booked",
		zap.String("priceID", req.PriceID),
		zap.String("provider", rec.Provider),
		zap.String("bookingID", rec.BookingID),
		zap.String("status", string(rec.Status)),
	)
	return rec, nil
}

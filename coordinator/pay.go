// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coordinator

import (
	"context"
	"strings"

	"emperror.dev/errors"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/stagecache"
	"go.uber.org/zap"
)

// PaymentCoordinator settles a booking with the provider that holds it.
type PaymentCoordinator struct {
	base
	bookings *stagecache.BookingCache
}

func NewPaymentCoordinator(registry *provider.Registry, bookings *stagecache.BookingCache, opts ...Option) *PaymentCoordinator {
	return &PaymentCoordinator{
		base:     newBase(registry, opts),
		bookings: bookings,
	}
}

// Pay resolves the provider from the booking record. The request pnr, when
// given, overrides the recorded one.
func (c *PaymentCoordinator) Pay(ctx context.Context, req model.PayRequest) (model.PaymentResult, error) {
	if err := c.validator.Struct("invalid payment request", req); err != nil {
		return model.PaymentResult{}, err
	}

	booking, err := c.bookings.Get(ctx, req.BookingID)
	if err != nil {
		return model.PaymentResult{}, notFound(err, model.BookingKind, req.BookingID)
	}

	services, err := c.registry.Lookup(booking.Provider)
	if err != nil {
		return model.PaymentResult{}, errors.WithDetails(err, "bookingID", req.BookingID)
	}

	pnr := req.PNR
	if pnr == "" {
		pnr = booking.PNR
	}

	confirmation, err := services.Pay(ctx, provider.PayRequest{
		BookingID:           booking.BookingID,
		PNR:                 pnr,
		PaymentMethod:       req.PaymentMethod,
		PaymentDescriptions: req.PaymentDescriptions,
	})
	if err != nil {
		return model.PaymentResult{}, err
	}

	result := model.PaymentResult{
		BookingID:     booking.BookingID,
		PNR:           pnr,
		Status:        PaymentStatus(confirmation.Status),
		TransactionID: confirmation.TransactionID,
		Message:       confirmation.Message,
	}

	c.logger.Info("booking paid",
		zap.String("bookingID", result.BookingID),
		zap.String("provider", booking.Provider),
		zap.String("status", result.Status),
	)
	return result, nil
}

// PaymentStatus maps a provider payment status onto success or failed.
func PaymentStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success", "succeeded", "paid", "approved", "completed", "ok", "ticketed":
		return model.PaymentSuccess
	default:
		return model.PaymentFailed
	}
}

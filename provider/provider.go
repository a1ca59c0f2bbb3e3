// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package provider defines the capability set every GDS provider offers and the
registry the stages resolve providers from. Providers speak the canonical
model; the mapping from a provider's native payloads happens behind Services.
*/
package provider

import (
	"context"

	"github.com/xmidt-org/skyway/model"
)

// PriceRequest asks a provider to confirm the price of one of its offers.
type PriceRequest struct {
	OfferRef string `json:"offer_ref"`
	Cabin    string `json:"cabin,omitempty"`
}

// PriceQuote is the provider's confirmed price. PriceID is issued by the
// provider and identifies the quote in the booking stage.
type PriceQuote struct {
	PriceID string       `json:"price_id"`
	Price   model.Price  `json:"price"`
	Offer   *model.Offer `json:"offer,omitempty"`
}

type BookRequest struct {
	OfferRef   string            `json:"offer_ref"`
	PriceID    string            `json:"price_id"`
	Passengers []model.Passenger `json:"passengers"`
	Contact    model.Contact     `json:"contact"`
}

// BookingConfirmation carries the provider's raw status; callers normalize it.
type BookingConfirmation struct {
	BookingID string `json:"booking_id"`
	PNR       string `json:"pnr"`
	Status    string `json:"status"`
}

type PayRequest struct {
	BookingID           string   `json:"booking_id"`
	PNR                 string   `json:"pnr,omitempty"`
	PaymentMethod       string   `json:"payment_method"`
	PaymentDescriptions []string `json:"payment_descriptions,omitempty"`
}

type PaymentConfirmation struct {
	// Status is the provider's raw payment status.
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Services is what a provider must offer to take part in every stage.
type Services interface {
	Search(ctx context.Context, req model.SearchRequest) ([]model.Offer, error)
	Price(ctx context.Context, req PriceRequest) (PriceQuote, error)
	Book(ctx context.Context, req BookRequest) (BookingConfirmation, error)
	Pay(ctx context.Context, req PayRequest) (PaymentConfirmation, error)
}

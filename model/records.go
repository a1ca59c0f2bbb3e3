// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

import "strings"

// OfferIdentifier is written once per search result so the price stage can
// re-address the offer without replaying the search.
type OfferIdentifier struct {
	SearchID string `json:"search_id"`
	OfferID  string `json:"offer_id"`
	Provider string `json:"provider"`
	OfferRef string `json:"offer_ref"`
	Cabin    string `json:"cabin,omitempty"`
}

// PriceRecord is written after a successful price call, keyed by the
// provider-issued price id.
type PriceRecord struct {
	PriceID         string `json:"price_id"`
	Provider        string `json:"provider"`
	OfferRef        string `json:"offer_ref"`
	Cabin           string `json:"cabin,omitempty"`
	NormalizedPrice Price  `json:"normalized_price"`
	OriginalPrice   Price  `json:"original_price"`
	Offer           *Offer `json:"offer,omitempty"`
}

// TotalPrice is the marked up total of the priced offer.
func (r PriceRecord) TotalPrice() float64 {
	return r.NormalizedPrice.Amount
}

// BookingStatus is the normalized state of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusTicketed  BookingStatus = "TICKETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusUnknown   BookingStatus = "UNKNOWN"
)

// ParseBookingStatus maps a provider status onto a BookingStatus.
func ParseBookingStatus(s string) BookingStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CONFIRMED", "BOOKED", "HK":
		return BookingStatusConfirmed
	case "PENDING", "ON_HOLD", "HOLD":
		return BookingStatusPending
	case "TICKETED", "ISSUED":
		return BookingStatusTicketed
	case "CANCELLED", "CANCELED", "XX":
		return BookingStatusCancelled
	default:
		return BookingStatusUnknown
	}
}

// BookingRecord is written after a successful booking. PriceSnapshot is
// copied from the PriceRecord so later stages never re-read the price cache.
type BookingRecord struct {
	BookingID     string        `json:"booking_id"`
	Provider      string        `json:"provider"`
	OfferRef      string        `json:"offer_ref"`
	PNR           string        `json:"pnr,omitempty"`
	Status        BookingStatus `json:"status"`
	PriceSnapshot PriceRecord   `json:"price_snapshot"`
}

// Passenger types.
const (
	PassengerAdult  = "ADT"
	PassengerChild  = "CHD"
	PassengerInfant = "INF"
)

// Passenger is a traveler on a booking.
type Passenger struct {
	Type           string `json:"type" validate:"required,oneof=ADT CHD INF"`
	Title          string `json:"title,omitempty" validate:"omitempty,oneof=MR MRS MS MISS MSTR"`
	FirstName      string `json:"first_name" validate:"required,max=64"`
	LastName       string `json:"last_name" validate:"required,max=64"`
	DateOfBirth    string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender         string `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	PassportNumber string `json:"passport_number,omitempty" validate:"omitempty,alphanum,max=20"`
	Nationality    string `json:"nationality,omitempty" validate:"omitempty,len=2,alpha"`
}

// Contact is how the provider reaches the booker.
type Contact struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=6,max=20"`
}

// BookRequest is the caller input of the booking stage.
type BookRequest struct {
	PriceID    string      `json:"price_id" validate:"required"`
	Passengers []Passenger `json:"passengers" validate:"required,min=1,dive"`
	Contact    Contact     `json:"contact"`
}

// Payment methods.
const (
	PaymentMethodCard         = "card"
	PaymentMethodCash         = "cash"
	PaymentMethodAgencyCredit = "agency_credit"
	PaymentMethodBankTransfer = "bank_transfer"
)

// PayRequest is the caller input of the payment stage.
type PayRequest struct {
	BookingID           string   `json:"booking_id" validate:"required"`
	PaymentMethod       string   `json:"payment_method" validate:"required,oneof=card cash agency_credit bank_transfer"`
	PaymentDescriptions []string `json:"payment_descriptions,omitempty"`
	PNR                 string   `json:"pnr,omitempty"`
}

// Payment outcomes.
const (
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// PaymentResult is the outcome of the payment stage.
type PaymentResult struct {
	BookingID     string `json:"booking_id"`
	PNR           string `json:"pnr,omitempty"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

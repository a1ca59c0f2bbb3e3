// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

import "time"

// Cabin classes recognized by markup rules and search requests.
const (
	CabinEconomy        = "economy"
	CabinPremiumEconomy = "premium_economy"
	CabinBusiness       = "business"
	CabinFirst          = "first"
)

// PassengerCount is the traveler mix of a search.
type PassengerCount struct {
	Adults   int `json:"adults" validate:"min=1,max=9"`
	Children int `json:"children,omitempty" validate:"min=0,max=8"`
	Infants  int `json:"infants,omitempty" validate:"min=0,ltefield=Adults"`
}

// SearchRequest is the canonical search shape fanned out to every provider.
type SearchRequest struct {
	Origin        string         `json:"origin" validate:"required,len=3,alpha"`
	Destination   string         `json:"destination" validate:"required,len=3,alpha,nefield=Origin"`
	DepartureDate string         `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string         `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Cabin         string         `json:"cabin,omitempty" validate:"omitempty,oneof=economy premium_economy business first"`
	Passengers    PassengerCount `json:"passengers"`
	Currency      string         `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`

	// MinPrice and MaxPrice bound the effective offer price. Nil means unbounded.
	MinPrice *float64 `json:"min_price,omitempty" validate:"omitempty,min=0"`
	MaxPrice *float64 `json:"max_price,omitempty" validate:"omitempty,min=0"`

	// MaxStops limits the number of stops on every leg when set.
	MaxStops *int `json:"max_stops,omitempty" validate:"omitempty,min=0"`

	// Airlines restricts results to offers operated by the listed carriers.
	Airlines []string `json:"airlines,omitempty" validate:"omitempty,dive,len=2"`
}

// Segment is one flown leg of an offer.
type Segment struct {
	Carrier      string    `json:"carrier"`
	FlightNumber string    `json:"flight_number"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	DepartAt     time.Time `json:"depart_at"`
	ArriveAt     time.Time `json:"arrive_at"`
	Stops        int       `json:"stops,omitempty"`
}

// Price is a normalized price. Amount is the total: base + taxes + fees.
type Price struct {
	Currency string  `json:"currency"`
	Base     float64 `json:"base"`
	Taxes    float64 `json:"taxes"`
	Fees     float64 `json:"fees"`
	Amount   float64 `json:"amount"`
}

// Offer is a priced flight product returned by a provider during search.
type Offer struct {
	// ID is the offer_id assigned during aggregation, unique within a search.
	ID string `json:"id"`

	// Provider is the registry name of the provider that returned the offer.
	Provider string `json:"provider"`

	// OfferRef is the provider-native identifier needed to re-address the offer.
	OfferRef string `json:"offer_ref"`

	Cabin    string    `json:"cabin,omitempty"`
	Segments []Segment `json:"segments,omitempty"`

	// Price is the structured price. Some providers only return PriceScalar.
	Price       *Price      `json:"price,omitempty"`
	PriceScalar interface{} `json:"price_scalar,omitempty"`

	// OriginalPrice is the pre-markup price, kept for audit.
	OriginalPrice *Price `json:"original_price,omitempty"`

	// TotalPrice is the effective price after markup. Results are sorted by it.
	TotalPrice float64 `json:"total_price"`
}

// Stops returns the highest stop count over all segments.
func (o Offer) Stops() int {
	stops := 0
	for _, s := range o.Segments {
		if s.Stops > stops {
			stops = s.Stops
		}
	}
	return stops
}

// ProviderSummary reports how a single provider contributed to a search.
type ProviderSummary struct {
	Name   string `json:"name"`
	Offers int    `json:"offers"`
	Error  string `json:"error,omitempty"`
}

// SearchMeta carries the correlation id of a search.
type SearchMeta struct {
	SearchID  string            `json:"search_id"`
	Providers []ProviderSummary `json:"providers,omitempty"`
}

// SearchResponse is the aggregated result of a search.
type SearchResponse struct {
	Meta SearchMeta `json:"meta"`
	Data []Offer    `json:"data"`
}

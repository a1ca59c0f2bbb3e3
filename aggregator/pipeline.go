// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package aggregator

import (
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/xmidt-org/skyway/model"
)

// Step is one named stage of the offer pipeline.
type Step interface {
	Name() string
	Apply(offers []model.Offer) []model.Offer
}

// Pipeline runs its steps in order.
type Pipeline []Step

func (p Pipeline) Apply(offers []model.Offer) []model.Offer {
	for _, s := range p {
		offers = s.Apply(offers)
	}
	return offers
}

// Names lists the step names in order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name()
	}
	return names
}

// NewPipeline builds the filters the request asks for followed by the sort.
// The price range always runs so offers without a usable price never leave.
func NewPipeline(req model.SearchRequest) Pipeline {
	p := Pipeline{PriceRange(req.MinPrice, req.MaxPrice)}
	if req.MaxStops != nil {
		p = append(p, MaxStops(*req.MaxStops))
	}
	if len(req.Airlines) > 0 {
		p = append(p, Airlines(req.Airlines))
	}
	return append(p, SortByTotalPrice())
}

// EffectivePrice is price.amount when a structured price is present, else
// the lenient scalar price.
func EffectivePrice(o model.Offer) (float64, bool) {
	if o.Price != nil {
		return o.Price.Amount, true
	}
	if o.PriceScalar == nil {
		return 0, false
	}
	v, err := cast.ToFloat64E(o.PriceScalar)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

type filter struct {
	name string
	keep func(model.Offer) bool
}

func (f filter) Name() string {
	return f.name
}

func (f filter) Apply(offers []model.Offer) []model.Offer {
	out := make([]model.Offer, 0, len(offers))
	for _, o := range offers {
		if f.keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// PriceRange keeps offers whose effective price lies in [min, max]. Nil bounds
// default to 0 and +Inf.
func PriceRange(min, max *float64) Step {
	lo, hi := 0.0, math.Inf(1)
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	return filter{
		name: "price-range",
		keep: func(o model.Offer) bool {
			p, ok := EffectivePrice(o)
			return ok && p >= lo && p <= hi
		},
	}
}

// MaxStops keeps offers whose segments have at most n stops.
func MaxStops(n int) Step {
	return filter{
		name: "max-stops",
		keep: func(o model.Offer) bool {
			return o.Stops() <= n
		},
	}
}

// Airlines keeps offers flown entirely by the given carriers.
func Airlines(codes []string) Step {
	allowed := make(map[string]bool, len(codes))
	for _, c := range codes {
		allowed[strings.ToUpper(c)] = true
	}
	return filter{
		name: "airlines",
		keep: func(o model.Offer) bool {
			if len(o.Segments) == 0 {
				return false
			}
			for _, s := range o.Segments {
				if !allowed[strings.ToUpper(s.Carrier)] {
					return false
				}
			}
			return true
		},
	}
}

type totalPriceSort struct{}

// SortByTotalPrice orders offers by ascending total_price, keeping the
// incoming order of equal prices.
func SortByTotalPrice() Step {
	return totalPriceSort{}
}

func (totalPriceSort) Name() string {
	return "total-price"
}

func (totalPriceSort) Apply(offers []model.Offer) []model.Offer {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].TotalPrice < offers[j].TotalPrice
	})
	return offers
}

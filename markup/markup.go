// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package markup applies business markup to provider prices. The engine is pure:
the same price, provider and cabin always produce the same result, and taxes
and fees are never changed.
*/
package markup

import (
	"math"
	"strings"

	"github.com/xmidt-org/skyway/model"
)

// Rule is the markup applied to a base fare.
type Rule struct {
	MarkupPercentage   float64 `json:"markup_percentage"`
	FixedFee           float64 `json:"fixed_fee"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// Result pairs the marked up price with the price it was computed from.
type Result struct {
	Price    model.Price
	Original model.Price
}

type Engine struct {
	providers map[string]Rule
	cabins    map[string]Rule
}

// NewEngine creates an engine from provider rules and cabin defaults. Names
// are matched case-insensitively.
func NewEngine(providers, cabins map[string]Rule) *Engine {
	return &Engine{
		providers: lowerKeys(providers),
		cabins:    lowerKeys(cabins),
	}
}

func lowerKeys(rules map[string]Rule) map[string]Rule {
	out := make(map[string]Rule, len(rules))
	for k, r := range rules {
		out[strings.ToLower(k)] = r
	}
	return out
}

// Rule returns the provider rule, else the cabin default, else no markup.
func (e *Engine) Rule(provider, cabin string) Rule {
	if e == nil {
		return Rule{}
	}
	if r, ok := e.providers[strings.ToLower(provider)]; ok {
		return r
	}
	if r, ok := e.cabins[strings.ToLower(cabin)]; ok {
		return r
	}
	return Rule{}
}

// Apply marks up the base fare and recomputes the total:
//
//	base' = round(base*(1+pct/100) + fixed_fee - discount, 2)
//	total' = round(base' + taxes + fees, 2)
//
// where discount is discount_percentage of the marked up base.
func (e *Engine) Apply(price model.Price, provider, cabin string) Result {
	r := e.Rule(provider, cabin)
	marked := price.Base * (1 + r.MarkupPercentage/100)
	discount := marked * r.DiscountPercentage / 100

	out := price
	out.Base = Round2(marked + r.FixedFee - discount)
	out.Amount = Round2(out.Base + price.Taxes + price.Fees)
	return Result{Price: out, Original: price}
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/xmidt-org/skyway/model"
)

// Normalize returns a complete model.Price from what a provider quoted:
// a structured price missing its base or its amount, or a bare scalar.
// The result is false when no positive, finite base and amount can be
// derived. An empty currency falls back to the given one.
func Normalize(price *model.Price, scalar interface{}, currency string) (model.Price, bool) {
	var p model.Price
	switch {
	case price != nil && (price.Amount > 0 || price.Base > 0):
		p = *price
		switch {
		case p.Amount <= 0:
			p.Amount = p.Base + p.Taxes + p.Fees
		case p.Base <= 0:
			p.Base = p.Amount - p.Taxes - p.Fees
		}
	case scalar != nil:
		v, err := cast.ToFloat64E(scalar)
		if err != nil {
			return p, false
		}
		p = model.Price{Base: v, Amount: v}
		if price != nil {
			p.Currency = price.Currency
		}
	default:
		return p, false
	}

	if !positive(p.Base) || !positive(p.Amount) || p.Taxes < 0 || p.Fees < 0 {
		return p, false
	}
	if p.Currency == "" {
		p.Currency = currency
	}
	p.Currency = strings.ToUpper(p.Currency)
	return p, true
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

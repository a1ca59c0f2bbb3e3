// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Key is the configuration section of the markup rules.
const Key = "markup"

var errInvalidRule = errors.New("invalid markup rule")

// ParseRules reads rules keyed by name. Numeric fields may be numbers or
// numeric strings.
func ParseRules(raw map[string]interface{}) (map[string]Rule, error) {
	rules := make(map[string]Rule, len(raw))
	for name, v := range raw {
		fields, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", errInvalidRule, name, err)
		}
		var r Rule
		if r.MarkupPercentage, err = cast.ToFloat64E(fields["markup_percentage"]); err != nil {
			return nil, fmt.Errorf("%w %s: markup_percentage: %v", errInvalidRule, name, err)
		}
		if r.FixedFee, err = cast.ToFloat64E(fields["fixed_fee"]); err != nil {
			return nil, fmt.Errorf("%w %s: fixed_fee: %v", errInvalidRule, name, err)
		}
		if r.DiscountPercentage, err = cast.ToFloat64E(fields["discount_percentage"]); err != nil {
			return nil, fmt.Errorf("%w %s: discount_percentage: %v", errInvalidRule, name, err)
		}
		if r.MarkupPercentage < 0 || r.FixedFee < 0 || r.DiscountPercentage < 0 || r.DiscountPercentage > 100 {
			return nil, fmt.Errorf("%w %s: values out of range", errInvalidRule, name)
		}
		rules[name] = r
	}
	return rules, nil
}

// NewEngineFromViper loads markup.providers and markup.cabins.
func NewEngineFromViper(v *viper.Viper) (*Engine, error) {
	providers, err := ParseRules(v.GetStringMap(Key + ".providers"))
	if err != nil {
		return nil, err
	}
	cabins, err := ParseRules(v.GetStringMap(Key + ".cabins"))
	if err != nil {
		return nil, err
	}
	return NewEngine(providers, cabins), nil
}

func Provide() fx.Option {
	return fx.Provide(NewEngineFromViper)
}

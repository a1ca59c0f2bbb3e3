// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coordinator

import (
	"errors"

	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/skyway/gateway"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/stagecache"
	"go.uber.org/zap"
)

var (
	ErrMissingPriceID   = errors.New("provider returned no price id")
	ErrMissingBookingID = errors.New("provider returned no booking id")
	ErrUnusablePrice    = errors.New("provider returned no usable price")
)

type Option func(*base)

func WithLogger(l *zap.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.logger = l
		}
	}
}

// base holds what every stage needs.
type base struct {
	registry  *provider.Registry
	validator *model.Validator
	logger    *zap.Logger
}

func newBase(registry *provider.Registry, opts []Option) base {
	b := base{
		registry:  registry,
		validator: model.NewValidator(),
		logger:    sallust.Default(),
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// notFound turns a stage cache miss into a NotFoundError and passes any
// other error through.
func notFound(err error, kind, id string) error {
	if stagecache.IsMiss(err) {
		return model.NotFoundError{Kind: kind, ID: id}
	}
	return err
}

// required reports empty correlation ids before any lookup.
func required(message string, fields map[string]string) error {
	var verr model.ValidationError
	for _, name := range []string{"search_id", "offer_id", "price_id", "booking_id"} {
		if v, ok := fields[name]; ok && v == "" {
			verr.Violations = append(verr.Violations, model.FieldViolation{Field: name, Reason: "is required"})
		}
	}
	if len(verr.Violations) == 0 {
		return nil
	}
	verr.Message = message
	return verr
}

func incomplete(providerName string, err error) error {
	return &gateway.UpstreamError{Provider: providerName, Err: err}
}

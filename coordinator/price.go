// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coordinator

import (
	"context"

	"emperror.dev/errors"
	"github.com/xmidt-org/skyway/markup"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/stagecache"
	"go.uber.org/zap"
)

// PriceCoordinator confirms the price of an offer returned by a search.
type PriceCoordinator struct {
	base
	markup *markup.Engine
	offers *stagecache.OfferIdentifierCache
	prices *stagecache.PriceCache
}

func NewPriceCoordinator(registry *provider.Registry, engine *markup.Engine, offers *stagecache.OfferIdentifierCache, prices *stagecache.PriceCache, opts ...Option) *PriceCoordinator {
	return &PriceCoordinator{
		base:   newBase(registry, opts),
		markup: engine,
		offers: offers,
		prices: prices,
	}
}

// Price calls the provider that returned the offer every time; quotes are
// never served from a cache. The resulting record is keyed by the provider's
// price id.
func (c *PriceCoordinator) Price(ctx context.Context, searchID, offerID string) (model.PriceRecord, error) {
	err := required("invalid price request", map[string]string{"search_id": searchID, "offer_id": offerID})
	if err != nil {
		return model.PriceRecord{}, err
	}

	id, err := c.offers.Get(ctx, searchID, offerID)
	if err != nil {
		return model.PriceRecord{}, notFound(err, model.OfferKind, offerID)
	}

	services, err := c.registry.Lookup(id.Provider)
	if err != nil {
		return model.PriceRecord{}, errors.WithDetails(err, "searchID", searchID, "offerID", offerID)
	}

	quote, err := services.Price(ctx, provider.PriceRequest{OfferRef: id.OfferRef, Cabin: id.Cabin})
	if err != nil {
		return model.PriceRecord{}, err
	}
	if quote.PriceID == "" {
		return model.PriceRecord{}, incomplete(id.Provider, ErrMissingPriceID)
	}

	price, ok := markup.Normalize(&quote.Price, nil, "")
	if !ok {
		return model.PriceRecord{}, incomplete(id.Provider, ErrUnusablePrice)
	}
	result := c.markup.Apply(price, id.Provider, id.Cabin)

	rec := model.PriceRecord{
		PriceID:         quote.PriceID,
		Provider:        id.Provider,
		OfferRef:        id.OfferRef,
		Cabin:           id.Cabin,
		NormalizedPrice: result.Price,
		OriginalPrice:   result.Original,
	}
	if quote.Offer != nil {
		offer := *quote.Offer
		offer.ID = offerID
		offer.Provider = id.Provider
		offer.OfferRef = id.OfferRef
		offer.Price = &rec.NormalizedPrice
		offer.OriginalPrice = &rec.OriginalPrice
		offer.TotalPrice = rec.TotalPrice()
		rec.Offer = &offer
	}

	if err = c.prices.Put(ctx, rec); err != nil {
		return model.PriceRecord{}, err
	}

	c.logger.Info("offer priced",
		zap.String("searchID", searchID),
		zap.String("offerID", offerID),
		zap.String("provider", id.Provider),
		zap.String("priceID", rec.PriceID),
	)
	return rec, nil
}

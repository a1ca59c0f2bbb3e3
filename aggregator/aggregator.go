// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package aggregator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"emperror.dev/emperror"
	"emperror.dev/errors"
	"github.com/google/uuid"
	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/skyway/markup"
	"github.com/xmidt-org/skyway/model"
	"github.com/xmidt-org/skyway/provider"
	"github.com/xmidt-org/skyway/stagecache"
	"go.uber.org/zap"
)

// Config bounds a whole search. A zero Timeout leaves the caller's deadline
// and the per-provider gateway timeouts in charge.
type Config struct {
	Timeout time.Duration
}

type Option func(*Aggregator)

func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithMeasures(m Measures) Option {
	return func(a *Aggregator) {
		a.measures = m
	}
}

// WithErrorHandler receives every isolated provider failure.
func WithErrorHandler(h emperror.ErrorHandler) Option {
	return func(a *Aggregator) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithResultCache replays identical searches from c while it is enabled.
func WithResultCache(c *stagecache.SearchResultCache) Option {
	return func(a *Aggregator) {
		a.results = c
	}
}

func WithSearchIDs(f func() string) Option {
	return func(a *Aggregator) {
		if f != nil {
			a.newSearchID = f
		}
	}
}

func WithConfig(c Config) Option {
	return func(a *Aggregator) {
		a.config = c
	}
}

// Aggregator fans a search out to every registered provider and merges the
// results into one normalized, marked up and ordered list.
type Aggregator struct {
	registry     *provider.Registry
	markup       *markup.Engine
	offers       *stagecache.OfferIdentifierCache
	results      *stagecache.SearchResultCache
	validator    *model.Validator
	errorHandler emperror.ErrorHandler
	logger       *zap.Logger
	measures     Measures
	newSearchID  func() string
	config       Config
}

func New(registry *provider.Registry, engine *markup.Engine, offers *stagecache.OfferIdentifierCache, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry:    registry,
		markup:      engine,
		offers:      offers,
		validator:   model.NewValidator(),
		logger:      sallust.Default(),
		measures:    NewMeasures(),
		newSearchID: uuid.NewString,
	}
	for _, o := range opts {
		o(a)
	}
	if a.errorHandler == nil {
		logger := a.logger
		a.errorHandler = emperror.ErrorHandlerFunc(func(err error) {
			logger.Error("provider search failed", zap.Error(err), zap.Any("details", errors.GetDetails(err)))
		})
	}
	return a
}

// providerResult is what one provider contributed to a search.
type providerResult struct {
	name   string
	offers []model.Offer
	err    error
}

// Search validates req, queries every provider concurrently and returns the
// merged offers. Provider failures never fail the search; they are reported
// through the error handler and in meta.providers.
func (a *Aggregator) Search(ctx context.Context, req model.SearchRequest) (model.SearchResponse, error) {
	if err := a.validate(req); err != nil {
		return model.SearchResponse{}, err
	}
	normalizeRequest(&req)

	if a.results.Enabled() {
		cached, err := a.results.Get(ctx, req)
		if err == nil {
			a.logger.Debug("search served from cache", zap.String("searchID", cached.Meta.SearchID))
			return cached, nil
		}
		if !stagecache.IsMiss(err) {
			a.logger.Warn("search cache read failed", zap.Error(err))
		}
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	searchID := a.newSearchID()
	results := a.fanOut(ctx, req)

	resp := model.SearchResponse{
		Meta: model.SearchMeta{
			SearchID:  searchID,
			Providers: make([]model.ProviderSummary, 0, len(results)),
		},
		Data: []model.Offer{},
	}

	namespace := uuid.NewSHA1(uuid.NameSpaceOID, []byte(searchID))
	seen := make(map[string]bool)
	var merged []model.Offer
	for _, r := range results {
		summary := model.ProviderSummary{Name: r.name}
		if r.err != nil {
			summary.Error = r.err.Error()
			resp.Meta.Providers = append(resp.Meta.Providers, summary)
			continue
		}

		for _, o := range r.offers {
			offer, ok := a.normalize(o, r.name, req)
			if !ok {
				continue
			}
			offer.ID = OfferID(namespace, r.name, offer.OfferRef)
			if seen[offer.ID] {
				continue
			}
			seen[offer.ID] = true
			merged = append(merged, offer)
			summary.Offers++
		}
		resp.Meta.Providers = append(resp.Meta.Providers, summary)
	}

	if merged != nil {
		resp.Data = NewPipeline(req).Apply(merged)
	}

	for _, o := range resp.Data {
		err := a.offers.Put(ctx, model.OfferIdentifier{
			SearchID: searchID,
			OfferID:  o.ID,
			Provider: o.Provider,
			OfferRef: o.OfferRef,
			Cabin:    o.Cabin,
		})
		if err != nil {
			return model.SearchResponse{}, errors.WrapIfWithDetails(err, "failed to record offer identifiers", "searchID", searchID)
		}
	}

	if a.results.Enabled() {
		if err := a.results.Put(ctx, req, resp); err != nil {
			a.logger.Warn("search cache write failed", zap.Error(err))
		}
	}

	a.logger.Info("search complete",
		zap.String("searchID", searchID),
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.Int("offers", len(resp.Data)),
	)
	return resp, nil
}

// Identifiers lists the offer identifiers recorded for a search.
func (a *Aggregator) Identifiers(ctx context.Context, searchID string) ([]model.OfferIdentifier, error) {
	ids, err := a.offers.List(ctx, searchID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, model.NotFoundError{Kind: model.SearchKind, ID: searchID}
	}
	return ids, nil
}

func (a *Aggregator) validate(req model.SearchRequest) error {
	if err := a.validator.Struct("invalid search request", req); err != nil {
		return err
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return model.ValidationError{
			Message: "invalid search request",
			Violations: []model.FieldViolation{
				{Field: "min_price", Reason: "must not exceed max_price"},
			},
		}
	}
	return nil
}

func normalizeRequest(req *model.SearchRequest) {
	req.Origin = strings.ToUpper(req.Origin)
	req.Destination = strings.ToUpper(req.Destination)
	req.Currency = strings.ToUpper(req.Currency)
	if req.Cabin == "" {
		req.Cabin = model.CabinEconomy
	}
}

// fanOut queries every provider at once. Results keep the registry order so
// identical upstream responses always merge the same way.
func (a *Aggregator) fanOut(ctx context.Context, req model.SearchRequest) []providerResult {
	names := a.registry.Names()
	results := make([]providerResult, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = a.searchProvider(ctx, name, req)
		}(i, name)
	}
	wg.Wait()

	for _, r := range results {
		outcome := OutcomeSuccess
		if r.err != nil {
			outcome = OutcomeFailure
			a.errorHandler.Handle(r.err)
		}
		a.measures.ProviderResults.With(map[string]string{
			ProviderLabel: r.name,
			OutcomeLabel:  outcome,
		}).Inc()
	}
	return results
}

func (a *Aggregator) searchProvider(ctx context.Context, name string, req model.SearchRequest) (r providerResult) {
	r.name = name
	defer func() {
		if p := recover(); p != nil {
			r.offers = nil
			r.err = errors.WithDetails(errors.WithMessage(emperror.Recover(p), "provider panicked"), "provider", name)
		}
	}()

	services, err := a.registry.Lookup(name)
	if err != nil {
		r.err = errors.WithDetails(err, "provider", name)
		return
	}

	offers, err := services.Search(ctx, req)
	if err != nil {
		r.err = errors.WithDetails(err, "provider", name)
		return
	}
	r.offers = offers
	return
}

// normalize stamps the provider, promotes a scalar price and applies markup.
// Offers without a reference or a usable price are dropped.
func (a *Aggregator) normalize(o model.Offer, providerName string, req model.SearchRequest) (model.Offer, bool) {
	o.OfferRef = strings.TrimSpace(o.OfferRef)
	if o.OfferRef == "" {
		return o, false
	}
	o.Provider = providerName
	if o.Cabin == "" {
		o.Cabin = req.Cabin
	}

	price, ok := markup.Normalize(o.Price, o.PriceScalar, req.Currency)
	if !ok {
		return o, false
	}

	result := a.markup.Apply(price, providerName, o.Cabin)
	o.Price = &result.Price
	o.OriginalPrice = &result.Original
	o.TotalPrice = result.Price.Amount
	return o, true
}

// OfferID derives the offer_id of an offer within a search. The same provider
// and offer_ref always produce the same id in the same search.
func OfferID(namespace uuid.UUID, providerName, offerRef string) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s\x00%s", providerName, offerRef))).String()
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/transport"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// APIBase prefixes every route.
const APIBase = "/api/v1"

type Handler http.Handler

type Handlers struct {
	Search      Handler
	Identifiers Handler
	Price       Handler
	Book        Handler
	Pay         Handler
}

func NewHandlers(e Endpoints) Handlers {
	return Handlers{
		Search:      newHandler(e.Search, decodeSearchRequest),
		Identifiers: newHandler(e.Identifiers, decodeIdentifiersRequest),
		Price:       newHandler(e.Price, decodePriceRequest),
		Book:        newHandler(e.Book, decodeBookRequest),
		Pay:         newHandler(e.Pay, decodePayRequest),
	}
}

func newHandler(e endpoint.Endpoint, dec kithttp.DecodeRequestFunc) Handler {
	return kithttp.NewServer(
		e,
		dec,
		kithttp.EncodeJSONResponse,
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerErrorHandler(transport.ErrorHandlerFunc(logError)),
	)
}

func logError(ctx context.Context, err error) {
	logger := sallust.Get(ctx)
	var coder kithttp.StatusCoder
	if errors.As(err, &coder) && coder.StatusCode() < http.StatusInternalServerError {
		logger.Debug("request rejected", zap.Error(err))
		return
	}
	logger.Error("request failed", zap.Error(err))
}

// NewRouter returns a router serving every stage under APIBase.
func NewRouter(h Handlers, middleware ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	RegisterRoutes(r, h, middleware...)
	return r
}

// RegisterRoutes adds the stage routes to r. Routes carry the full path so a
// method mismatch is answered with 405. The middleware run inside the router
// so they can see the matched route.
func RegisterRoutes(r *mux.Router, h Handlers, middleware ...mux.MiddlewareFunc) {
	r.Use(middleware...)
	r.Handle(APIBase+"/search", h.Search).Methods(http.MethodPost)
	r.Handle(APIBase+"/search/{searchID}", h.Identifiers).Methods(http.MethodGet)
	r.Handle(APIBase+"/price", h.Price).Methods(http.MethodPost)
	r.Handle(APIBase+"/book", h.Book).Methods(http.MethodPost)
	r.Handle(APIBase+"/pay", h.Pay).Methods(http.MethodPost)
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/xmidt-org/skyway/model"
)

// request URL path keys
const (
	searchIDVarKey = "searchID"
)

// Response headers
const (
	SkywayErrorHeaderKey = "X-Skyway-Error"
	RequestIDHeaderKey   = "X-Request-ID"
)

// MaxRequestBodySize bounds every decoded request body.
const MaxRequestBodySize = 1 << 20

// ErrCasting indicates there was a middleware wiring mistake with the go-kit style
// encoders.
var ErrCasting = errors.New("casting error due to middleware wiring mistake")

type identifiersRequest struct {
	searchID string
}

type priceRequest struct {
	SearchID string `json:"search_id"`
	OfferID  string `json:"offer_id"`
}

type dataResponse struct {
	Data interface{} `json:"data"`
}

type errorResponse struct {
	Error      string                 `json:"error"`
	Violations []model.FieldViolation `json:"violations,omitempty"`
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxRequestBodySize))
	if err := dec.Decode(v); err != nil {
		return model.ValidationError{Message: "malformed request body: " + err.Error()}
	}
	return nil
}

func decodeSearchRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req model.SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func decodeIdentifiersRequest(_ context.Context, r *http.Request) (interface{}, error) {
	searchID, ok := mux.Vars(r)[searchIDVarKey]
	if !ok || searchID == "" {
		return nil, model.ValidationError{Message: "{searchID} URL path parameter missing"}
	}
	return &identifiersRequest{searchID: searchID}, nil
}

func decodePriceRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req priceRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func decodeBookRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req model.BookRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func decodePayRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req model.PayRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// encodeError writes the status and headers the error carries. Errors that
// know nothing about HTTP become a bare 500.
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var coder kithttp.StatusCoder
	if errors.As(err, &coder) {
		code = coder.StatusCode()
		message = err.Error()
	}

	var sanitized interface{ Sanitized() error }
	if errors.As(err, &sanitized) {
		message = sanitized.Sanitized().Error()
	}

	var headerer kithttp.Headerer
	if errors.As(err, &headerer) {
		for k, values := range headerer.Headers() {
			for _, v := range values {
				w.Header().Add(k, v)
			}
		}
	}

	body := errorResponse{Error: message}
	var verr model.ValidationError
	if errors.As(err, &verr) {
		body.Violations = verr.Violations
	}

	w.Header().Set(SkywayErrorHeaderKey, message)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

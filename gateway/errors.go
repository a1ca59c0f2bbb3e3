// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
)

var (
	errNewRequestFailure  = errors.New("failed creating an HTTP request")
	errJSONMarshal        = errors.New("failed marshaling request body as JSON")
	errJSONUnmarshal      = errors.New("failed unmarshaling JSON response payload")
	errReadingBodyFailure = errors.New("failed while reading http response body")
	errNonSuccessResponse = errors.New("provider responded with a non-success status code")
)

// CircuitOpenError is returned without any network call while the provider's
// breaker is open.
type CircuitOpenError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit open for provider %s, retry after %s", e.Provider, e.RetryAfter)
}

func (e *CircuitOpenError) StatusCode() int {
	return http.StatusServiceUnavailable
}

// Headers adds Retry-After in whole seconds, rounded up.
func (e *CircuitOpenError) Headers() http.Header {
	seconds := int64(math.Ceil(e.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return http.Header{"Retry-After": {strconv.FormatInt(seconds, 10)}}
}

// UpstreamError reports a provider call that failed at the transport level
// or ended with a non-success status.
type UpstreamError struct {
	Provider string

	// StatusCode of the last response, zero when none was received.
	Status int

	// Body of the last response.
	Body []byte

	Err error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) StatusCode() int {
	return http.StatusBadGateway
}

// AuthError reports a failure to obtain provider credentials.
type AuthError struct {
	Provider string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("provider %s: authentication failed: %v", e.Provider, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) StatusCode() int {
	return http.StatusBadGateway
}

// countsAsSuccess reports the breaker outcome of an Execute result. A
// rejected request still proves the provider is reachable.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Status >= 400 && upstream.Status < 500 && upstream.Status != http.StatusTooManyRequests
	}
	return false
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

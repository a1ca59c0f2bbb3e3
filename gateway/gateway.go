// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package gateway is the single resilient path to a GDS provider. A Gateway
authenticates requests, retries transient failures with exponential backoff
and guards the provider with a circuit breaker. Gateways share nothing, so a
misbehaving provider never affects calls to another one.
*/
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/xmidt-org/httpaux"
	"go.uber.org/zap"
)

const errWrappedFmt = "%w: %s"

type Request struct {
	Method string

	// Path is appended to the provider base URL.
	Path string

	Query  url.Values
	Header http.Header

	// Body is sent as is when it is a []byte and JSON encoded otherwise.
	Body interface{}
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf(errWrappedFmt, errJSONUnmarshal, err.Error())
	}
	return nil
}

type Gateway struct {
	config   Config
	header   httpaux.Header
	client   *http.Client
	auth     authorizer
	breaker  *Breaker
	logger   *zap.Logger
	measures Measures
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

type Option func(*Gateway)

// WithHTTPClient replaces the client built from the timeout configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithMeasures(measures Measures) Option {
	return func(g *Gateway) {
		g.measures = measures
	}
}

// WithClock sets the time source of the breaker and the token cache.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// WithSleeper sets how the gateway waits between attempts.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(g *Gateway) {
		g.sleep = sleep
	}
}

func New(config Config, opts ...Option) (*Gateway, error) {
	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	g := &Gateway{
		config:   config,
		header:   httpaux.NewHeader(config.Header),
		logger:   zap.NewNop(),
		measures: NewMeasures(),
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, o := range opts {
		o(g)
	}
	if g.client == nil {
		g.client = newHTTPClient(config.Timeout)
	}
	g.logger = g.logger.With(zap.String("provider", config.Name))

	auth, err := newAuthorizer(config.Auth, g.client, g.now)
	if err != nil {
		return nil, err
	}
	g.auth = auth
	g.breaker = NewBreaker(config.Breaker, g.now, g.onTransition)
	return g, nil
}

func newHTTPClient(config TimeoutConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   config.Connect,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return &http.Client{
		Transport: transport,
		Timeout:   config.Request,
	}
}

// Name returns the provider name.
func (g *Gateway) Name() string {
	return g.config.Name
}

// Breaker exposes the gateway's circuit breaker.
func (g *Gateway) Breaker() *Breaker {
	return g.breaker
}

// Execute sends req to the provider. It fails fast with CircuitOpenError
// while the breaker is open. Otherwise the breaker learns the outcome once,
// after all retries.
func (g *Gateway) Execute(ctx context.Context, req Request) (*Response, error) {
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	ticket, ok := g.breaker.Acquire()
	if !ok {
		return nil, &CircuitOpenError{Provider: g.config.Name, RetryAfter: g.breaker.RetryAfter()}
	}
	resp, err := g.do(ctx, req, body)
	g.breaker.Release(ticket, countsAsSuccess(err))
	return resp, err
}

func encodeBody(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errJSONMarshal, err.Error())
	}
	return data, nil
}

func (g *Gateway) do(ctx context.Context, req Request, body []byte) (*Response, error) {
	u := g.config.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var last *UpstreamError
	for attempt := 1; ; attempt++ {
		resp, err := g.attempt(ctx, req, u, body, attempt)
		if err == nil {
			return resp, nil
		}
		var authErr *AuthError
		if errors.As(err, &authErr) || !errors.As(err, &last) {
			return nil, err
		}
		if attempt >= g.config.Retry.MaxAttempts || !retryable(last) || ctx.Err() != nil {
			return nil, last
		}
		if err = g.sleep(ctx, g.backoff(attempt)); err != nil {
			return nil, &UpstreamError{Provider: g.config.Name, Status: last.Status, Body: last.Body, Err: err}
		}
	}
}

// backoff is the delay after the given attempt: delay * 2^(attempt-1).
func (g *Gateway) backoff(attempt int) time.Duration {
	return g.config.Retry.Delay << (attempt - 1)
}

// retryable reports whether another attempt may succeed. A request that
// cannot be built never will.
func retryable(err *UpstreamError) bool {
	if errors.Is(err.Err, errNewRequestFailure) {
		return false
	}
	return err.Status == 0 || retryableStatus(err.Status)
}

func (g *Gateway) attempt(ctx context.Context, req Request, u string, body []byte, attempt int) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, reader)
	if err != nil {
		return nil, &UpstreamError{Provider: g.config.Name, Err: fmt.Errorf(errWrappedFmt, errNewRequestFailure, err.Error())}
	}
	g.header.SetTo(httpReq.Header)
	for k, v := range req.Header {
		httpReq.Header[k] = v
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", u),
		zap.Int("attempt", attempt),
	}

	if err = g.auth.authorize(ctx, httpReq); err != nil {
		g.count(OutcomeAuth)
		g.logger.Warn("failed to authorize provider request", append(fields, zap.Error(err))...)
		return nil, &AuthError{Provider: g.config.Name, Err: err}
	}
	fields = append(fields, zap.Object("headers", redactedHeader(httpReq.Header)))

	start := g.now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.observe(start)
		g.count(OutcomeTransport)
		g.logger.Warn("provider request failed", append(fields, zap.Error(err))...)
		return nil, &UpstreamError{Provider: g.config.Name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, g.config.MaxBodySize))
	g.observe(start)
	fields = append(fields, zap.Int("status", resp.StatusCode), zap.Duration("duration", g.now().Sub(start)))
	if err != nil {
		g.count(OutcomeTransport)
		g.logger.Warn("provider request failed", append(fields, zap.Error(err))...)
		return nil, &UpstreamError{Provider: g.config.Name, Err: fmt.Errorf(errWrappedFmt, errReadingBodyFailure, err.Error())}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.count(OutcomeStatus)
		g.logger.Warn("provider responded with a non-success status code", fields...)
		upstream := &UpstreamError{Provider: g.config.Name, Status: resp.StatusCode, Body: data, Err: errNonSuccessResponse}
		if resp.StatusCode == http.StatusUnauthorized {
			g.auth.invalidate()
			return nil, &AuthError{Provider: g.config.Name, Err: upstream}
		}
		return nil, upstream
	}

	g.count(OutcomeSuccess)
	g.logger.Info("provider request", fields...)
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (g *Gateway) onTransition(from, to State) {
	g.logger.Warn("circuit breaker transition", zap.Stringer("from", from), zap.Stringer("to", to))
	if g.measures.BreakerTransitions != nil {
		g.measures.BreakerTransitions.WithLabelValues(g.config.Name, to.String()).Inc()
	}
}

func (g *Gateway) count(outcome string) {
	if g.measures.Attempts != nil {
		g.measures.Attempts.WithLabelValues(g.config.Name, outcome).Inc()
	}
}

func (g *Gateway) observe(start time.Time) {
	if g.measures.RequestDuration != nil {
		g.measures.RequestDuration.WithLabelValues(g.config.Name).Observe(g.now().Sub(start).Seconds())
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

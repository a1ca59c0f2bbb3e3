// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/xmidt-org/bascule/acquire"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

var errEmptyAccessToken = errors.New("token endpoint returned an empty access token")

// authorizer decorates outgoing provider requests with credentials.
type authorizer interface {
	authorize(ctx context.Context, r *http.Request) error

	// invalidate drops cached credentials after the provider rejected them.
	invalidate()
}

func newAuthorizer(config AuthConfig, client *http.Client, now func() time.Time) (authorizer, error) {
	switch config.Type {
	case AuthFixed:
		a, err := acquire.NewFixedAuthAcquirer(config.Fixed)
		if err != nil {
			return nil, err
		}
		return acquirerAuthorizer{a}, nil
	case AuthPassword, AuthClientCredentials:
		return newTokenCache(config, client, now), nil
	}
	return acquirerAuthorizer{&acquire.DefaultAcquirer{}}, nil
}

// acquirerAuthorizer adapts a static bascule acquirer.
type acquirerAuthorizer struct {
	acquire.Acquirer
}

func (a acquirerAuthorizer) authorize(_ context.Context, r *http.Request) error {
	return acquire.AddAuth(r, a.Acquirer)
}

func (a acquirerAuthorizer) invalidate() {}

type cachedToken struct {
	header    string
	expiresAt time.Time
}

// tokenCache holds one bearer token per provider. Misses and expired tokens
// trigger a refresh that concurrent callers share.
type tokenCache struct {
	config AuthConfig
	client *http.Client
	now    func() time.Time
	fetch  func(ctx context.Context) (*oauth2.Token, error)

	lock  sync.RWMutex
	token *cachedToken
	group singleflight.Group
}

func newTokenCache(config AuthConfig, client *http.Client, now func() time.Time) *tokenCache {
	tc := &tokenCache{
		config: config,
		client: client,
		now:    now,
	}
	switch config.Type {
	case AuthPassword:
		oc := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: config.TokenURL},
			Scopes:       config.Scopes,
		}
		tc.fetch = func(ctx context.Context) (*oauth2.Token, error) {
			return oc.PasswordCredentialsToken(ctx, config.Username, config.Password)
		}
	default:
		cc := &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.TokenURL,
			Scopes:       config.Scopes,
		}
		tc.fetch = cc.Token
	}
	return tc
}

func (tc *tokenCache) authorize(ctx context.Context, r *http.Request) error {
	return acquire.AddAuth(r, contextAcquirer{ctx: ctx, tc: tc})
}

// contextAcquirer binds a request context to the bascule Acquirer interface.
type contextAcquirer struct {
	ctx context.Context
	tc  *tokenCache
}

func (c contextAcquirer) Acquire() (string, error) {
	return c.tc.Token(c.ctx)
}

// Token returns the Authorization header value, refreshing it when needed.
func (tc *tokenCache) Token(ctx context.Context) (string, error) {
	if header, ok := tc.cached(); ok {
		return header, nil
	}

	ch := tc.group.DoChan("token", func() (interface{}, error) {
		if header, ok := tc.cached(); ok {
			return header, nil
		}
		return tc.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (tc *tokenCache) cached() (string, bool) {
	tc.lock.RLock()
	defer tc.lock.RUnlock()
	if tc.token == nil || !tc.now().Before(tc.token.expiresAt) {
		return "", false
	}
	return tc.token.header, true
}

func (tc *tokenCache) refresh(ctx context.Context) (string, error) {
	if tc.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, tc.client)
	}
	token, err := tc.fetch(ctx)
	if err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", errEmptyAccessToken
	}

	expiry := tc.expiry(token)
	expiresAt := expiry.Add(-tc.config.ExpirySkew)
	if !expiresAt.After(tc.now()) {
		expiresAt = expiry
	}
	cached := &cachedToken{
		header:    token.Type() + " " + token.AccessToken,
		expiresAt: expiresAt,
	}
	tc.lock.Lock()
	tc.token = cached
	tc.lock.Unlock()
	return cached.header, nil
}

// expiry picks the configured lifetime, else the endpoint's expires_in, else
// the JWT exp claim, else the default lifetime.
func (tc *tokenCache) expiry(token *oauth2.Token) time.Time {
	now := tc.now()
	if tc.config.TokenLifetime > 0 {
		return now.Add(tc.config.TokenLifetime)
	}
	if !token.Expiry.IsZero() {
		return token.Expiry
	}
	if exp, ok := jwtExpiry(token.AccessToken); ok {
		return exp
	}
	return now.Add(DefaultTokenLifetime)
}

func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	_, _, err := new(jwt.Parser).ParseUnverified(raw, claims)
	if err != nil {
		return time.Time{}, false
	}
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true
	}
	return time.Time{}, false
}

func (tc *tokenCache) invalidate() {
	tc.lock.Lock()
	tc.token = nil
	tc.lock.Unlock()
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Defaults.
const (
	DefaultMaxAttempts      = 3
	DefaultRetryDelay       = 100 * time.Millisecond
	DefaultFailureThreshold = 5
	DefaultHalfOpenAttempts = 1
	DefaultOpenTimeout      = 30 * time.Second
	DefaultConnectTimeout   = 5 * time.Second
	DefaultRequestTimeout   = 30 * time.Second
	DefaultTokenLifetime    = 5 * time.Minute
	DefaultExpirySkew       = 30 * time.Second
	DefaultMaxBodySize      = 10 << 20
)

// Auth types.
const (
	AuthNone              = "none"
	AuthFixed             = "fixed"
	AuthPassword          = "password"
	AuthClientCredentials = "client_credentials"
)

var (
	ErrNameEmpty     = errors.New("provider name is required")
	ErrBaseURLEmpty  = errors.New("provider base url is required")
	ErrTokenURLEmpty = errors.New("token url is required for oauth2 grants")
	ErrUnknownAuth   = errors.New("unknown auth type")
)

type Config struct {
	// Name of the provider, used in logs, metrics and errors.
	Name string

	// BaseURL every request path is appended to.
	BaseURL string

	// Header is sent with every request. Names are canonicalized, so
	// lowercased configuration keys work.
	Header http.Header

	Timeout TimeoutConfig
	Retry   RetryConfig
	Breaker BreakerConfig
	Auth    AuthConfig

	// MaxBodySize caps how much of a response body is read.
	MaxBodySize int64
}

type TimeoutConfig struct {
	// Connect bounds dialing.
	Connect time.Duration

	// Request bounds a single attempt, response body included.
	Request time.Duration
}

type RetryConfig struct {
	// MaxAttempts includes the first attempt.
	MaxAttempts int

	// Delay before the second attempt. Each further delay doubles.
	Delay time.Duration
}

type BreakerConfig struct {
	FailureThreshold int
	HalfOpenAttempts int
	OpenTimeout      time.Duration
}

type AuthConfig struct {
	// Type is one of none, fixed, password or client_credentials.
	Type string

	// Fixed is the complete Authorization header value for the fixed type.
	Fixed string

	TokenURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Scopes       []string

	// TokenLifetime overrides whatever lifetime the token endpoint reports.
	TokenLifetime time.Duration

	// ExpirySkew is subtracted from a token's expiry so it is never sent stale.
	ExpirySkew time.Duration
}

func validateConfig(config *Config) error {
	if config.Name == "" {
		return ErrNameEmpty
	}
	if config.BaseURL == "" {
		return ErrBaseURLEmpty
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	if config.Timeout.Connect <= 0 {
		config.Timeout.Connect = DefaultConnectTimeout
	}
	if config.Timeout.Request <= 0 {
		config.Timeout.Request = DefaultRequestTimeout
	}
	if config.Retry.MaxAttempts <= 0 {
		config.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if config.Retry.Delay <= 0 {
		config.Retry.Delay = DefaultRetryDelay
	}
	if config.Breaker.FailureThreshold <= 0 {
		config.Breaker.FailureThreshold = DefaultFailureThreshold
	}
	if config.Breaker.HalfOpenAttempts <= 0 {
		config.Breaker.HalfOpenAttempts = DefaultHalfOpenAttempts
	}
	if config.Breaker.OpenTimeout <= 0 {
		config.Breaker.OpenTimeout = DefaultOpenTimeout
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	return validateAuthConfig(&config.Auth)
}

func validateAuthConfig(config *AuthConfig) error {
	config.Type = strings.ToLower(config.Type)
	switch config.Type {
	case "":
		config.Type = AuthNone
	case AuthNone, AuthFixed:
	case AuthPassword, AuthClientCredentials:
		if config.TokenURL == "" {
			return ErrTokenURLEmpty
		}
	default:
		return ErrUnknownAuth
	}
	if config.ExpirySkew <= 0 {
		config.ExpirySkew = DefaultExpirySkew
	}
	return nil
}

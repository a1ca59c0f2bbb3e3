// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"net/http"
	"strings"
)

// FieldViolation describes a single rejected input field.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned for malformed caller input. It is always
// raised before any network call.
type ValidationError struct {
	Message    string
	Violations []FieldViolation
}

func (e ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Reason))
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

func (e ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// Correlation id kinds used by NotFoundError.
const (
	SearchKind  = "search"
	OfferKind   = "offer"
	PriceKind   = "price"
	BookingKind = "booking"
)

// NotFoundError is returned when a correlation id is absent or expired.
// It is terminal and never retried internally.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found or expired", e.Kind, e.ID)
}

func (e NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

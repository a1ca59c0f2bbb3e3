// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xmidt-org/httpaux/erraux"
	"github.com/xmidt-org/skyway/model"
)

var (
	// ErrItemNotFound is the cause of every miss, including expired items.
	ErrItemNotFound = errors.New("item not found")

	errItemNotFoundHTTP = &erraux.Error{
		Err:  ErrItemNotFound,
		Code: http.StatusNotFound,
	}
)

// BadRequestErr reports a store operation rejected because of its input.
type BadRequestErr struct {
	Message string
}

func (bre BadRequestErr) Error() string {
	return bre.Message
}

func (bre BadRequestErr) StatusCode() int {
	return http.StatusBadRequest
}

// ItemOperationError gives context to a failed operation on a single item.
type ItemOperationError struct {
	Err       error
	Key       model.Key
	Operation string
}

func (e ItemOperationError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Operation, e.Key.Bucket, e.Key.ID, e.Err)
}

func (e ItemOperationError) Unwrap() error {
	return e.Err
}

// SanitizedError pairs the backend error with a safe error that can be
// exposed to callers.
type SanitizedError struct {
	Err     error
	ErrHTTP error
}

func (s SanitizedError) Error() string {
	return s.Err.Error()
}

func (s SanitizedError) Unwrap() error {
	return s.Err
}

// Sanitized returns the error meant to be shown to callers.
func (s SanitizedError) Sanitized() error {
	return s.ErrHTTP
}

// StatusCode reports the HTTP status of the sanitized error, if any.
func (s SanitizedError) StatusCode() int {
	var coder interface{ StatusCode() int }
	if errors.As(s.ErrHTTP, &coder) {
		return coder.StatusCode()
	}
	return http.StatusInternalServerError
}

// SanitizeError wraps err so only a generic message leaves the service. A
// missing item keeps its not found semantics.
func SanitizeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrItemNotFound) {
		return SanitizedError{Err: err, ErrHTTP: errItemNotFoundHTTP}
	}
	return SanitizedError{Err: err, ErrHTTP: &erraux.Error{
		Err:  errors.New("storage operation failed"),
		Code: http.StatusInternalServerError,
	}}
}

// NotFound builds the error returned for a missing or expired item.
func NotFound(key model.Key, operation string) error {
	return SanitizeError(ItemOperationError{Err: ErrItemNotFound, Key: key, Operation: operation})
}

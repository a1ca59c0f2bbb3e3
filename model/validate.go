// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks caller input against the struct tags of the model and
// reports failures as ValidationError.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator that reports fields by their json names.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s. Non-validation failures (such as a nil argument) are
// reported as a ValidationError as well.
func (val *Validator) Struct(message string, s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationError{Message: fmt.Sprintf("%s: %s", message, err)}
	}

	verr := ValidationError{Message: message}
	for _, fe := range fieldErrs {
		verr.Violations = append(verr.Violations, FieldViolation{
			Field:  fieldPath(fe.Namespace()),
			Reason: reason(fe),
		})
	}
	return verr
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	case "email":
		return "must be a valid email address"
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
	return "failed " + fe.Tag()
}

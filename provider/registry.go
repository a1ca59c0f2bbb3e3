// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrDuplicateProvider = errors.New("provider already registered")
	ErrNilServices       = errors.New("provider services are required")
)

// Registry maps provider names to their Services. It is built once at
// startup and only read afterwards.
type Registry struct {
	services map[string]Services
	names    []string
}

func NewRegistry() *Registry {
	return &Registry{services: map[string]Services{}}
}

func (r *Registry) Register(name string, s Services) error {
	if s == nil {
		return fmt.Errorf("%w: %s", ErrNilServices, name)
	}
	if _, ok := r.services[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, name)
	}
	r.services[name] = s
	r.names = append(r.names, name)
	sort.Strings(r.names)
	return nil
}

// Lookup returns the services of the named provider.
func (r *Registry) Lookup(name string) (Services, error) {
	s, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return s, nil
}

// Names returns the registered providers in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Len() int {
	return len(r.names)
}

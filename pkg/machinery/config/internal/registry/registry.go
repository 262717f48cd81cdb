// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package registry provides a registry for network device kinds.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/siderolabs/netconf/pkg/machinery/config/config"
	"github.com/siderolabs/netconf/pkg/machinery/config/decoder"
)

var (
	// ErrNotRegistered indicates that the device kind is not registered.
	ErrNotRegistered = errors.New("unsupported device kind")
	// ErrExists indicates that the device kind is already registered.
	ErrExists = errors.New("exists")
)

// DecodeFunc decodes a device table into a document.
type DecodeFunc func(table decoder.Table) (config.DeviceDocument, error)

var registry = &Registry{
	registered: map[string]DecodeFunc{},
}

// Registry represents the device kind registry.
//
// Kinds are matched case-insensitively.
type Registry struct {
	m          sync.Mutex
	registered map[string]DecodeFunc
}

// Register registers a device kind with the registry.
func Register(kind string, f DecodeFunc) {
	registry.register(kind, f)
}

// Decode dispatches the table to the decoder registered for its kind.
func Decode(table decoder.Table) (config.DeviceDocument, error) {
	return registry.decode(table)
}

func (r *Registry) register(kind string, f DecodeFunc) {
	r.m.Lock()
	defer r.m.Unlock()

	kind = strings.ToLower(kind)

	if _, ok := r.registered[kind]; ok {
		panic(ErrExists)
	}

	r.registered[kind] = f
}

func (r *Registry) lookup(kind string) (DecodeFunc, bool) {
	r.m.Lock()
	defer r.m.Unlock()

	f, ok := r.registered[strings.ToLower(kind)]

	return f, ok
}

func (r *Registry) decode(table decoder.Table) (config.DeviceDocument, error) {
	if err := decoder.RequireKeys(table, "kind"); err != nil {
		return nil, err
	}

	kind, ok := table["kind"].(string)
	if !ok {
		return nil, fmt.Errorf("%q: expected a string, got %T", "kind", table["kind"])
	}

	f, ok := r.lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNotRegistered, kind)
	}

	return f(table)
}

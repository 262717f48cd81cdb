// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package configloader provides methods to load net config files.
package configloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/siderolabs/netconf/pkg/machinery/config/decoder"
	"github.com/siderolabs/netconf/pkg/machinery/config/internal/registry"
	"github.com/siderolabs/netconf/pkg/machinery/nethelpers"

	// register device kinds.
	_ "github.com/siderolabs/netconf/pkg/machinery/config/types/network"
)

// SupportedVersion is the only net config version which can declare bonds.
const SupportedVersion = 3

// VersionKey is the top-level key holding the net config version.
const VersionKey = "version"

// ErrUnsupportedVersion is returned when the net config version is not SupportedVersion.
var ErrUnsupportedVersion = errors.New("unsupported net config version")

// newConfig decodes, validates and cross-checks every device of the net config.
//
// Device failures are collected, so that a single load reports all of them.
func newConfig(r io.Reader) (*NetConfig, error) {
	table, err := decoder.ParseReader(r)
	if err != nil {
		return nil, err
	}

	version, err := parseVersion(table)
	if err != nil {
		return nil, err
	}

	cfg := &NetConfig{
		version: version,
		devices: make(map[nethelpers.InterfaceName]Device, len(table)-1),
	}

	var errs *multierror.Error

	for _, key := range slices.Sorted(maps.Keys(table)) {
		if key == VersionKey {
			continue
		}

		dev, err := decodeDevice(key, table[key])
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", key, err))

			continue
		}

		cfg.devices[dev.Name] = dev
	}

	if err = errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err = cfg.checkBonds(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseVersion(table decoder.Table) (int64, error) {
	if err := decoder.RequireKeys(table, VersionKey); err != nil {
		return 0, err
	}

	version, ok := table[VersionKey].(int64)
	if !ok || version != SupportedVersion {
		return 0, fmt.Errorf("%w %v", ErrUnsupportedVersion, table[VersionKey])
	}

	return version, nil
}

func decodeDevice(key string, v any) (Device, error) {
	name, err := nethelpers.ParseInterfaceName(key)
	if err != nil {
		return Device{}, err
	}

	table, err := decoder.AsTable(key, v)
	if err != nil {
		return Device{}, err
	}

	doc, err := registry.Decode(table)
	if err != nil {
		return Device{}, err
	}

	if err = doc.Validate(); err != nil {
		return Device{}, err
	}

	return Device{Name: name, Document: doc}, nil
}

// NewFromFile will take a filepath and attempt to parse a net config file from it.
func NewFromFile(filepath string) (*NetConfig, error) {
	source, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	return NewFromBytes(source)
}

// NewFromReader will read a net config from r.
func NewFromReader(r io.Reader) (*NetConfig, error) {
	return newConfig(r)
}

// NewFromBytes will take a byteslice and attempt to parse a net config from it.
func NewFromBytes(source []byte) (*NetConfig, error) {
	return newConfig(bytes.NewReader(source))
}

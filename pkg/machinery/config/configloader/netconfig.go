// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package configloader

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/siderolabs/gen/xslices"

	"github.com/siderolabs/netconf/pkg/machinery/config/config"
	"github.com/siderolabs/netconf/pkg/machinery/nethelpers"
)

// Device is a named device declaration.
type Device struct {
	Name     nethelpers.InterfaceName
	Document config.DeviceDocument
}

// Bond is a named bond declaration.
type Bond struct {
	Name   nethelpers.InterfaceName
	Config config.NetworkBondConfig
}

// NetConfig is a loaded and validated net config.
type NetConfig struct {
	version int64
	devices map[nethelpers.InterfaceName]Device
}

// Version returns the net config version.
func (c *NetConfig) Version() int64 {
	return c.version
}

// Devices returns all devices sorted by name.
func (c *NetConfig) Devices() []Device {
	return slices.SortedFunc(maps.Values(c.devices), func(a, b Device) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

// Device returns the device with the given name.
func (c *NetConfig) Device(name nethelpers.InterfaceName) (Device, bool) {
	dev, ok := c.devices[name]

	return dev, ok
}

// Bonds returns bond devices sorted by name.
func (c *NetConfig) Bonds() []Bond {
	bonds := xslices.Filter(c.Devices(), func(dev Device) bool {
		_, ok := dev.Document.(config.NetworkBondConfig)

		return ok
	})

	return xslices.Map(bonds, func(dev Device) Bond {
		return Bond{Name: dev.Name, Config: dev.Document.(config.NetworkBondConfig)} //nolint:forcetypeassert
	})
}

// Document returns the wire representation of the whole net config, suitable for TOML and YAML encoders.
func (c *NetConfig) Document() any {
	doc := map[string]any{
		VersionKey: c.version,
	}

	for name, dev := range c.devices {
		if d, ok := dev.Document.(interface{ Document() any }); ok {
			doc[name.String()] = d.Document()
		}
	}

	return doc
}

// checkBonds verifies that bond members are not shared between bonds, and that bonds are not nested.
func (c *NetConfig) checkBonds() error {
	var errs *multierror.Error

	owners := map[nethelpers.InterfaceName]nethelpers.InterfaceName{}

	for _, bond := range c.Bonds() {
		for _, link := range bond.Config.Links() {
			if dev, ok := c.devices[link]; ok {
				if _, isBond := dev.Document.(config.NetworkBondConfig); isBond {
					errs = multierror.Append(errs, fmt.Errorf("%s: bond %q cannot be a member of bond %q", bond.Name, link, bond.Name))

					continue
				}
			}

			if owner, ok := owners[link]; ok {
				if owner == bond.Name {
					errs = multierror.Append(errs, fmt.Errorf("%s: interface %q is listed more than once", bond.Name, link))

					continue
				}

				errs = multierror.Append(errs, fmt.Errorf("%s: interface %q is a member of bonds %q and %q", bond.Name, link, owner, bond.Name))

				continue
			}

			owners[link] = bond.Name
		}
	}

	return errs.ErrorOrNil()
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package network

import (
	"net/netip"

	"github.com/siderolabs/netconf/pkg/machinery/config/config"
	"github.com/siderolabs/netconf/pkg/machinery/nethelpers"
)

// ValidateAddressing checks the addressing and routes of a device.
//
// A device needs at least one source of addresses, static addresses must match the family
// of the key they are listed under, and routes need static addressing of their own family.
func ValidateAddressing(cfg config.NetworkAddressingConfig) error {
	static4, hasStatic4 := cfg.Static4().Get()
	static6, hasStatic6 := cfg.Static6().Get()

	if !cfg.DHCP4().IsPresent() && !cfg.DHCP6().IsPresent() && !hasStatic4 && !hasStatic6 {
		return invalidNetConfig("each interface must configure dhcp and/or static addresses")
	}

	if hasStatic4 {
		if err := validateStaticFamily("static4", static4, nethelpers.FamilyInet4); err != nil {
			return err
		}
	}

	if hasStatic6 {
		if err := validateStaticFamily("static6", static6, nethelpers.FamilyInet6); err != nil {
			return err
		}
	}

	for _, route := range cfg.Routes() {
		family, ok := routeFamily(route)
		if !ok {
			return invalidNetConfig("route 'to', 'from' and 'via' must be the same IP family")
		}

		switch family {
		case nethelpers.FamilyInet4:
			if !hasStatic4 {
				return invalidNetConfig("IPv4 static routes require 'static4' addresses")
			}
		case nethelpers.FamilyInet6:
			if !hasStatic6 {
				return invalidNetConfig("IPv6 static routes require 'static6' addresses")
			}
		default:
			if !hasStatic4 && !hasStatic6 {
				return invalidNetConfig("static routes require 'static4' or 'static6' addresses")
			}
		}
	}

	return nil
}

func validateStaticFamily(key string, static config.NetworkStaticConfig, family nethelpers.Family) error {
	addresses := static.Addresses()

	if len(addresses) == 0 {
		return invalidNetConfig("'" + key + "' must contain at least one address")
	}

	for _, prefix := range addresses {
		if nethelpers.FamilyOf(prefix.Addr()) != family {
			if family == nethelpers.FamilyInet4 {
				return invalidNetConfig("'" + key + "' may only contain IPv4 addresses")
			}

			return invalidNetConfig("'" + key + "' may only contain IPv6 addresses")
		}
	}

	return nil
}

// routeFamily returns the family shared by the addresses of the route.
//
// A default route without 'from' and 'via' has no family and reports zero.
func routeFamily(route config.NetworkRouteConfig) (nethelpers.Family, bool) {
	var addrs []netip.Addr

	if dest, ok := route.Destination().Get(); ok {
		addrs = append(addrs, dest.Addr())
	}

	if src, ok := route.Source().Get(); ok {
		addrs = append(addrs, src)
	}

	if gw, ok := route.Gateway().Get(); ok {
		addrs = append(addrs, gw)
	}

	var family nethelpers.Family

	for _, addr := range addrs {
		f := nethelpers.FamilyOf(addr)

		if family != 0 && family != f {
			return 0, false
		}

		family = f
	}

	return family, true
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package network

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/siderolabs/gen/optional"
	"github.com/siderolabs/go-pointer"

	"github.com/siderolabs/netconf/pkg/machinery/config/config"
	"github.com/siderolabs/netconf/pkg/machinery/config/decoder"
)

// Check interfaces.
var (
	_ config.NetworkDHCPConfig   = &DHCP4Config{}
	_ config.NetworkDHCPConfig   = &DHCP6Config{}
	_ config.NetworkStaticConfig = &StaticConfig{}
	_ config.NetworkRouteConfig  = RouteConfig{}
)

// DHCP4Config configures DHCPv4 on a device.
//
// On the wire it is either a boolean or a table.
type DHCP4Config struct {
	DHCPEnabled     bool    `toml:"enabled" yaml:"enabled"`
	DHCPOptional    *bool   `toml:"optional,omitempty" yaml:"optional,omitempty"`
	DHCPRouteMetric *uint32 `toml:"route-metric,omitempty" yaml:"route-metric,omitempty"`
}

// Enabled implements config.NetworkDHCPConfig interface.
func (c *DHCP4Config) Enabled() bool {
	return c.DHCPEnabled
}

// Optional implements config.NetworkDHCPConfig interface.
func (c *DHCP4Config) Optional() bool {
	return pointer.SafeDeref(c.DHCPOptional)
}

// RouteMetric implements config.NetworkDHCPConfig interface.
func (c *DHCP4Config) RouteMetric() optional.Optional[uint32] {
	if c.DHCPRouteMetric == nil {
		return optional.None[uint32]()
	}

	return optional.Some(*c.DHCPRouteMetric)
}

// DHCP6Config configures DHCPv6 on a device.
//
// On the wire it is either a boolean or a table.
type DHCP6Config struct {
	DHCPEnabled  bool  `toml:"enabled" yaml:"enabled"`
	DHCPOptional *bool `toml:"optional,omitempty" yaml:"optional,omitempty"`
}

// Enabled implements config.NetworkDHCPConfig interface.
func (c *DHCP6Config) Enabled() bool {
	return c.DHCPEnabled
}

// Optional implements config.NetworkDHCPConfig interface.
func (c *DHCP6Config) Optional() bool {
	return pointer.SafeDeref(c.DHCPOptional)
}

// RouteMetric implements config.NetworkDHCPConfig interface.
func (c *DHCP6Config) RouteMetric() optional.Optional[uint32] {
	return optional.None[uint32]()
}

// decodeDHCP handles the boolean shorthand and the table form of the dhcp4 and dhcp6 keys.
func decodeDHCP[T any](key string, v any, fromBool func(bool) *T) (*T, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return fromBool(v), nil
	case decoder.Table:
		if err := decoder.RequireKeys(v, "enabled"); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}

		var cfg T

		if err := decoder.Strict(v, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}

		return &cfg, nil
	default:
		return nil, fmt.Errorf("%q: expected a boolean or a table, got %T", key, v)
	}
}

// StaticConfig configures static addresses of a single family.
type StaticConfig struct {
	StaticAddresses []netip.Prefix `toml:"addresses" yaml:"addresses"`
}

// Addresses implements config.NetworkStaticConfig interface.
func (c *StaticConfig) Addresses() []netip.Prefix {
	return c.StaticAddresses
}

func (c *StaticConfig) check(key string) error {
	if c == nil {
		return nil
	}

	if c.StaticAddresses == nil {
		return fmt.Errorf("%s: %w", key, &decoder.FieldError{Err: decoder.ErrMissingField, Key: "addresses"})
	}

	for _, addr := range c.StaticAddresses {
		if !addr.IsValid() {
			return fmt.Errorf("%s: invalid address %q", key, addr)
		}
	}

	return nil
}

// RouteDestination is either the default route or a prefix.
type RouteDestination struct {
	prefix    netip.Prefix
	isDefault bool
}

// DefaultRoute returns the destination of the default route.
func DefaultRoute() RouteDestination {
	return RouteDestination{isDefault: true}
}

// PrefixRoute returns the destination of a prefix route.
func PrefixRoute(prefix netip.Prefix) RouteDestination {
	return RouteDestination{prefix: prefix}
}

// IsDefault returns true for the default route.
func (d RouteDestination) IsDefault() bool {
	return d.isDefault
}

// Prefix returns the destination prefix, invalid for the default route.
func (d RouteDestination) Prefix() netip.Prefix {
	return d.prefix
}

// IsSet returns true if the destination was specified.
func (d RouteDestination) IsSet() bool {
	return d.isDefault || d.prefix.IsValid()
}

func (d RouteDestination) String() string {
	if d.isDefault {
		return "default"
	}

	return d.prefix.String()
}

// MarshalText implements encoding.TextMarshaler.
func (d RouteDestination) MarshalText() ([]byte, error) {
	if !d.IsSet() {
		return nil, errors.New("route destination is not set")
	}

	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *RouteDestination) UnmarshalText(text []byte) error {
	if string(text) == "default" {
		*d = DefaultRoute()

		return nil
	}

	prefix, err := netip.ParsePrefix(string(text))
	if err != nil {
		return fmt.Errorf("route destination must be 'default' or a prefix: %w", err)
	}

	*d = PrefixRoute(prefix)

	return nil
}

// RouteConfig configures a static route.
type RouteConfig struct {
	RouteTo     RouteDestination `toml:"to" yaml:"to"`
	RouteFrom   *netip.Addr      `toml:"from,omitempty" yaml:"from,omitempty"`
	RouteVia    *netip.Addr      `toml:"via,omitempty" yaml:"via,omitempty"`
	RouteMetric *uint32          `toml:"route-metric,omitempty" yaml:"route-metric,omitempty"`
}

// Destination implements config.NetworkRouteConfig interface.
func (r RouteConfig) Destination() optional.Optional[netip.Prefix] {
	if r.RouteTo.IsDefault() {
		return optional.None[netip.Prefix]()
	}

	return optional.Some(r.RouteTo.Prefix())
}

// Source implements config.NetworkRouteConfig interface.
func (r RouteConfig) Source() optional.Optional[netip.Addr] {
	if r.RouteFrom == nil {
		return optional.None[netip.Addr]()
	}

	return optional.Some(*r.RouteFrom)
}

// Gateway implements config.NetworkRouteConfig interface.
func (r RouteConfig) Gateway() optional.Optional[netip.Addr] {
	if r.RouteVia == nil {
		return optional.None[netip.Addr]()
	}

	return optional.Some(*r.RouteVia)
}

// Metric implements config.NetworkRouteConfig interface.
func (r RouteConfig) Metric() optional.Optional[uint32] {
	if r.RouteMetric == nil {
		return optional.None[uint32]()
	}

	return optional.Some(*r.RouteMetric)
}

func checkRoutes(routes []RouteConfig) error {
	for idx, route := range routes {
		if !route.RouteTo.IsSet() {
			return fmt.Errorf("route[%d]: %w", idx, &decoder.FieldError{Err: decoder.ErrMissingField, Key: "to"})
		}

		if route.RouteFrom != nil && !route.RouteFrom.IsValid() {
			return fmt.Errorf("route[%d]: invalid 'from' address", idx)
		}

		if route.RouteVia != nil && !route.RouteVia.IsValid() {
			return fmt.Errorf("route[%d]: invalid 'via' address", idx)
		}
	}

	return nil
}

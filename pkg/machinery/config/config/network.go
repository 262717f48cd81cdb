// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"net/netip"
	"time"

	"github.com/siderolabs/gen/optional"

	"github.com/siderolabs/netconf/pkg/machinery/nethelpers"
)

// NetworkAddressingConfig is implemented by devices which carry addressing and routes.
type NetworkAddressingConfig interface {
	DHCP4() optional.Optional[NetworkDHCPConfig]
	DHCP6() optional.Optional[NetworkDHCPConfig]
	Static4() optional.Optional[NetworkStaticConfig]
	Static6() optional.Optional[NetworkStaticConfig]
	Routes() []NetworkRouteConfig
}

// NetworkDHCPConfig defines dynamic addressing for a single family.
type NetworkDHCPConfig interface {
	Enabled() bool
	// Optional means the device is not required to acquire a lease to be considered online.
	Optional() bool
	RouteMetric() optional.Optional[uint32]
}

// NetworkStaticConfig defines static addressing for a single family.
type NetworkStaticConfig interface {
	Addresses() []netip.Prefix
}

// NetworkRouteConfig defines a static route.
type NetworkRouteConfig interface {
	// Destination is None for the default route.
	Destination() optional.Optional[netip.Prefix]
	Source() optional.Optional[netip.Addr]
	Gateway() optional.Optional[netip.Addr]
	Metric() optional.Optional[uint32]
}

// NetworkBondConfig defines a bond device.
type NetworkBondConfig interface {
	NetworkAddressingConfig

	Primary() optional.Optional[bool]
	Mode() nethelpers.BondMode
	MinLinks() optional.Optional[uint]
	Links() []nethelpers.InterfaceName
	MIIMonitor() optional.Optional[NetworkBondMIIMonitorConfig]
	ARPMonitor() optional.Optional[NetworkBondARPMonitorConfig]
}

// NetworkBondMIIMonitorConfig defines MII link monitoring of bond members.
type NetworkBondMIIMonitorConfig interface {
	Frequency() time.Duration
	UpDelay() time.Duration
	DownDelay() time.Duration
}

// NetworkBondARPMonitorConfig defines ARP link monitoring of bond members.
type NetworkBondARPMonitorConfig interface {
	Interval() time.Duration
	ValidateMode() nethelpers.ARPValidate
	Targets() []netip.Addr
}

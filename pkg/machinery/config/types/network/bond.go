// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package network

import (
	"fmt"
	"slices"
	"strings"

	"github.com/siderolabs/gen/optional"
	"github.com/siderolabs/gen/xslices"

	"github.com/siderolabs/netconf/pkg/machinery/config/config"
	"github.com/siderolabs/netconf/pkg/machinery/config/decoder"
	"github.com/siderolabs/netconf/pkg/machinery/config/internal/registry"
	"github.com/siderolabs/netconf/pkg/machinery/nethelpers"
)

// BondKind is a bond device kind.
const BondKind = "bond"

func init() {
	registry.Register(BondKind, func(table decoder.Table) (config.DeviceDocument, error) {
		bond, err := DecodeBondConfig(table)
		if err != nil {
			return nil, err
		}

		return bond, nil
	})
}

// Check interfaces.
var (
	_ config.DeviceDocument    = &BondConfigV1{}
	_ config.NetworkBondConfig = &BondConfigV1{}
)

// BondConfigV1 is a bond device declaration.
type BondConfigV1 struct {
	MetaKind string

	// ConfigPrimary marks the bond as the primary device of the host.
	ConfigPrimary *bool
	ConfigDHCP4   *DHCP4Config
	ConfigDHCP6   *DHCP6Config
	ConfigStatic4 *StaticConfig
	ConfigStatic6 *StaticConfig
	ConfigRoutes  []RouteConfig

	BondMode nethelpers.BondMode
	// BondMinLinks is the number of members which must be up for the bond to be up.
	BondMinLinks   *uint
	BondMonitoring BondMonitoring
	BondLinks      []nethelpers.InterfaceName
}

// bondDocument is the wire representation of BondConfigV1.
//
// Fields typed as any hold untagged unions which are decoded separately.
type bondDocument struct {
	Kind       string                     `toml:"kind" yaml:"kind"`
	Primary    *bool                      `toml:"primary,omitempty" yaml:"primary,omitempty"`
	Mode       nethelpers.BondMode        `toml:"mode" yaml:"mode"`
	MinLinks   *uint                      `toml:"min-links,omitempty" yaml:"min-links,omitempty"`
	Interfaces []nethelpers.InterfaceName `toml:"interfaces" yaml:"interfaces"`
	DHCP4      any                        `toml:"dhcp4,omitempty" yaml:"dhcp4,omitempty"`
	DHCP6      any                        `toml:"dhcp6,omitempty" yaml:"dhcp6,omitempty"`
	Static4    *StaticConfig              `toml:"static4,omitempty" yaml:"static4,omitempty"`
	Static6    *StaticConfig              `toml:"static6,omitempty" yaml:"static6,omitempty"`
	Monitoring any                        `toml:"monitoring" yaml:"monitoring"`
	Routes     []RouteConfig              `toml:"route,omitempty" yaml:"route,omitempty"`
}

// NewBondConfigV1 creates a new bond declaration.
func NewBondConfigV1(links ...nethelpers.InterfaceName) *BondConfigV1 {
	return &BondConfigV1{
		MetaKind:  BondKind,
		BondMode:  nethelpers.BondModeActiveBackup,
		BondLinks: links,
	}
}

// UnmarshalBondConfig decodes a bond declaration from a TOML document.
func UnmarshalBondConfig(data []byte) (*BondConfigV1, error) {
	table, err := decoder.Parse(data)
	if err != nil {
		return nil, err
	}

	return DecodeBondConfig(table)
}

// DecodeBondConfig decodes a bond declaration from a TOML table.
//
// Unknown keys are rejected at every level, and the kind must be "bond" in any letter case.
// The result is not validated.
func DecodeBondConfig(table decoder.Table) (*BondConfigV1, error) {
	var doc bondDocument

	if err := decoder.Strict(table, &doc); err != nil {
		return nil, err
	}

	if err := decoder.RequireKeys(table, "kind", "mode", "monitoring", "interfaces"); err != nil {
		return nil, err
	}

	dhcp4, err := decodeDHCP("dhcp4", doc.DHCP4, func(enabled bool) *DHCP4Config {
		return &DHCP4Config{DHCPEnabled: enabled}
	})
	if err != nil {
		return nil, err
	}

	dhcp6, err := decodeDHCP("dhcp6", doc.DHCP6, func(enabled bool) *DHCP6Config {
		return &DHCP6Config{DHCPEnabled: enabled}
	})
	if err != nil {
		return nil, err
	}

	if err = doc.Static4.check("static4"); err != nil {
		return nil, err
	}

	if err = doc.Static6.check("static6"); err != nil {
		return nil, err
	}

	if err = checkRoutes(doc.Routes); err != nil {
		return nil, err
	}

	monitoringTable, err := decoder.AsTable("monitoring", doc.Monitoring)
	if err != nil {
		return nil, err
	}

	monitoring, err := decodeBondMonitoring(monitoringTable)
	if err != nil {
		return nil, fmt.Errorf("monitoring: %w", err)
	}

	if strings.ToLower(doc.Kind) != BondKind {
		return nil, fmt.Errorf("kind of '%s' does not match '%s'", doc.Kind, BondKind)
	}

	return &BondConfigV1{
		MetaKind:       doc.Kind,
		ConfigPrimary:  doc.Primary,
		ConfigDHCP4:    dhcp4,
		ConfigDHCP6:    dhcp6,
		ConfigStatic4:  doc.Static4,
		ConfigStatic6:  doc.Static6,
		ConfigRoutes:   doc.Routes,
		BondMode:       doc.Mode,
		BondMinLinks:   doc.MinLinks,
		BondMonitoring: monitoring,
		BondLinks:      doc.Interfaces,
	}, nil
}

// Document returns the wire representation of the bond, suitable for TOML and YAML encoders.
func (s *BondConfigV1) Document() any {
	doc := bondDocument{
		Kind:       s.MetaKind,
		Primary:    s.ConfigPrimary,
		Mode:       s.BondMode,
		MinLinks:   s.BondMinLinks,
		Interfaces: s.BondLinks,
		Static4:    s.ConfigStatic4,
		Static6:    s.ConfigStatic6,
		Monitoring: s.BondMonitoring.document(),
		Routes:     s.ConfigRoutes,
	}

	// keep the interface values nil when unset, so that omitempty applies
	if s.ConfigDHCP4 != nil {
		doc.DHCP4 = s.ConfigDHCP4
	}

	if s.ConfigDHCP6 != nil {
		doc.DHCP6 = s.ConfigDHCP6
	}

	return &doc
}

// Clone implements config.Document interface.
func (s *BondConfigV1) Clone() config.Document {
	return s.DeepCopy()
}

// DeepCopy returns a deep copy of the bond declaration.
func (s *BondConfigV1) DeepCopy() *BondConfigV1 {
	if s == nil {
		return nil
	}

	out := *s

	out.ConfigPrimary = clonePtr(s.ConfigPrimary)
	out.BondMinLinks = clonePtr(s.BondMinLinks)

	if s.ConfigDHCP4 != nil {
		dhcp4 := *s.ConfigDHCP4
		dhcp4.DHCPOptional = clonePtr(s.ConfigDHCP4.DHCPOptional)
		dhcp4.DHCPRouteMetric = clonePtr(s.ConfigDHCP4.DHCPRouteMetric)
		out.ConfigDHCP4 = &dhcp4
	}

	if s.ConfigDHCP6 != nil {
		dhcp6 := *s.ConfigDHCP6
		dhcp6.DHCPOptional = clonePtr(s.ConfigDHCP6.DHCPOptional)
		out.ConfigDHCP6 = &dhcp6
	}

	for _, static := range []**StaticConfig{&out.ConfigStatic4, &out.ConfigStatic6} {
		if *static != nil {
			*static = &StaticConfig{StaticAddresses: slices.Clone((*static).StaticAddresses)}
		}
	}

	if s.ConfigRoutes != nil {
		out.ConfigRoutes = make([]RouteConfig, len(s.ConfigRoutes))

		for i, r := range s.ConfigRoutes {
			r.RouteFrom = clonePtr(r.RouteFrom)
			r.RouteVia = clonePtr(r.RouteVia)
			r.RouteMetric = clonePtr(r.RouteMetric)

			out.ConfigRoutes[i] = r
		}
	}

	out.BondMonitoring = s.BondMonitoring.clone()
	out.BondLinks = slices.Clone(s.BondLinks)

	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

// Kind implements config.DeviceDocument interface.
func (s *BondConfigV1) Kind() string {
	return s.MetaKind
}

// Validate implements config.Validator interface.
//
// Rules are checked in order and the first violation is returned.
func (s *BondConfigV1) Validate() error {
	if err := ValidateAddressing(s); err != nil {
		return err
	}

	interfacesCount := len(s.BondLinks)

	if interfacesCount == 0 {
		return invalidNetConfig("bonds must have 1 or more interfaces specified")
	}

	if s.BondMinLinks != nil && *s.BondMinLinks > uint(interfacesCount) {
		return invalidNetConfig("min-links is greater than number of interfaces configured")
	}

	return s.BondMonitoring.Validate()
}

// DHCP4 implements config.NetworkAddressingConfig interface.
func (s *BondConfigV1) DHCP4() optional.Optional[config.NetworkDHCPConfig] {
	if s.ConfigDHCP4 == nil {
		return optional.None[config.NetworkDHCPConfig]()
	}

	return optional.Some[config.NetworkDHCPConfig](s.ConfigDHCP4)
}

// DHCP6 implements config.NetworkAddressingConfig interface.
func (s *BondConfigV1) DHCP6() optional.Optional[config.NetworkDHCPConfig] {
	if s.ConfigDHCP6 == nil {
		return optional.None[config.NetworkDHCPConfig]()
	}

	return optional.Some[config.NetworkDHCPConfig](s.ConfigDHCP6)
}

// Static4 implements config.NetworkAddressingConfig interface.
func (s *BondConfigV1) Static4() optional.Optional[config.NetworkStaticConfig] {
	if s.ConfigStatic4 == nil {
		return optional.None[config.NetworkStaticConfig]()
	}

	return optional.Some[config.NetworkStaticConfig](s.ConfigStatic4)
}

// Static6 implements config.NetworkAddressingConfig interface.
func (s *BondConfigV1) Static6() optional.Optional[config.NetworkStaticConfig] {
	if s.ConfigStatic6 == nil {
		return optional.None[config.NetworkStaticConfig]()
	}

	return optional.Some[config.NetworkStaticConfig](s.ConfigStatic6)
}

// Routes implements config.NetworkAddressingConfig interface.
func (s *BondConfigV1) Routes() []config.NetworkRouteConfig {
	return xslices.Map(s.ConfigRoutes, func(r RouteConfig) config.NetworkRouteConfig { return r })
}

// Primary implements config.NetworkBondConfig interface.
func (s *BondConfigV1) Primary() optional.Optional[bool] {
	if s.ConfigPrimary == nil {
		return optional.None[bool]()
	}

	return optional.Some(*s.ConfigPrimary)
}

// Mode implements config.NetworkBondConfig interface.
func (s *BondConfigV1) Mode() nethelpers.BondMode {
	return s.BondMode
}

// MinLinks implements config.NetworkBondConfig interface.
func (s *BondConfigV1) MinLinks() optional.Optional[uint] {
	if s.BondMinLinks == nil {
		return optional.None[uint]()
	}

	return optional.Some(*s.BondMinLinks)
}

// Links implements config.NetworkBondConfig interface.
func (s *BondConfigV1) Links() []nethelpers.InterfaceName {
	return s.BondLinks
}

// MIIMonitor implements config.NetworkBondConfig interface.
func (s *BondConfigV1) MIIMonitor() optional.Optional[config.NetworkBondMIIMonitorConfig] {
	if s.BondMonitoring.MII == nil {
		return optional.None[config.NetworkBondMIIMonitorConfig]()
	}

	return optional.Some[config.NetworkBondMIIMonitorConfig](s.BondMonitoring.MII)
}

// ARPMonitor implements config.NetworkBondConfig interface.
func (s *BondConfigV1) ARPMonitor() optional.Optional[config.NetworkBondARPMonitorConfig] {
	if s.BondMonitoring.ARP == nil {
		return optional.None[config.NetworkBondARPMonitorConfig]()
	}

	return optional.Some[config.NetworkBondARPMonitorConfig](s.BondMonitoring.ARP)
}

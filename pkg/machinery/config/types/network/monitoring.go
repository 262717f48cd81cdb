// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package network

import (
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"time"

	"github.com/siderolabs/netconf/pkg/machinery/config/config"
	"github.com/siderolabs/netconf/pkg/machinery/config/decoder"
	"github.com/siderolabs/netconf/pkg/machinery/nethelpers"
)

// MaxARPTargets is the kernel limit of bond ARP monitoring targets.
const MaxARPTargets = 16

// Check interfaces.
var (
	_ config.NetworkBondMIIMonitorConfig = &MIIMonConfig{}
	_ config.NetworkBondARPMonitorConfig = &ARPMonConfig{}
	_ config.Validator                   = &MIIMonConfig{}
	_ config.Validator                   = &ARPMonConfig{}
	_ config.Validator                   = BondMonitoring{}
)

var (
	miiMonKeys = []string{"miimon-frequency-ms", "miimon-updelay-ms", "miimon-downdelay-ms"}
	arpMonKeys = []string{"arpmon-interval-ms", "arpmon-validate", "arpmon-targets"}
)

// MIIMonConfig configures MII link monitoring of the bond members.
type MIIMonConfig struct {
	MIIFrequency uint32 `toml:"miimon-frequency-ms" yaml:"miimon-frequency-ms"`
	MIIUpDelay   uint32 `toml:"miimon-updelay-ms" yaml:"miimon-updelay-ms"`
	MIIDownDelay uint32 `toml:"miimon-downdelay-ms" yaml:"miimon-downdelay-ms"`
}

// Frequency implements config.NetworkBondMIIMonitorConfig interface.
func (c *MIIMonConfig) Frequency() time.Duration {
	return time.Duration(c.MIIFrequency) * time.Millisecond
}

// UpDelay implements config.NetworkBondMIIMonitorConfig interface.
func (c *MIIMonConfig) UpDelay() time.Duration {
	return time.Duration(c.MIIUpDelay) * time.Millisecond
}

// DownDelay implements config.NetworkBondMIIMonitorConfig interface.
func (c *MIIMonConfig) DownDelay() time.Duration {
	return time.Duration(c.MIIDownDelay) * time.Millisecond
}

// Validate implements config.Validator interface.
func (c *MIIMonConfig) Validate() error {
	// the kernel treats a frequency of 0 as "disabled"
	if c.MIIFrequency == 0 {
		return invalidNetConfig("miimon-frequency-ms of 0 disables Mii Monitoring, either set a value or configure Arp Monitoring")
	}

	// the kernel rounds the delays down to a multiple of the frequency,
	// a delay below the frequency would silently become zero
	if c.MIIFrequency > c.MIIUpDelay || c.MIIFrequency > c.MIIDownDelay {
		return invalidNetConfig("miimon-updelay-ms and miimon-downdelay-ms must be equal to or larger than miimon-frequency-ms")
	}

	return nil
}

func decodeMIIMon(table decoder.Table) (*MIIMonConfig, error) {
	var cfg MIIMonConfig

	if err := decoder.Strict(table, &cfg); err != nil {
		return nil, err
	}

	if err := decoder.RequireKeys(table, miiMonKeys...); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ARPMonConfig configures ARP link monitoring of the bond members.
type ARPMonConfig struct {
	ARPInterval     uint32                 `toml:"arpmon-interval-ms" yaml:"arpmon-interval-ms"`
	ARPValidateMode nethelpers.ARPValidate `toml:"arpmon-validate" yaml:"arpmon-validate"`
	ARPTargets      []netip.Addr           `toml:"arpmon-targets" yaml:"arpmon-targets"`
}

// Interval implements config.NetworkBondARPMonitorConfig interface.
func (c *ARPMonConfig) Interval() time.Duration {
	return time.Duration(c.ARPInterval) * time.Millisecond
}

// ValidateMode implements config.NetworkBondARPMonitorConfig interface.
func (c *ARPMonConfig) ValidateMode() nethelpers.ARPValidate {
	return c.ARPValidateMode
}

// Targets implements config.NetworkBondARPMonitorConfig interface.
func (c *ARPMonConfig) Targets() []netip.Addr {
	return c.ARPTargets
}

// Validate implements config.Validator interface.
func (c *ARPMonConfig) Validate() error {
	if c.ARPInterval == 0 {
		return invalidNetConfig("arpmon-interval-ms of 0 disables Arp Monitoring, either set a value or configure Mii Monitoring")
	}

	if len(c.ARPTargets) == 0 || len(c.ARPTargets) > MaxARPTargets {
		return invalidNetConfig(fmt.Sprintf("arpmon-targets must include between 1 and %d targets", MaxARPTargets))
	}

	return nil
}

func decodeARPMon(table decoder.Table) (*ARPMonConfig, error) {
	var cfg ARPMonConfig

	if err := decoder.Strict(table, &cfg); err != nil {
		return nil, err
	}

	if err := decoder.RequireKeys(table, arpMonKeys...); err != nil {
		return nil, err
	}

	for _, target := range cfg.ARPTargets {
		if !target.IsValid() {
			return nil, errors.New("arpmon-targets: empty address")
		}

		if target.Zone() != "" {
			return nil, fmt.Errorf("arpmon-targets: address %q must not have a zone", target)
		}
	}

	return &cfg, nil
}

// BondMonitoring selects exactly one link monitoring strategy.
//
// On the wire it is an untagged table: the miimon-* and arpmon-* key families select the variant.
type BondMonitoring struct {
	MII *MIIMonConfig
	ARP *ARPMonConfig
}

// Validate implements config.Validator interface.
func (m BondMonitoring) Validate() error {
	switch {
	case m.MII != nil && m.ARP != nil:
		return invalidNetConfig("only one of Mii Monitoring and Arp Monitoring can be configured")
	case m.MII != nil:
		return m.MII.Validate()
	case m.ARP != nil:
		return m.ARP.Validate()
	default:
		return invalidNetConfig("either Mii Monitoring or Arp Monitoring must be configured")
	}
}

func (m BondMonitoring) clone() BondMonitoring {
	var out BondMonitoring

	if m.MII != nil {
		mii := *m.MII
		out.MII = &mii
	}

	if m.ARP != nil {
		arp := *m.ARP
		arp.ARPTargets = slices.Clone(m.ARP.ARPTargets)
		out.ARP = &arp
	}

	return out
}

// document returns the variant to be encoded.
func (m BondMonitoring) document() any {
	if m.MII != nil {
		return m.MII
	}

	if m.ARP != nil {
		return m.ARP
	}

	return nil
}

// decodeBondMonitoring tries every variant in order, the first one decoding cleanly wins.
func decodeBondMonitoring(table decoder.Table) (BondMonitoring, error) {
	mii, miiErr := decodeMIIMon(table)
	if miiErr == nil {
		return BondMonitoring{MII: mii}, nil
	}

	arp, arpErr := decodeARPMon(table)
	if arpErr == nil {
		return BondMonitoring{ARP: arp}, nil
	}

	return BondMonitoring{}, fmt.Errorf("data did not match any variant of bond monitoring configuration (mii: %w; arp: %w)", miiErr, arpErr)
}

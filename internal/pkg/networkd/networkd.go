// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package networkd renders bond declarations as systemd-networkd configuration.
package networkd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/siderolabs/netconf/pkg/machinery/config/config"
	"github.com/siderolabs/netconf/pkg/machinery/config/configloader"
	"github.com/siderolabs/netconf/pkg/machinery/nethelpers"
)

// File is a systemd-networkd configuration file.
type File struct {
	Name     string
	Contents string
}

// Render renders all bonds of the net config.
func Render(cfg *configloader.NetConfig) ([]File, error) {
	var files []File

	for _, bond := range cfg.Bonds() {
		rendered, err := RenderBond(bond.Name, bond.Config)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", bond.Name, err)
		}

		files = append(files, rendered...)
	}

	return files, nil
}

// RenderBond renders the bond netdev, the bond network and a network for each member.
//
// The first member is the preferred active member of the active-backup bond.
func RenderBond(name nethelpers.InterfaceName, bond config.NetworkBondConfig) ([]File, error) {
	netdev, err := renderBondNetDev(name, bond)
	if err != nil {
		return nil, err
	}

	files := []File{
		{
			Name:     fmt.Sprintf("10-%s.netdev", name),
			Contents: netdev,
		},
		{
			Name:     fmt.Sprintf("10-%s.network", name),
			Contents: renderNetwork(name, bond),
		},
	}

	for index, link := range bond.Links() {
		var sb strings.Builder

		fmt.Fprintf(&sb, "[Match]\nName=%s\n\n[Network]\nBond=%s\n", link, name)

		if index == 0 {
			sb.WriteString("PrimarySlave=true\n")
		}

		files = append(files, File{
			Name:     fmt.Sprintf("10-%s-%s.network", name, link),
			Contents: sb.String(),
		})
	}

	return files, nil
}

func renderBondNetDev(name nethelpers.InterfaceName, bond config.NetworkBondConfig) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[NetDev]\nName=%s\nKind=bond\n\n[Bond]\nMode=%s\n", name, bond.Mode())

	if minLinks, ok := bond.MinLinks().Get(); ok {
		fmt.Fprintf(&sb, "MinLinks=%d\n", minLinks)
	}

	if mii, ok := bond.MIIMonitor().Get(); ok {
		fmt.Fprintf(&sb, "MIIMonitorSec=%s\nUpDelaySec=%s\nDownDelaySec=%s\n", timeSpan(mii.Frequency()), timeSpan(mii.UpDelay()), timeSpan(mii.DownDelay()))
	}

	if arp, ok := bond.ARPMonitor().Get(); ok {
		targets := make([]string, 0, len(arp.Targets()))

		for _, target := range arp.Targets() {
			if !target.Is4() {
				return "", fmt.Errorf("ARP monitoring target %s is not supported by systemd-networkd, only IPv4 targets are", target)
			}

			targets = append(targets, target.String())
		}

		fmt.Fprintf(&sb, "ARPIntervalSec=%s\nARPValidate=%s\nARPIPTargets=%s\n", timeSpan(arp.Interval()), arp.ValidateMode(), strings.Join(targets, " "))
	}

	return sb.String(), nil
}

func renderNetwork(name nethelpers.InterfaceName, cfg config.NetworkAddressingConfig) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[Match]\nName=%s\n\n[Network]\n", name)

	dhcp4, hasDHCP4 := cfg.DHCP4().Get()
	dhcp6, hasDHCP6 := cfg.DHCP6().Get()

	v4 := hasDHCP4 && dhcp4.Enabled()
	v6 := hasDHCP6 && dhcp6.Enabled()

	switch {
	case v4 && v6:
		sb.WriteString("DHCP=yes\n")
	case v4:
		sb.WriteString("DHCP=ipv4\n")
	case v6:
		sb.WriteString("DHCP=ipv6\n")
	default:
		sb.WriteString("DHCP=no\n")
	}

	var static []config.NetworkStaticConfig

	if static4, ok := cfg.Static4().Get(); ok {
		static = append(static, static4)
	}

	if static6, ok := cfg.Static6().Get(); ok {
		static = append(static, static6)
	}

	for _, s := range static {
		for _, addr := range s.Addresses() {
			fmt.Fprintf(&sb, "Address=%s\n", addr)
		}
	}

	if v4 {
		if metric, ok := dhcp4.RouteMetric().Get(); ok {
			fmt.Fprintf(&sb, "\n[DHCPv4]\nRouteMetric=%d\n", metric)
		}
	}

	for _, route := range cfg.Routes() {
		sb.WriteString("\n[Route]\n")

		if dest, ok := route.Destination().Get(); ok {
			fmt.Fprintf(&sb, "Destination=%s\n", dest)
		}

		if gw, ok := route.Gateway().Get(); ok {
			fmt.Fprintf(&sb, "Gateway=%s\n", gw)
		}

		if src, ok := route.Source().Get(); ok {
			fmt.Fprintf(&sb, "PreferredSource=%s\n", src)
		}

		if metric, ok := route.Metric().Get(); ok {
			fmt.Fprintf(&sb, "Metric=%d\n", metric)
		}
	}

	if !requiredForOnline(cfg, v4, v6, len(static) > 0) {
		sb.WriteString("\n[Link]\nRequiredForOnline=no\n")
	}

	return sb.String()
}

// requiredForOnline reports whether the device has to be configured for the host to be online.
//
// Devices with only optional DHCP don't block boot.
func requiredForOnline(cfg config.NetworkAddressingConfig, v4, v6, hasStatic bool) bool {
	if hasStatic {
		return true
	}

	if v4 && !cfg.DHCP4().ValueOrZero().Optional() {
		return true
	}

	if v6 && !cfg.DHCP6().ValueOrZero().Optional() {
		return true
	}

	return false
}

// timeSpan renders the duration in systemd time span format.
func timeSpan(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

// Write writes the files into dir, creating it if needed.
func Write(ctx context.Context, logger *zap.Logger, dir string, files []File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, file.Name)

		if err := os.WriteFile(path, []byte(file.Contents), 0o644); err != nil {
			return fmt.Errorf("error writing %q: %w", path, err)
		}

		logger.Info("wrote networkd file", zap.String("path", path), zap.Int("size", len(file.Contents)))
	}

	return nil
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package encoder_test

import (
	_ "embed"
	"net/netip"
	"strings"
	"testing"

	"github.com/siderolabs/go-pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/siderolabs/netconf/pkg/machinery/config/configloader"
	"github.com/siderolabs/netconf/pkg/machinery/config/encoder"
	"github.com/siderolabs/netconf/pkg/machinery/config/types/network"
	"github.com/siderolabs/netconf/pkg/machinery/nethelpers"
)

//go:embed testdata/net.toml
var netConfigDocument []byte

func miiBond() *network.BondConfigV1 {
	cfg := network.NewBondConfigV1("eth0", "eth1")
	cfg.ConfigDHCP6 = &network.DHCP6Config{DHCPEnabled: true, DHCPOptional: pointer.To(false)}
	cfg.BondMinLinks = pointer.To[uint](2)
	cfg.BondMonitoring = network.BondMonitoring{
		MII: &network.MIIMonConfig{MIIFrequency: 100, MIIUpDelay: 200, MIIDownDelay: 300},
	}

	return cfg
}

func arpBond() *network.BondConfigV1 {
	cfg := network.NewBondConfigV1("eth2")
	cfg.MetaKind = "BOND"
	cfg.ConfigPrimary = pointer.To(false)
	cfg.ConfigStatic4 = &network.StaticConfig{
		StaticAddresses: []netip.Prefix{netip.MustParsePrefix("10.0.0.2/24")},
	}
	cfg.ConfigRoutes = []network.RouteConfig{
		{
			RouteTo:     network.PrefixRoute(netip.MustParsePrefix("10.1.0.0/16")),
			RouteVia:    pointer.To(netip.MustParseAddr("10.0.0.1")),
			RouteMetric: pointer.To[uint32](10),
		},
	}
	cfg.BondMonitoring = network.BondMonitoring{
		ARP: &network.ARPMonConfig{
			ARPInterval:     1000,
			ARPValidateMode: nethelpers.ARPValidateNone,
			ARPTargets:      []netip.Addr{netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.254")},
		},
	}

	return cfg
}

func TestBondRoundTrip(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		name string
		cfg  *network.BondConfigV1
	}{
		{
			name: "mii",
			cfg:  miiBond(),
		},
		{
			name: "arp",
			cfg:  arpBond(),
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			require.NoError(t, test.cfg.Validate())

			out, err := encoder.NewEncoder(test.cfg).Encode()
			require.NoError(t, err)

			decoded, err := network.UnmarshalBondConfig(out)
			require.NoError(t, err, string(out))

			assert.Equal(t, test.cfg, decoded)
		})
	}
}

func TestNetConfigRoundTrip(t *testing.T) {
	t.Parallel()

	cfg, err := configloader.NewFromBytes(netConfigDocument)
	require.NoError(t, err)

	out, err := encoder.EncodeNetConfig(cfg)
	require.NoError(t, err)

	reloaded, err := configloader.NewFromBytes(out)
	require.NoError(t, err, string(out))

	assert.Equal(t, cfg.Version(), reloaded.Version())
	assert.Equal(t, cfg.Devices(), reloaded.Devices())

	// canonical output is stable
	again, err := encoder.EncodeNetConfig(reloaded)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestEncodeTOML(t *testing.T) {
	t.Parallel()

	out, err := encoder.NewEncoder(miiBond(), encoder.WithHeader("generated\nby test")).Encode()
	require.NoError(t, err)

	text := string(out)

	assert.True(t, strings.HasPrefix(text, "# generated\n# by test\n\n"), text)
	assert.Contains(t, text, "[monitoring]")
	assert.Contains(t, text, "miimon-frequency-ms = 100")
	assert.Contains(t, text, "[dhcp6]")
	assert.NotContains(t, text, "dhcp4")
	assert.NotContains(t, text, "primary")
	assert.NotContains(t, text, "route")
}

func TestEncodeYAML(t *testing.T) {
	t.Parallel()

	out, err := encoder.NewEncoder(arpBond(), encoder.WithFormat(encoder.FormatYAML), encoder.WithHeader("bond")).Encode()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(out), "# bond\n"), string(out))

	var decoded map[string]any

	require.NoError(t, yaml.Unmarshal(out, &decoded))

	assert.Equal(t, "BOND", decoded["kind"])
	assert.Equal(t, "active-backup", decoded["mode"])
	assert.Equal(t, false, decoded["primary"])
	assert.Equal(t, []any{"eth2"}, decoded["interfaces"])
	assert.Equal(t, map[string]any{
		"arpmon-interval-ms": 1000,
		"arpmon-validate":    "none",
		"arpmon-targets":     []any{"10.0.0.1", "10.0.0.254"},
	}, decoded["monitoring"])
	assert.Equal(t, []any{
		map[string]any{"to": "10.1.0.0/16", "via": "10.0.0.1", "route-metric": 10},
	}, decoded["route"])
	assert.NotContains(t, decoded, "dhcp4")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, format := range []encoder.Format{encoder.FormatTOML, encoder.FormatYAML} {
		parsed, err := encoder.ParseFormat(format.String())
		require.NoError(t, err)
		assert.Equal(t, format, parsed)
	}

	_, err := encoder.ParseFormat("json")
	assert.EqualError(t, err, `unsupported output format "json"`)
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

//nolint:testpackage
package configloader

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/siderolabs/netconf/pkg/machinery/config/decoder"
	"github.com/siderolabs/netconf/pkg/machinery/config/types/network"
	"github.com/siderolabs/netconf/pkg/machinery/nethelpers"
)

//go:embed testdata/net.toml
var netConfigDocument []byte

const miiBond = `kind = "bond"
mode = "active-backup"
interfaces = [%s]
dhcp4 = true
monitoring = { miimon-frequency-ms = 100, miimon-updelay-ms = 200, miimon-downdelay-ms = 200 }
`

func bond(name string, links ...string) string {
	quoted := make([]string, 0, len(links))

	for _, link := range links {
		quoted = append(quoted, `"`+link+`"`)
	}

	return "\n[" + name + "]\n" + strings.Replace(miiBond, "%s", strings.Join(quoted, ", "), 1)
}

type Suite struct {
	suite.Suite
}

func TestSuite(t *testing.T) {
	suite.Run(t, new(Suite))
}

func (suite *Suite) TestLoad() {
	cfg, err := NewFromBytes(netConfigDocument)
	suite.Require().NoError(err)

	suite.Assert().EqualValues(SupportedVersion, cfg.Version())

	devices := cfg.Devices()
	suite.Require().Len(devices, 2)
	suite.Assert().Equal(nethelpers.InterfaceName("bond0"), devices[0].Name)
	suite.Assert().Equal(nethelpers.InterfaceName("bond1"), devices[1].Name)
	suite.Assert().Equal("Bond", devices[0].Document.Kind())

	bonds := cfg.Bonds()
	suite.Require().Len(bonds, 2)
	suite.Assert().True(bonds[0].Config.Primary().ValueOrZero())
	suite.Assert().True(bonds[0].Config.MIIMonitor().IsPresent())
	suite.Assert().True(bonds[1].Config.ARPMonitor().IsPresent())
	suite.Assert().Equal([]nethelpers.InterfaceName{"eno3", "eno4"}, bonds[1].Config.Links())

	dev, ok := cfg.Device("bond1")
	suite.Require().True(ok)
	suite.Assert().IsType(&network.BondConfigV1{}, dev.Document)

	_, ok = cfg.Device("eno1")
	suite.Assert().False(ok)
}

func (suite *Suite) TestLoadEmpty() {
	cfg, err := NewFromBytes([]byte("version = 3\n"))
	suite.Require().NoError(err)

	suite.Assert().Empty(cfg.Devices())
	suite.Assert().Empty(cfg.Bonds())
}

func (suite *Suite) TestFromFile() {
	path := filepath.Join(suite.T().TempDir(), "net.toml")

	suite.Require().NoError(os.WriteFile(path, netConfigDocument, 0o644))

	cfg, err := NewFromFile(path)
	suite.Require().NoError(err)
	suite.Assert().Len(cfg.Bonds(), 2)

	_, err = NewFromFile(filepath.Join(suite.T().TempDir(), "missing.toml"))
	suite.Assert().ErrorIs(err, os.ErrNotExist)
}

func (suite *Suite) TestFromReader() {
	cfg, err := NewFromReader(strings.NewReader("version = 3\n" + bond("bond0", "eth0")))
	suite.Require().NoError(err)
	suite.Assert().Len(cfg.Bonds(), 1)
}

func (suite *Suite) TestVersion() {
	for _, t := range []struct {
		source        string
		expectedError string
	}{
		{
			source:        bond("bond0", "eth0"),
			expectedError: `missing field "version"`,
		},
		{
			source:        "version = 2\n",
			expectedError: "unsupported net config version 2",
		},
		{
			source:        "version = \"3\"\n",
			expectedError: "unsupported net config version 3",
		},
		{
			source:        "version = 3.0\n",
			expectedError: "unsupported net config version 3",
		},
	} {
		_, err := NewFromBytes([]byte(t.source))

		suite.Require().Error(err, t.source)
		suite.Assert().ErrorContains(err, t.expectedError)
	}
}

func (suite *Suite) TestSyntaxError() {
	_, err := NewFromBytes([]byte("version = 3\n[bond0\n"))
	suite.Require().Error(err)
}

func (suite *Suite) TestDeviceErrors() {
	for _, t := range []struct {
		name          string
		source        string
		expectedError string
	}{
		{
			name:          "unknown kind",
			source:        "[br0]\nkind = \"bridge\"\n",
			expectedError: `br0: unsupported device kind "bridge"`,
		},
		{
			name:          "missing kind",
			source:        "[eth0]\ndhcp4 = true\n",
			expectedError: `eth0: missing field "kind"`,
		},
		{
			name:          "not a table",
			source:        "eth0 = 1\n",
			expectedError: `eth0: "eth0": expected a table, got int64`,
		},
		{
			name:          "invalid name",
			source:        bond("bondwithaverylongname", "eth0"),
			expectedError: "must be 15 characters or less",
		},
		{
			name:          "decode failure",
			source:        strings.Replace(bond("bond0", "eth0"), "active-backup", "802.3ad", 1),
			expectedError: `bond0: `,
		},
		{
			name:          "validation failure",
			source:        bond("bond0"),
			expectedError: "bond0: invalid network configuration: bonds must have 1 or more interfaces specified",
		},
	} {
		suite.Run(t.name, func() {
			_, err := NewFromBytes([]byte("version = 3\n" + t.source))

			suite.Require().Error(err)
			suite.Assert().ErrorContains(err, t.expectedError)
		})
	}
}

func (suite *Suite) TestAggregatedErrors() {
	source := "version = 3\n" +
		bond("bond1") +
		strings.Replace(bond("bond0", "eth0"), "dhcp4 = true\n", "mtu = 1500\n", 1) +
		bond("bond2", "eth1")

	_, err := NewFromBytes([]byte(source))
	suite.Require().Error(err)

	msg := err.Error()

	suite.Assert().Contains(msg, `bond0: unknown field "mtu"`)
	suite.Assert().Contains(msg, "bond1: invalid network configuration: bonds must have 1 or more interfaces specified")
	suite.Assert().NotContains(msg, "bond2")
	suite.Assert().Less(strings.Index(msg, "bond0:"), strings.Index(msg, "bond1:"))

	suite.Assert().ErrorIs(err, network.ErrInvalidNetConfig)
	suite.Assert().ErrorIs(err, decoder.ErrUnknownField)
}

func (suite *Suite) TestBondMembership() {
	for _, t := range []struct {
		name          string
		source        string
		expectedError string
	}{
		{
			name:          "shared member",
			source:        bond("bond0", "eth0", "eth1") + bond("bond1", "eth1", "eth2"),
			expectedError: `bond1: interface "eth1" is a member of bonds "bond0" and "bond1"`,
		},
		{
			name:          "duplicate member",
			source:        bond("bond0", "eth0", "eth0"),
			expectedError: `bond0: interface "eth0" is listed more than once`,
		},
		{
			name:          "nested bond",
			source:        bond("bond0", "eth0") + bond("bond1", "bond0"),
			expectedError: `bond1: bond "bond0" cannot be a member of bond "bond1"`,
		},
		{
			name:          "self member",
			source:        bond("bond0", "bond0"),
			expectedError: `bond0: bond "bond0" cannot be a member of bond "bond0"`,
		},
	} {
		suite.Run(t.name, func() {
			_, err := NewFromBytes([]byte("version = 3\n" + t.source))

			suite.Require().Error(err)
			suite.Assert().ErrorContains(err, t.expectedError)
		})
	}
}

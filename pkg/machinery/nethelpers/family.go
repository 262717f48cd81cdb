// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package nethelpers

import (
	"fmt"
	"net/netip"
)

// Family is a network family.
type Family uint8

// Family constants.
const (
	FamilyInet4 Family = 2  // inet4
	FamilyInet6 Family = 10 // inet6
)

func (f Family) String() string {
	switch f {
	case FamilyInet4:
		return "inet4"
	case FamilyInet6:
		return "inet6"
	default:
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
}

// FamilyOf returns the family of the address.
//
// IPv4-mapped IPv6 addresses are reported as IPv6.
func FamilyOf(addr netip.Addr) Family {
	if addr.Is4() {
		return FamilyInet4
	}

	return FamilyInet6
}
